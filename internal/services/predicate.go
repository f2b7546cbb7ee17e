package services

import "fmt"

// Operand sources a condition can read.
const (
	SourceBase  = "base"
	SourceTotal = "total"
)

// Condition compares one input of an inclusion predicate against a constant.
// For SourceBase, Index is the 0-based position of the base question.
type Condition struct {
	Source string `json:"source" yaml:"source"`
	Index  int    `json:"index,omitempty" yaml:"index,omitempty"`
	Op     string `json:"op" yaml:"op"`
	Value  int    `json:"value" yaml:"value"`
}

// Predicate decides whether a conditional question is asked. It holds when
// every condition in All holds and, if Any is non-empty, at least one nested
// predicate in Any holds. It reads only its inputs, never session state.
type Predicate struct {
	All []Condition `json:"all,omitempty" yaml:"all,omitempty"`
	Any []Predicate `json:"any,omitempty" yaml:"any,omitempty"`
}

// Eval reports whether the predicate holds for the base-tier point values
// (in bank order) and the running raw total.
func (p Predicate) Eval(base []int, total int) bool {
	for _, c := range p.All {
		if !c.eval(base, total) {
			return false
		}
	}
	if len(p.Any) == 0 {
		return true
	}
	for _, sub := range p.Any {
		if sub.Eval(base, total) {
			return true
		}
	}
	return false
}

func (p Predicate) validate() error {
	if len(p.All) == 0 && len(p.Any) == 0 {
		return fmt.Errorf("empty predicate")
	}
	for _, c := range p.All {
		if err := c.validate(); err != nil {
			return err
		}
	}
	for _, sub := range p.Any {
		if err := sub.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Condition) eval(base []int, total int) bool {
	var v int
	switch c.Source {
	case SourceBase:
		// a base answer that was never recorded compares false
		if c.Index < 0 || c.Index >= len(base) {
			return false
		}
		v = base[c.Index]
	case SourceTotal:
		v = total
	default:
		return false
	}
	switch c.Op {
	case "gt":
		return v > c.Value
	case "gte":
		return v >= c.Value
	case "lt":
		return v < c.Value
	case "lte":
		return v <= c.Value
	case "eq":
		return v == c.Value
	case "ne":
		return v != c.Value
	}
	return false
}

func (c Condition) validate() error {
	switch c.Source {
	case SourceBase:
		if c.Index < 0 || c.Index >= BaseQuestionCount {
			return fmt.Errorf("base index %d out of range", c.Index)
		}
	case SourceTotal:
	default:
		return fmt.Errorf("unknown condition source %q", c.Source)
	}
	switch c.Op {
	case "gt", "gte", "lt", "lte", "eq", "ne":
	default:
		return fmt.Errorf("unknown condition op %q", c.Op)
	}
	return nil
}

// shorthands for the built-in bank
func baseIs(index int, op string, value int) Condition {
	return Condition{Source: SourceBase, Index: index, Op: op, Value: value}
}

func totalIs(op string, value int) Condition {
	return Condition{Source: SourceTotal, Op: op, Value: value}
}
