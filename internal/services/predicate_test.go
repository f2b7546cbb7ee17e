package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicateEval(t *testing.T) {
	p := Predicate{All: []Condition{baseIs(1, "gt", 2), totalIs("gt", 10)}}
	assert.True(t, p.Eval([]int{0, 5, 1, 1, 8}, 15))
	assert.False(t, p.Eval([]int{0, 1, 1, 1, 8}, 15))
	assert.False(t, p.Eval([]int{0, 5, 1, 1, 0}, 10))

	anyOf := Predicate{Any: []Predicate{
		{All: []Condition{baseIs(4, "eq", 8)}},
		{All: []Condition{baseIs(4, "gt", 1), totalIs("gt", 10)}},
	}}
	assert.True(t, anyOf.Eval([]int{0, 1, 1, 1, 8}, 5))
	assert.True(t, anyOf.Eval([]int{0, 5, 5, 1, 2}, 13))
	assert.False(t, anyOf.Eval([]int{0, 5, 5, 1, 2}, 10))
}

func TestConditionOps(t *testing.T) {
	base := []int{3}
	assert.True(t, baseIs(0, "gte", 3).eval(base, 0))
	assert.True(t, baseIs(0, "lte", 3).eval(base, 0))
	assert.True(t, baseIs(0, "lt", 4).eval(base, 0))
	assert.True(t, baseIs(0, "ne", 2).eval(base, 0))
	assert.False(t, baseIs(0, "bogus", 3).eval(base, 0))
	// unrecorded base answers never satisfy a condition
	assert.False(t, baseIs(2, "lt", 100).eval(base, 0))
}

func TestPredicateValidate(t *testing.T) {
	assert.NoError(t, Predicate{All: []Condition{baseIs(4, "eq", 8)}}.validate())
	assert.Error(t, Predicate{}.validate())
	assert.Error(t, Predicate{All: []Condition{baseIs(5, "eq", 8)}}.validate())
	assert.Error(t, Predicate{All: []Condition{{Source: "extra", Op: "eq"}}}.validate())
	assert.Error(t, Predicate{All: []Condition{{Source: SourceTotal, Op: "~"}}}.validate())
	assert.Error(t, Predicate{Any: []Predicate{{}}}.validate())
}
