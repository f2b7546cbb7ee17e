package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BaseQuestionCount is the fixed size of the base tier.
const BaseQuestionCount = 5

type Tier string

const (
	TierBase     Tier = "base"
	TierExtra    Tier = "extra"
	TierAdvanced Tier = "avanzada"
	TierFinished Tier = "finalizado"
)

type Option struct {
	Text   string `json:"texto" yaml:"text"`
	Points int    `json:"puntaje" yaml:"points"`
}

// Question ids are unique across tiers and never renumbered: stored answer
// histories reference them.
type Question struct {
	ID      int        `json:"id" yaml:"id"`
	Text    string     `json:"texto" yaml:"text"`
	Options []Option   `json:"opciones" yaml:"options"`
	When    *Predicate `json:"-" yaml:"when,omitempty"`
}

// Bank holds the three tiers of questions. It is immutable after construction
// and safe for concurrent use.
type Bank struct {
	Base     []Question `yaml:"base"`
	Extra    []Question `yaml:"extra"`
	Advanced []Question `yaml:"advanced"`
}

// Validate checks the structural invariants the selector relies on.
func (b *Bank) Validate() error {
	if len(b.Base) != BaseQuestionCount {
		return fmt.Errorf("base tier has %d questions, want %d", len(b.Base), BaseQuestionCount)
	}
	seen := map[int]bool{}
	check := func(tier Tier, qs []Question, conditional bool) error {
		for _, q := range qs {
			if seen[q.ID] {
				return fmt.Errorf("duplicate question id %d", q.ID)
			}
			seen[q.ID] = true
			if len(q.Options) == 0 {
				return fmt.Errorf("question %d has no options", q.ID)
			}
			switch {
			case conditional && q.When == nil:
				return fmt.Errorf("%s question %d needs an inclusion predicate", tier, q.ID)
			case !conditional && q.When != nil:
				return fmt.Errorf("base question %d must be unconditional", q.ID)
			}
			if q.When != nil {
				if err := q.When.validate(); err != nil {
					return fmt.Errorf("question %d: %w", q.ID, err)
				}
			}
		}
		return nil
	}
	if err := check(TierBase, b.Base, false); err != nil {
		return err
	}
	if err := check(TierExtra, b.Extra, true); err != nil {
		return err
	}
	return check(TierAdvanced, b.Advanced, true)
}

// Question returns the question with the given id and its tier.
func (b *Bank) Question(id int) (Question, Tier, bool) {
	for _, t := range []struct {
		tier Tier
		qs   []Question
	}{{TierBase, b.Base}, {TierExtra, b.Extra}, {TierAdvanced, b.Advanced}} {
		for _, q := range t.qs {
			if q.ID == id {
				return q, t.tier, true
			}
		}
	}
	return Question{}, "", false
}

// LoadBank reads a YAML question bank and validates it.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	return ParseBank(data)
}

func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bank yaml: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validate bank: %w", err)
	}
	return &b, nil
}

// DefaultBank returns the built-in tennis questionnaire.
func DefaultBank() *Bank {
	return &Bank{
		Base: []Question{
			{ID: 1, Text: "¿Cuántas veces jugás tenis a la semana en promedio?", Options: []Option{
				{"Menos de una vez", 0},
				{"1 vez a la semana", 2},
				{"2 veces a la semana", 3},
				{"3 o más veces a la semana", 5},
			}},
			{ID: 2, Text: "¿Competís en torneos o jugas solo con amigos?", Options: []Option{
				{"Juego con amigos", 1},
				{"Juego Torneos", 3},
				{"Ambas cosas", 5},
			}},
			{ID: 3, Text: "¿Cuánto tiempo hace que jugás tenis?", Options: []Option{
				{"Menos de 1 año", 1},
				{"Entre 1 y 3 años", 3},
				{"Entre 3 y 5 años", 5},
				{"Mas de 5 años", 8},
			}},
			{ID: 4, Text: "¿Tomás clases de tenis?", Options: []Option{
				{"No tomo clases", 1},
				{"Si, tomo clases grupales regularmente", 3},
				{"Solo tomo clases individuales", 4},
				{"Si, tomo clases grupales e individuales", 5},
			}},
			{ID: 5, Text: "Si hoy tuvieras que anotarte a un torneo, ¿qué nivel te anotarías?", Options: []Option{
				{"No me anotaría a ningún torneo, todavía no tengo el nivel", 0},
				{"Seguramente en las de mas bajo nivel para agarrar experiencia", 2},
				{"En una categoría entre la C y la D", 3},
				{"Seguro categorías A o B", 8},
			}},
		},
		Extra: []Question{
			{ID: 6, Text: "¿Qué cantidad de torneos has disputado aproximadamente?", Options: []Option{
				{"Jugué uno solo para experimentar", 0},
				{"Seguramente menos de cinco torneos", 1},
				{"Debo estar en el entorno de los 10", 2},
				{"Seguro llevo más de 10 torneos de singles disputados", 4},
			}, When: &Predicate{All: []Condition{baseIs(1, "gt", 2), totalIs("gt", 10)}}},
			{ID: 7, Text: "¿Ganaste o jugaste alguna final en los torneos disputados?", Options: []Option{
				{"Nunca tuve el gusto", 1},
				{"Una vez jugué una final", 2},
				{"Muy pocas veces y una vez salí campeón", 5},
				{"Normalmente defino los torneos y tengo varios títulos", 8},
			}, When: &Predicate{All: []Condition{baseIs(4, "eq", 8)}}},
			{ID: 8, Text: "¿Cómo vivís el tenis?", Options: []Option{
				{"Es un hobbie, normalmente no lo pienso mucho", 0},
				{"Me gusta cuidarme para tener el mejor rendimiento posible", 1},
				{"Además de cuidarme, veo tenis todo el tiempo y busco aprender mucho", 2},
				{"Juego para sentir la competencias, quiero ganar y ser campeón", 3},
			}, When: &Predicate{Any: []Predicate{
				{All: []Condition{baseIs(4, "eq", 8)}},
				{All: []Condition{baseIs(4, "gt", 1), totalIs("gt", 10)}},
			}}},
			{ID: 9, Text: "¿Cómo son tus entrenamientos personalizados?", Options: []Option{
				{"Lo hago para mejorar detalles pero no me gusta la exigencia", 0},
				{"Aprovecho las clases para entrenar físico", 1},
				{"Complemento mi juego desde lo físico, técnico, táctico y estrategico. Me encanta la exigencia", 2},
			}, When: &Predicate{All: []Condition{baseIs(3, "gt", 2), baseIs(4, "gt", 3)}}},
			{ID: 10, Text: "¿Ganaste o jugaste alguna final en los torneos disputados?", Options: []Option{
				{"Nunca tuve el gusto", 0},
				{"Una vez jugué una final", 1},
				{"Muy pocas veces y una vez salí campeón", 3},
				{"Normalmente defino los torneos y tengo varios títulos", 4},
			}, When: &Predicate{All: []Condition{baseIs(4, "eq", 3), totalIs("gt", 10)}}},
		},
		Advanced: []Question{
			{ID: 11, Text: "Veo que el tenis es muy importante para vos, vamos a afinar tu nivel un poco mas, ¿Jugaste alguna vez torneos internacionales?", Options: []Option{
				{"Nunca, lo veo muy lejanos", 0},
				{"No, pero lo tengo en mente proximamente", 2},
				{"Alguna vez he jugado pero sin mucho éxito", 4},
				{"Si, juego torneos internacionales y he sido campeón", 8},
			}, When: &Predicate{All: []Condition{baseIs(4, "eq", 8), totalIs("gt", 35)}}},
			{ID: 12, Text: "Si tuvieras que describir la situación actual de tu tenis, ¿cómo lo describirías?", Options: []Option{
				{"Me cuesta mucho ganar en los torneos exigentes, pero a la vez es emocionante", 0},
				{"Normalmente las primeras rondas me resultan accesibles, luego la historia es otra", 1},
				{"Suelo ser quien impone el ritmo en los partidos y domino el juego", 2},
				{"Cuando estoy en un buen día, creo que a nivel amateur puedo ganar contra cualquiera", 5},
			}, When: &Predicate{All: []Condition{baseIs(4, "eq", 8), totalIs("gt", 40)}}},
		},
	}
}
