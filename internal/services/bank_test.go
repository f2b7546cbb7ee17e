package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBankIsValid(t *testing.T) {
	b := DefaultBank()
	require.NoError(t, b.Validate())
	assert.Len(t, b.Base, BaseQuestionCount)
	assert.Len(t, b.Extra, 5)
	assert.Len(t, b.Advanced, 2)

	q, tier, ok := b.Question(7)
	require.True(t, ok)
	assert.Equal(t, TierExtra, tier)
	assert.Equal(t, 8, q.Options[3].Points)

	_, _, ok = b.Question(99)
	assert.False(t, ok)
}

func TestBankValidateRejects(t *testing.T) {
	t.Run("short base", func(t *testing.T) {
		b := DefaultBank()
		b.Base = b.Base[:4]
		assert.Error(t, b.Validate())
	})
	t.Run("duplicate id", func(t *testing.T) {
		b := DefaultBank()
		b.Extra[0].ID = 1
		assert.Error(t, b.Validate())
	})
	t.Run("no options", func(t *testing.T) {
		b := DefaultBank()
		b.Advanced[0].Options = nil
		assert.Error(t, b.Validate())
	})
	t.Run("unconditional extra", func(t *testing.T) {
		b := DefaultBank()
		b.Extra[0].When = nil
		assert.Error(t, b.Validate())
	})
	t.Run("conditional base", func(t *testing.T) {
		b := DefaultBank()
		b.Base[0].When = &Predicate{All: []Condition{totalIs("gt", 1)}}
		assert.Error(t, b.Validate())
	})
}

const padelBankYAML = `
base:
  - id: 1
    text: "¿Cuántas veces jugás por semana?"
    options:
      - {text: "Menos de una", points: 0}
      - {text: "Tres o más", points: 5}
  - id: 2
    text: "¿Jugás torneos?"
    options:
      - {text: "No", points: 1}
      - {text: "Sí", points: 5}
  - id: 3
    text: "¿Hace cuánto jugás?"
    options:
      - {text: "Menos de un año", points: 1}
      - {text: "Más de cinco", points: 8}
  - id: 4
    text: "¿Tomás clases?"
    options:
      - {text: "No", points: 1}
      - {text: "Sí", points: 5}
  - id: 5
    text: "¿En qué categoría te anotarías?"
    options:
      - {text: "Ninguna", points: 0}
      - {text: "Primera", points: 8}
extra:
  - id: 6
    text: "¿Cuántos torneos jugaste?"
    options:
      - {text: "Pocos", points: 1}
      - {text: "Muchos", points: 4}
    when:
      all:
        - {source: base, index: 1, op: gt, value: 2}
        - {source: total, op: gt, value: 10}
advanced:
  - id: 7
    text: "¿Jugaste torneos internacionales?"
    options:
      - {text: "No", points: 0}
      - {text: "Sí", points: 8}
    when:
      any:
        - all: [{source: base, index: 4, op: eq, value: 8}]
        - all: [{source: total, op: gte, value: 30}]
`

func TestParseBankYAML(t *testing.T) {
	b, err := ParseBank([]byte(padelBankYAML))
	require.NoError(t, err)
	require.Len(t, b.Extra, 1)
	require.NotNil(t, b.Extra[0].When)
	assert.Equal(t, totalIs("gt", 10), b.Extra[0].When.All[1])
	require.NotNil(t, b.Advanced[0].When)
	assert.Len(t, b.Advanced[0].When.Any, 2)

	base := []int{5, 5, 8, 5, 8}
	assert.True(t, b.Extra[0].When.Eval(base, 31))
	assert.True(t, b.Advanced[0].When.Eval(base, 0))
}

func TestLoadBank(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "padel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(padelBankYAML), 0o600))

	b, err := LoadBank(path)
	require.NoError(t, err)
	assert.Equal(t, "¿Jugás torneos?", b.Base[1].Text)

	_, err = LoadBank(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("base: []\n"), 0o600))
	_, err = LoadBank(path)
	assert.ErrorContains(t, err, "validate bank")
}
