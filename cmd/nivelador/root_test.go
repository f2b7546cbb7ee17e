package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "nivelador", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "levels", "rate"}, names)
}

func TestRateCmd(t *testing.T) {
	out, err := execute(t, "", "rate", "31")
	require.NoError(t, err)
	assert.Contains(t, out, "Puntos iniciales: 1060")
	assert.Contains(t, out, "Nivel: 8 (931-1060 puntos)")

	_, err = execute(t, "", "rate", "abc")
	assert.Error(t, err)
}

func TestLevelsCmd(t *testing.T) {
	out, err := execute(t, "", "levels", "--csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "level,min,max", lines[0])
	assert.Equal(t, "1,0,80", lines[1])

	out, err = execute(t, "", "levels")
	require.NoError(t, err)
	assert.Contains(t, out, "1971-2000")
}

func TestRunCmdAcceptsAndSkips(t *testing.T) {
	// Tenis: one invalid entry, then the first option five times, then save.
	// Pádel: skipped at the first question.
	input := "9\n1\n1\n1\n1\n1\ns\no\n"
	out, err := execute(t, input, "run", "--sport", "Tenis", "--sport", "Pádel")
	require.NoError(t, err)
	assert.Contains(t, out, "Opción inválida")
	assert.Contains(t, out, "Puntos iniciales: 75")
	assert.Contains(t, out, "Pádel omitido.")
	assert.Contains(t, out, "Tenis: 75 puntos, nivel 1")
	assert.Contains(t, out, "Pádel: sin calibrar")
}

func TestRunCmdDeclineLeavesSportUncalibrated(t *testing.T) {
	out, err := execute(t, "1\n1\n1\n1\n1\nn\n", "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Tenis: sin calibrar")
}

func TestRunCmdInputClosed(t *testing.T) {
	_, err := execute(t, "1\n", "run")
	assert.Error(t, err)
}

func TestRunCmdCustomBank(t *testing.T) {
	bank := `
base:
  - id: 1
    text: "Pregunta 1"
    options:
      - {text: "Poco", points: 0}
      - {text: "Mucho", points: 6}
  - id: 2
    text: "Pregunta 2"
    options:
      - {text: "Poco", points: 0}
      - {text: "Mucho", points: 6}
  - id: 3
    text: "Pregunta 3"
    options:
      - {text: "Poco", points: 0}
      - {text: "Mucho", points: 6}
  - id: 4
    text: "Pregunta 4"
    options:
      - {text: "Poco", points: 0}
      - {text: "Mucho", points: 6}
  - id: 5
    text: "Pregunta 5"
    options:
      - {text: "Poco", points: 0}
      - {text: "Mucho", points: 6}
`
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bank), 0o644))

	out, err := execute(t, "2\n2\n2\n2\n2\ns\n", "run", "--bank", path, "--sport", "Pickleball")
	require.NoError(t, err)
	assert.Contains(t, out, "Puntos iniciales: 1000")
	assert.Contains(t, out, "Pickleball: 1000 puntos, nivel 8")

	_, err = execute(t, "", "run", "--bank", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
