package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/tocc/pkg/fsm"
	"github.com/ha1tch/tocc/pkg/fsmfile"
)

func newTestStepper(t *testing.T, source string, mode fsm.Mode) *stepper {
	t.Helper()
	a, err := fsmfile.ParseSource(source, mode)
	require.NoError(t, err)
	return newStepper(a)
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestStepperFeedAndBack(t *testing.T) {
	s := newTestStepper(t, "{E; E; E 0 E, E 1 O, O 0 O, O 1 E}", fsm.Deterministic)

	assert.False(t, s.handleKey(key('1')))
	assert.Equal(t, "O", s.runner.CurrentState())
	assert.True(t, s.current["O"])

	s.handleKey(key('1'))
	assert.Equal(t, "11", string(s.input))
	assert.True(t, s.runner.IsAccepting())

	s.handleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	assert.Equal(t, "1", string(s.input))
	assert.Equal(t, "O", s.runner.CurrentState())
	assert.Len(t, s.runner.History(), 1)

	s.handleKey(tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModNone))
	assert.Empty(t, s.input)
	assert.Equal(t, "E", s.runner.CurrentState())
}

func TestStepperUnknownSymbol(t *testing.T) {
	s := newTestStepper(t, "{E; E; E 0 E, E 1 O, O 0 O, O 1 E}", fsm.Deterministic)

	s.handleKey(key('x'))
	assert.Empty(t, s.input)
	assert.Contains(t, s.message, "symbol not in alphabet")
	assert.Equal(t, "E", s.runner.CurrentState())
}

func TestStepperNonDeterministic(t *testing.T) {
	s := newTestStepper(t, "{A; B; A a A, A a B}", fsm.NonDeterministic)

	s.feed('a')
	assert.Equal(t, "{A, B}", s.runner.CurrentState())
	assert.True(t, s.current["A"])
	assert.True(t, s.current["B"])
}

func TestStepperQuit(t *testing.T) {
	s := newTestStepper(t, "{A; A; A a A}", fsm.Deterministic)
	assert.True(t, s.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func screenRow(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestStepperDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 24)

	s := newTestStepper(t, "{E; E; E 0 E, E 1 O, O 0 O, O 1 E}", fsm.Deterministic)
	s.feed('1')
	s.draw(screen)
	screen.Show()

	assert.Equal(t, " tocc step - DFA, 2 states", screenRow(screen, 0))
	assert.Contains(t, screenRow(screen, 3), "E *")
	assert.Contains(t, screenRow(screen, 3), "{E} --1--> {O}")
	assert.Contains(t, screenRow(screen, 4), "O")
	assert.Equal(t, " Input: 1", screenRow(screen, 21))
	assert.Equal(t, " State: O  Not Accept", screenRow(screen, 23))

	_, _, style, _ := screen.GetContent(3, 4)
	assert.Equal(t, styleStateSel, style)
}
