package htp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run feeds a script to the engine and returns the framed responses.
func run(t *testing.T, script string) []string {
	t.Helper()
	var out strings.Builder
	e := NewEngine(strings.NewReader(script), &out)
	require.NoError(t, e.Run(context.Background()))
	responses := strings.Split(strings.TrimSuffix(out.String(), "\n\n"), "\n\n")
	return responses
}

func TestIdentity(t *testing.T) {
	rs := run(t, "name\nversion\nprotocol_version\n")
	require.Len(t, rs, 3)
	assert.Equal(t, "= Hexe", rs[0])
	assert.Equal(t, "= "+Version, rs[1])
	assert.Equal(t, "= 2", rs[2])
}

func TestCommandID(t *testing.T) {
	rs := run(t, "7 name\n")
	assert.Equal(t, "=7 Hexe", rs[0])
}

func TestUnknownCommand(t *testing.T) {
	rs := run(t, "frobnicate\n")
	assert.True(t, strings.HasPrefix(rs[0], "? "), rs[0])
}

func TestPlayAndShow(t *testing.T) {
	rs := run(t, "boardsize 3\nplay black b2\nshowboard\n")
	require.Len(t, rs, 3)
	assert.Equal(t, "= ", rs[0])
	assert.Equal(t, "= ", rs[1])
	assert.Contains(t, rs[2], "B")
}

func TestPlayErrors(t *testing.T) {
	rs := run(t, "boardsize 3\nplay black b2\nplay white b2\nplay black north\nplay purple a1\n")
	assert.True(t, strings.HasPrefix(rs[2], "? "), "occupied: %s", rs[2])
	assert.True(t, strings.HasPrefix(rs[3], "? "), "edge: %s", rs[3])
	assert.True(t, strings.HasPrefix(rs[4], "? "), "color: %s", rs[4])
}

func TestUndo(t *testing.T) {
	rs := run(t, "boardsize 3\nplay black b2\nundo\nshowboard\nundo\n")
	assert.NotContains(t, rs[3], "B")
	assert.True(t, strings.HasPrefix(rs[4], "? "), "empty undo: %s", rs[4])
}

func TestGroupGet(t *testing.T) {
	rs := run(t, "boardsize 3\nplay black b1\ngroup-get b1\n")
	// b1 touches the north edge, so the group includes both.
	assert.Contains(t, rs[2], "north")
	assert.Contains(t, rs[2], "b1")
}

func TestVCBuildAndQuery(t *testing.T) {
	rs := run(t, strings.Join([]string{
		"boardsize 3",
		"play black b2",
		"vc-build black",
		"vc-between black north b2",
		"vc-connected-to b2 black",
		"",
	}, "\n"))
	require.Len(t, rs, 5)
	assert.Contains(t, rs[2], "base=")
	assert.Contains(t, rs[3], "full")
	assert.Contains(t, rs[4], "north")
	assert.Contains(t, rs[4], "south")
}

func TestSolveCommand(t *testing.T) {
	rs := run(t, "boardsize 3\nplay black b2\nsolve black\nsolve white\n")
	assert.Equal(t, "= proven", rs[2])
	assert.Equal(t, "= unknown", rs[3])
}

func TestBoardsizeValidation(t *testing.T) {
	rs := run(t, "boardsize 2\nboardsize 12\nboardsize x\n")
	for i, r := range rs {
		assert.True(t, strings.HasPrefix(r, "? "), "response %d: %s", i, r)
	}
}

func TestQuit(t *testing.T) {
	rs := run(t, "quit\nname\n")
	// Nothing runs after quit.
	require.Len(t, rs, 1)
	assert.Equal(t, "= ", rs[0])
}

func TestListCommands(t *testing.T) {
	rs := run(t, "list_commands\n")
	for _, name := range []string{"vc-build", "vc-between", "play", "quit"} {
		assert.Contains(t, rs[0], name)
	}
}
