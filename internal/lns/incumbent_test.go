package lns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rostering/internal/roster"
)

func TestIncumbent_CaptureRead(t *testing.T) {
	var in Incumbent
	assert.True(t, in.Empty())
	assert.True(t, in.Improves(100))
	assert.Equal(t, -1, in.Objective())
	_, _, ok := in.Read()
	assert.False(t, ok)

	snap := roster.Assignment{{0, 1}, {1, 1}}
	in.Capture(snap, 3)
	snap[0][0] = 9

	got, obj, ok := in.Read()
	require.True(t, ok)
	assert.Equal(t, 3, obj)
	assert.Equal(t, roster.Assignment{{0, 1}, {1, 1}}, got, "capture stores a copy")

	got[1][1] = 7
	again, _, _ := in.Read()
	assert.Equal(t, 1, again[1][1], "read returns a copy")

	assert.True(t, in.Improves(2))
	assert.False(t, in.Improves(3))
	assert.False(t, in.Improves(4))
}
