package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestPositionAt(t *testing.T) {
	t.Parallel()

	text := "ab\n€x😀y\n"

	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{offset: 0, want: protocol.Position{Line: 0, Character: 0}},
		{offset: 2, want: protocol.Position{Line: 0, Character: 2}},
		{offset: 3, want: protocol.Position{Line: 1, Character: 0}},
		// "€" is three bytes but one UTF-16 unit.
		{offset: 6, want: protocol.Position{Line: 1, Character: 1}},
		// The emoji is four bytes and two UTF-16 units.
		{offset: 11, want: protocol.Position{Line: 1, Character: 4}},
		{offset: 100, want: protocol.Position{Line: 2, Character: 0}},
		{offset: -1, want: protocol.Position{Line: 0, Character: 0}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, positionAt(text, tt.offset), "offset %d", tt.offset)
	}
}

func TestOffsetAt(t *testing.T) {
	t.Parallel()

	text := "ab\n€x😀y\n"

	assert.Equal(t, 0, offsetAt(text, protocol.Position{Line: 0, Character: 0}))
	assert.Equal(t, 2, offsetAt(text, protocol.Position{Line: 0, Character: 9}))
	assert.Equal(t, 6, offsetAt(text, protocol.Position{Line: 1, Character: 1}))
	assert.Equal(t, 11, offsetAt(text, protocol.Position{Line: 1, Character: 4}))
	assert.Equal(t, len(text), offsetAt(text, protocol.Position{Line: 5, Character: 0}))
}

func TestApplyChange(t *testing.T) {
	t.Parallel()

	got := applyChange("one\ntwo\n", protocol.Range{
		Start: protocol.Position{Line: 1, Character: 0},
		End:   protocol.Position{Line: 1, Character: 3},
	}, "2")

	assert.Equal(t, "one\n2\n", got)
}
