package jsast //nolint:testpackage // testing internal implementation.

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{name: "double quoted", raw: `"../utils/foo"`, want: "../utils/foo", valid: true},
		{name: "single quoted", raw: `'./foo'`, want: "./foo", valid: true},
		{name: "empty", raw: `""`, want: "", valid: true},
		{name: "escaped slash", raw: `"..\/shared"`, want: "../shared", valid: true},
		{name: "hex escape", raw: `"\x2e\x2e/a"`, want: "../a", valid: true},
		{name: "unicode escape", raw: `"\u002e\u002e/a"`, want: "../a", valid: true},
		{name: "braced code point", raw: `"\u{1F600}"`, want: "\U0001F600", valid: true},
		{name: "surrogate pair", raw: `"\uD83D\uDE00"`, want: "\U0001F600", valid: true},
		{name: "escaped quote", raw: `'it\'s'`, want: "it's", valid: true},
		{name: "newline escape", raw: `"a\nb"`, want: "a\nb", valid: true},
		{name: "line continuation", raw: "\"a\\\nb\"", want: "ab", valid: true},
		{name: "legacy octal", raw: `"\56\56/x"`, want: "../x", valid: true},
		{name: "three digit octal", raw: `"\101"`, want: "A", valid: true},
		{name: "octal stops at two digits above three", raw: `"\477"`, want: "'7", valid: true},
		{name: "nul", raw: `"a\0b"`, want: "a\x00b", valid: true},
		{name: "non-octal decimal", raw: `"\8"`, want: "8", valid: true},
		{name: "mismatched quotes", raw: `"abc'`, valid: false},
		{name: "template", raw: "`../a`", valid: false},
		{name: "too short", raw: `"`, valid: false},
		{name: "bad hex", raw: `"\xZZ"`, valid: false},
		{name: "dangling backslash", raw: `"\"`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := decodeString(tt.raw)
			assert.Equal(t, tt.valid, ok)

			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
