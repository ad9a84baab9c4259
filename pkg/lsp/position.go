package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
	"github.com/Sumatoshi-tech/aliasguard/pkg/safeconv"
)

// positionAt converts a byte offset in text to an LSP position: a 0-based
// line and a character counted in UTF-16 code units.
func positionAt(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))

	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	line := strings.Count(text[:lineStart], "\n")

	return protocol.Position{
		Line:      safeconv.MustIntToUint32(line),
		Character: safeconv.MustIntToUint32(jsast.UTF16Len(text[lineStart:offset])),
	}
}

// offsetAt converts an LSP position back to a byte offset. Positions past the
// end of a line clamp to the line end; lines past the end clamp to len(text).
func offsetAt(text string, pos protocol.Position) int {
	offset := 0

	for range pos.Line {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}

		offset += next + 1
	}

	units := int(pos.Character)

	for offset < len(text) && units > 0 {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}

		units -= utf16.RuneLen(r)
		offset += size
	}

	return offset
}

// applyChange returns text with a ranged edit applied.
func applyChange(text string, rng protocol.Range, replacement string) string {
	start := offsetAt(text, rng.Start)
	end := max(offsetAt(text, rng.End), start)

	return text[:start] + replacement + text[end:]
}
