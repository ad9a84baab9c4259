package jsast

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	hexBase        = 16
	octalBase      = 8
	maxOctalDigits = 3
	hexByteDigits  = 2
	hexUnitDigits  = 4
	minQuotedLen   = 2
	maxCodePoint   = 0x10FFFF
	surrogateLow   = 0xDC00
	surrogateHigh  = 0xD800
	surrogateLimit = 0xE000
)

// decodeString returns the cooked value of a quoted JavaScript string literal.
// It reports false when raw is not a well-formed single- or double-quoted literal.
func decodeString(raw string) (string, bool) {
	if len(raw) < minQuotedLen {
		return "", false
	}

	quote := raw[0]
	if (quote != '"' && quote != '\'') || raw[len(raw)-1] != quote {
		return "", false
	}

	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body, true
	}

	var sb strings.Builder

	sb.Grow(len(body))

	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			sb.WriteByte(ch)

			continue
		}

		i++
		if i >= len(body) {
			return "", false
		}

		consumed, ok := decodeEscape(&sb, body[i:])
		if !ok {
			return "", false
		}

		i += consumed - 1
	}

	return sb.String(), true
}

// decodeEscape decodes the escape sequence at the start of s (the part after
// the backslash) and returns how many bytes it consumed.
func decodeEscape(sb *strings.Builder, s string) (int, bool) {
	switch s[0] {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		return decodeOctal(sb, s)
	case '\n':
		// Line continuation.
	case '\r':
		if len(s) > 1 && s[1] == '\n' {
			return 2, true //nolint:mnd // CRLF continuation.
		}
	case 'x':
		return decodeHex(sb, s[1:], hexByteDigits)
	case 'u':
		if len(s) > 1 && s[1] == '{' {
			return decodeBracedCodePoint(sb, s)
		}

		return decodeHex(sb, s[1:], hexUnitDigits)
	default:
		// Identity escape, e.g. \/ or \' or a multi-byte character.
		r, size := utf8.DecodeRuneInString(s)
		sb.WriteRune(r)

		return size, true
	}

	return 1, true
}

// decodeOctal decodes a legacy octal escape such as \56 or the \0 NUL escape.
// Sequences starting with 4-7 take at most two digits so the value stays below 0o400.
func decodeOctal(sb *strings.Builder, s string) (int, bool) {
	limit := maxOctalDigits
	if s[0] > '3' {
		limit--
	}

	digits := 1
	for digits < limit && digits < len(s) && s[digits] >= '0' && s[digits] <= '7' {
		digits++
	}

	code, err := strconv.ParseUint(s[:digits], octalBase, 32)
	if err != nil {
		return 0, false
	}

	sb.WriteRune(rune(code))

	return digits, true
}

func decodeHex(sb *strings.Builder, s string, digits int) (int, bool) {
	if len(s) < digits {
		return 0, false
	}

	code, err := strconv.ParseUint(s[:digits], hexBase, 32)
	if err != nil {
		return 0, false
	}

	r := rune(code)

	// Combine a UTF-16 surrogate pair written as two \u escapes.
	if digits == hexUnitDigits && r >= surrogateHigh && r < surrogateLow {
		low, ok := trailingSurrogate(s[digits:])
		if ok {
			sb.WriteRune((r-surrogateHigh)<<10 + (low - surrogateLow) + 0x10000)

			return 1 + digits + len(`\u`) + digits, true
		}
	}

	sb.WriteRune(r)

	return 1 + digits, true
}

func trailingSurrogate(s string) (rune, bool) {
	if len(s) < len(`\u`)+hexUnitDigits || !strings.HasPrefix(s, `\u`) {
		return 0, false
	}

	code, err := strconv.ParseUint(s[2:2+hexUnitDigits], hexBase, 32)
	if err != nil {
		return 0, false
	}

	r := rune(code)
	if r < surrogateLow || r >= surrogateLimit {
		return 0, false
	}

	return r, true
}

func decodeBracedCodePoint(sb *strings.Builder, s string) (int, bool) {
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return 0, false
	}

	code, err := strconv.ParseUint(s[2:end], hexBase, 32)
	if err != nil || code > maxCodePoint {
		return 0, false
	}

	sb.WriteRune(rune(code))

	return end + 1, true
}
