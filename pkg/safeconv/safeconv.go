// Package safeconv converts between integer types where tree-sitter, the
// language server protocol and byte-size parsing disagree on width.
package safeconv

import "math"

// MaxInt is the maximum value for int type (platform-dependent).
const MaxInt = int(^uint(0) >> 1)

// MustUintToInt converts uint to int, panics on overflow.
// Tree-sitter offsets and points never exceed the source length.
func MustUintToInt(v uint) int {
	if v > uint(MaxInt) {
		panic("safeconv: uint to int overflow")
	}

	return int(v)
}

// MustIntToUint32 converts int to uint32, panics on bounds violation.
// Used for LSP positions, which are uint32 on the wire.
func MustIntToUint32(v int) uint32 {
	if v < 0 || v > math.MaxUint32 {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}

// ClampUint64ToInt64 converts uint64 to int64, saturating at math.MaxInt64.
// Byte sizes parsed from configuration are compared with os.FileInfo.Size.
func ClampUint64ToInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(v)
}
