// Package utf8x checks byte sequences for UTF-8 well-formedness, including
// sequences fragmented across non-contiguous buffers.
//
// It does not decode codepoints and does not transcode; the only question it
// answers is whether the bytes are well-formed, and if not, where the first
// defect sits.
package utf8x

// partialResult reports the outcome of scanning one contiguous range.
// tail is the length of a trailing multi-byte sequence the range ended in
// the middle of; needed is how many continuation bytes would complete it.
// err covers only defects strictly before that tail.
type partialResult struct {
	err    bool
	tail   int
	needed int
}

// seqLen returns the total sequence length announced by a leading byte, or
// 0 if the byte cannot start a sequence. C0, C1 and anything at or above F5
// never appear in well-formed UTF-8.
func seqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b >= 0xC2 && b <= 0xDF:
		return 2
	case b >= 0xE0 && b <= 0xEF:
		return 3
	case b >= 0xF0 && b <= 0xF4:
		return 4
	default:
		return 0
	}
}

// contRange gives the allowed range for continuation byte number idx
// (1-based) of a sequence led by lead. The first continuation byte of
// E0/ED/F0/F4 sequences is restricted, which rejects overlong encodings,
// surrogates and codepoints past U+10FFFF.
func contRange(lead byte, idx int) (lo, hi byte) {
	if idx == 1 {
		switch lead {
		case 0xE0:
			return 0xA0, 0xBF
		case 0xED:
			return 0x80, 0x9F
		case 0xF0:
			return 0x90, 0xBF
		case 0xF4:
			return 0x80, 0x8F
		}
	}
	return 0x80, 0xBF
}

// validatePartial scans p left to right. A sequence cut off by the end of
// the input is not an error here: the caller may have more data coming and
// resumes from the reported tail.
func validatePartial(p []byte) partialResult {
	i := 0
	for i < len(p) {
		n := seqLen(p[i])
		if n == 0 {
			return partialResult{err: true}
		}
		j := 1
		for ; j < n && i+j < len(p); j++ {
			lo, hi := contRange(p[i], j)
			if p[i+j] < lo || p[i+j] > hi {
				return partialResult{err: true}
			}
		}
		if j < n {
			return partialResult{tail: len(p) - i, needed: n - j}
		}
		i += n
	}
	return partialResult{}
}

// Validate reports whether p is well-formed UTF-8. An incomplete trailing
// sequence makes the whole buffer invalid; there is no further input to
// complete it.
func Validate(p []byte) bool {
	r := validatePartial(p)
	return !r.err && r.tail == 0
}

// FirstError returns the byte position of the first encoding defect in p.
// found is false when p is well-formed. An error inside a multi-byte
// sequence is reported at the sequence's leading byte, as is a sequence
// truncated by the end of the buffer.
func FirstError(p []byte) (pos int, found bool) {
	i := 0
	for i < len(p) {
		n := seqLen(p[i])
		if n == 0 {
			return i, true
		}
		for j := 1; j < n; j++ {
			if i+j >= len(p) {
				return i, true
			}
			lo, hi := contRange(p[i], j)
			if p[i+j] < lo || p[i+j] > hi {
				return i, true
			}
		}
		i += n
	}
	return 0, false
}
