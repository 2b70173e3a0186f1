package utf8x

import "iter"

// Validator checks one logical byte sequence for UTF-8 well-formedness as
// it arrives in fragments, without ever concatenating them. It keeps a
// carry buffer of at most one codepoint, so memory use is constant no
// matter how the sequence is fragmented, and the verdict and error
// position are byte-identical to validating the same bytes contiguously.
//
// The zero value is ready for the first fragment. A Validator handles a
// single sequence; use a fresh one per sequence.
type Validator struct {
	partial   [4]byte // codepoint straddling fragment boundaries
	filled    int
	needed    int
	validated int // bytes confirmed well-formed so far
	errPos    int
	failed    bool
}

// Feed advances the validator by one fragment. Fragments after the first
// defect are ignored.
func (v *Validator) Feed(frag []byte) {
	if v.failed {
		return
	}
	if v.needed > 0 {
		// Tiny loop, usually one or two bytes.
		for v.needed > 0 && len(frag) > 0 {
			v.partial[v.filled] = frag[0]
			v.filled++
			v.needed--
			frag = frag[1:]
		}
		if v.needed > 0 {
			return
		}
		// A codepoint straddled two or more fragments; check it whole.
		if r := validatePartial(v.partial[:v.filled]); r.err {
			v.fail(v.validated)
			return
		}
		v.validated += v.filled
		v.filled = 0
		if len(frag) == 0 {
			return
		}
	}
	r := validatePartial(frag)
	if r.err {
		pos, _ := FirstError(frag)
		v.fail(v.validated + pos)
		return
	}
	v.validated += len(frag) - r.tail
	copy(v.partial[:], frag[len(frag)-r.tail:])
	v.filled = r.tail
	v.needed = r.needed
}

func (v *Validator) fail(pos int) {
	v.failed = true
	v.errPos = pos
}

// Pending returns how many continuation bytes are still missing from a
// codepoint left open by the previous fragment.
func (v *Validator) Pending() int { return v.needed }

// Result reports the verdict after the last fragment. A still-open
// codepoint means the sequence was truncated; the error position is the
// first byte of that incomplete sequence.
func (v *Validator) Result() (pos int, valid bool) {
	if v.failed {
		return v.errPos, false
	}
	if v.needed > 0 {
		return v.validated, false
	}
	return 0, true
}

// ValidateSeq validates the concatenation of the yielded fragments in a
// single pass.
func ValidateSeq(frags iter.Seq[[]byte]) (pos int, valid bool) {
	var v Validator
	for f := range frags {
		v.Feed(f)
	}
	return v.Result()
}
