package utf8x

import (
	"testing"
	"testing/quick"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type utf8Case struct {
	name  string
	in    []byte
	valid bool
	pos   int // first error byte, meaningful when !valid
}

var utf8Cases = []utf8Case{
	{name: "empty", in: nil, valid: true},
	{name: "ascii", in: []byte("hello"), valid: true},
	{name: "two byte", in: []byte("café"), valid: true},
	{name: "two byte min", in: []byte{0xC2, 0x80}, valid: true},
	{name: "two byte max", in: []byte{0xDF, 0xBF}, valid: true},
	{name: "three byte min", in: []byte{0xE0, 0xA0, 0x80}, valid: true},
	{name: "before surrogates", in: []byte{0xED, 0x9F, 0xBF}, valid: true},
	{name: "after surrogates", in: []byte{0xEE, 0x80, 0x80}, valid: true},
	{name: "three byte max", in: []byte{0xEF, 0xBF, 0xBF}, valid: true},
	{name: "four byte min", in: []byte{0xF0, 0x90, 0x80, 0x80}, valid: true},
	{name: "max codepoint", in: []byte{0xF4, 0x8F, 0xBF, 0xBF}, valid: true},
	{name: "emoji", in: []byte("😀"), valid: true},
	{name: "mixed", in: []byte("a¢€𐍈"), valid: true},

	{name: "overlong two byte", in: []byte{0xC0, 0x80}, valid: false, pos: 0},
	{name: "overlong C1", in: []byte{0xC1, 0xBF}, valid: false, pos: 0},
	{name: "overlong three byte", in: []byte{0xE0, 0x80, 0x80}, valid: false, pos: 0},
	{name: "overlong four byte", in: []byte{0xF0, 0x80, 0x80, 0x80}, valid: false, pos: 0},
	{name: "surrogate low", in: []byte{0xED, 0xA0, 0x80}, valid: false, pos: 0},
	{name: "surrogate high", in: []byte{0xED, 0xBF, 0xBF}, valid: false, pos: 0},
	{name: "beyond max codepoint", in: []byte{0xF4, 0x90, 0x80, 0x80}, valid: false, pos: 0},
	{name: "F5 lead", in: []byte{0xF5, 0x80, 0x80, 0x80}, valid: false, pos: 0},
	{name: "FF", in: []byte{0xFF}, valid: false, pos: 0},
	{name: "orphan continuation", in: []byte{0x80}, valid: false, pos: 0},
	{name: "orphan after ascii", in: []byte{'a', 0x80}, valid: false, pos: 1},
	{name: "bad continuation", in: []byte{0xC3, 0x28}, valid: false, pos: 0},
	{name: "truncated three byte", in: []byte{0xE2, 0x82}, valid: false, pos: 0},
	{name: "truncated after ascii", in: []byte{'a', 'b', 0xE2, 0x82}, valid: false, pos: 2},
	{name: "truncated four byte", in: []byte{0xF0, 0x9F, 0x98}, valid: false, pos: 0},
	{name: "error before truncation", in: []byte{0xFF, 0xE2}, valid: false, pos: 0},
}

func TestValidate(t *testing.T) {
	for _, tc := range utf8Cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, Validate(tc.in))
		})
	}
}

func TestFirstError(t *testing.T) {
	for _, tc := range utf8Cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, found := FirstError(tc.in)
			require.Equal(t, !tc.valid, found)
			if found {
				assert.Equal(t, tc.pos, pos)
			}
		})
	}
}

func TestValidateAgainstStdlib(t *testing.T) {
	condition := func(p []byte) bool {
		return Validate(p) == utf8.Valid(p)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{MaxCount: 2000}))
}

func TestPartialTail(t *testing.T) {
	r := validatePartial([]byte{'a', 0xE2, 0x82})
	require.False(t, r.err)
	assert.Equal(t, 2, r.tail)
	assert.Equal(t, 1, r.needed)

	r = validatePartial([]byte{0xF0})
	require.False(t, r.err)
	assert.Equal(t, 1, r.tail)
	assert.Equal(t, 3, r.needed)

	r = validatePartial([]byte("ascii only"))
	assert.Zero(t, r.tail)
	assert.Zero(t, r.needed)
}

func FuzzValidate(f *testing.F) {
	for _, tc := range utf8Cases {
		f.Add(tc.in)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		require.Equal(t, utf8.Valid(data), Validate(data))

		// Splitting the input anywhere must not change the verdict.
		var v Validator
		v.Feed(data[:len(data)/2])
		v.Feed(data[len(data)/2:])
		_, valid := v.Result()
		require.Equal(t, utf8.Valid(data), valid)
	})
}
