// Package bytestream provides an append-only builder for byte data whose
// final size is not known up front.
//
// Data is written into a chain of chunks allocated on demand. Previously
// written bytes are never moved or resized until Linearize collapses the
// chain into one contiguous block.
package bytestream

import (
	"encoding/binary"
	"errors"
	"iter"
	"math"
)

// chunkSize is the payload capacity of a standard chunk. Writes larger than
// this get a chunk sized exactly to the write.
const chunkSize = 512

// ErrStalePlaceholder is returned by Set when the placeholder's backing
// storage has been released by Linearize.
var ErrStalePlaceholder = errors.New("bytestream: placeholder outlived its storage")

// chunk is one block of a stream's storage. data is allocated at full
// capacity once and never resized; filled grows monotonically up to
// len(data) and doubles as the chunk's size once the chain moves past it.
type chunk struct {
	next   *chunk
	data   []byte
	filled int
}

// Stream accumulates bytes into a chain of chunks. The zero value is an
// empty stream ready for use. A Stream must not be mutated concurrently;
// reads after the last write are safe to share.
type Stream struct {
	head    *chunk
	current *chunk
	size    int
	gen     uint32 // bumped by Linearize so stale placeholders are refused
}

// New returns an empty stream.
func New() *Stream { return &Stream{} }

func (s *Stream) spaceLeft() int {
	if s.current == nil {
		return 0
	}
	return len(s.current.data) - s.current.filled
}

// alloc makes room for a contiguous region of n bytes and accounts for it
// as already written. n must be positive.
func (s *Stream) alloc(n int) []byte {
	if n <= s.spaceLeft() {
		c := s.current
		ret := c.data[c.filled : c.filled+n]
		c.filled += n
		s.size += n
		return ret
	}
	capacity := chunkSize
	if n > chunkSize {
		capacity = n
	}
	c := &chunk{data: make([]byte, capacity), filled: n}
	if s.current != nil {
		s.current.next = c
	} else {
		s.head = c
	}
	s.current = c
	s.size += n
	return c.data[:n]
}

// WriteUint8 appends a single byte.
func (s *Stream) WriteUint8(v uint8) { s.alloc(1)[0] = v }

// WriteUint16 appends v in big-endian byte order.
func (s *Stream) WriteUint16(v uint16) { binary.BigEndian.PutUint16(s.alloc(2), v) }

// WriteUint32 appends v in big-endian byte order.
func (s *Stream) WriteUint32(v uint32) { binary.BigEndian.PutUint32(s.alloc(4), v) }

// WriteUint64 appends v in big-endian byte order.
func (s *Stream) WriteUint64(v uint64) { binary.BigEndian.PutUint64(s.alloc(8), v) }

// Write appends p, splitting it across chunks when the current chunk cannot
// hold it whole. It implements io.Writer and never returns an error.
func (s *Stream) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := len(p)
	if left := s.spaceLeft(); n > left && left > 0 {
		copy(s.alloc(left), p[:left])
		p = p[left:]
	}
	copy(s.alloc(len(p)), p)
	return n, nil
}

// WriteBlob appends a uint32 big-endian length prefix followed by p.
// Blobs whose length does not fit the prefix cannot be framed; that is a
// caller bug, not an input condition, so it panics.
func (s *Stream) WriteBlob(p []byte) {
	if uint64(len(p)) > math.MaxUint32 {
		panic("bytestream: blob length exceeds uint32")
	}
	s.WriteUint32(uint32(len(p)))
	s.Write(p)
}

// Placeholder marks a reserved region whose value is written later,
// typically a length field known only once the payload is in place.
// It stays usable until the owning stream's next Linearize.
type Placeholder struct {
	c     *chunk
	off   int
	width int
	gen   uint32
}

func (s *Stream) place(width int) Placeholder {
	s.alloc(width)
	c := s.current
	return Placeholder{c: c, off: c.filled - width, width: width, gen: s.gen}
}

// PlaceUint16 reserves 2 bytes and returns a placeholder for them.
func (s *Stream) PlaceUint16() Placeholder { return s.place(2) }

// PlaceUint32 reserves 4 bytes and returns a placeholder for them.
func (s *Stream) PlaceUint32() Placeholder { return s.place(4) }

// PlaceUint64 reserves 8 bytes and returns a placeholder for them.
func (s *Stream) PlaceUint64() Placeholder { return s.place(8) }

// Set writes v in big-endian order into the placeholder's reserved bytes,
// truncated to the placeholder's width. Linearize releases the storage
// placeholders point into; setting one afterwards returns
// ErrStalePlaceholder instead of writing through a dangling reference.
func (s *Stream) Set(ph Placeholder, v uint64) error {
	if ph.c == nil || ph.gen != s.gen {
		return ErrStalePlaceholder
	}
	b := ph.c.data[ph.off : ph.off+ph.width]
	switch ph.width {
	case 2:
		binary.BigEndian.PutUint16(b, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(b, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(b, v)
	}
	return nil
}

// IsLinearized reports whether the written bytes already occupy at most one
// chunk.
func (s *Stream) IsLinearized() bool {
	return s.head == nil || s.head.next == nil
}

// View returns the written bytes without copying. Call only when
// IsLinearized reports true.
func (s *Stream) View() []byte {
	if !s.IsLinearized() {
		panic("bytestream: View on a fragmented stream")
	}
	if s.current == nil {
		return nil
	}
	return s.current.data[:s.size]
}

// Linearize collapses the chain into a single exactly-sized chunk and
// returns the contiguous bytes. All previously issued placeholders become
// stale.
func (s *Stream) Linearize() []byte {
	if s.IsLinearized() {
		return s.View()
	}
	c := &chunk{data: make([]byte, s.size), filled: s.size}
	dst := c.data
	for r := s.head; r != nil; r = r.next {
		n := copy(dst, r.data[:r.filled])
		dst = dst[n:]
	}
	s.head = c
	s.current = c
	s.gen++
	return c.data
}

// Size returns the number of bytes written so far.
func (s *Stream) Size() int { return s.size }

// Empty reports whether nothing has been written.
func (s *Stream) Empty() bool { return s.size == 0 }

// Append deep-copies the contents of o onto the end of s. The two streams
// share no storage afterwards. o must not be s.
func (s *Stream) Append(o *Stream) {
	if o.size == 0 {
		return
	}
	dst := s.alloc(o.size)
	for r := o.head; r != nil; r = r.next {
		n := copy(dst, r.data[:r.filled])
		dst = dst[n:]
	}
}

// Clone returns an independent deep copy of the stream.
func (s *Stream) Clone() *Stream {
	c := &Stream{}
	c.Append(s)
	return c
}

// TakeFrom transfers o's storage into s, discarding anything s held. o is
// left empty and immediately reusable. Placeholders issued by o resolve
// against s afterwards, not against o.
func (s *Stream) TakeFrom(o *Stream) {
	s.head = o.head
	s.current = o.current
	s.size = o.size
	s.gen = o.gen
	o.head = nil
	o.current = nil
	o.size = 0
	o.gen++
}

// Reserve pre-sizes an empty stream for a known upcoming write volume so
// the bytes land in one chunk instead of a chain. Non-empty streams and
// hints that fit a standard chunk ignore it.
func (s *Stream) Reserve(n int) {
	if s.head != nil || n <= chunkSize {
		return
	}
	c := &chunk{data: make([]byte, n)}
	s.head = c
	s.current = c
}

// Fragments yields each chunk's written bytes in chain order. The yielded
// slices alias the stream's storage and stay valid until the next write or
// Linearize.
func (s *Stream) Fragments() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for c := s.head; c != nil; c = c.next {
			if !yield(c.data[:c.filled]) {
				return
			}
		}
	}
}
