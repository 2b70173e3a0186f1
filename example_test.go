package bytestream_test

import (
	"fmt"
	"strings"

	"github.com/rawbytedev/bytestream"
	"github.com/rawbytedev/bytestream/pkg/utf8x"
)

func ExampleStream() {
	s := bytestream.New()
	s.WriteUint16(0x1234)
	s.WriteBlob([]byte("café"))
	fmt.Printf("% X\n", s.Linearize())
	// Output: 12 34 00 00 00 05 63 61 66 C3 A9
}

func ExampleStream_placeholder() {
	s := bytestream.New()
	length := s.PlaceUint32()
	s.Write([]byte("payload written before its length is known"))
	s.Set(length, uint64(s.Size()-4))
	fmt.Println(s.Size())
	// Output: 46
}

func ExampleStream_fragments() {
	s := bytestream.New()
	s.Write([]byte(strings.Repeat("héllo wörld ", 60)))
	_, valid := utf8x.ValidateSeq(s.Fragments())
	fmt.Println(s.IsLinearized(), valid)
	// Output: false true
}
