// Package framewire frames payloads for transport or storage. A frame is a
// fixed preamble, a total length fixed up after the payload is written,
// a flag byte, the payload as a length-prefixed blob and a closing CRC:
//
//	magic (uint16) | type (byte) | total length (uint32) | flags (byte) |
//	blob length (uint32) | blob | CRC32-IEEE (uint32)
//
// All integers are big-endian. The CRC covers everything after the magic.
// Frames are built on a bytestream.Stream, so the payload size never has to
// be known before the header is written.
package framewire

import "errors"

const (
	Magic    = uint16(0xB5EB)
	TypeData = byte(0x01)
)

// Frame flags.
const (
	// FlagZstd marks the blob as zstd-compressed, prefixed with the varint
	// uncompressed length.
	FlagZstd = byte(1 << iota)
	// FlagUTF8 requires the payload to be well-formed UTF-8 text.
	FlagUTF8
)

// Header layout offsets.
const (
	offType    = 2
	offLength  = 3
	offFlags   = 7
	offBlobLen = 8
	offBlob    = 12
	crcSize    = 4
	minFrame   = offBlob + crcSize // header plus an empty blob
)

var (
	ErrNotDataFrame   = errors.New("framewire: not a data frame")
	ErrLengthMismatch = errors.New("framewire: length mismatch")
	ErrChecksum       = errors.New("framewire: crc mismatch")
	ErrTruncated      = errors.New("framewire: frame truncated")
)
