package framewire

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/bytestream/internal/common"
	"github.com/rawbytedev/bytestream/pkg/utf8x"
)

// Decode parses a frame produced by Encoder.Encode and returns the payload
// together with the frame's flags. Corruption of any kind is an error
// value, never a panic; frames routinely arrive from untrusted sources.
func Decode(frame []byte) ([]byte, byte, error) {
	if len(frame) < minFrame {
		return nil, 0, ErrTruncated
	}
	if binary.BigEndian.Uint16(frame) != Magic || frame[offType] != TypeData {
		return nil, 0, ErrNotDataFrame
	}
	if int(binary.BigEndian.Uint32(frame[offLength:])) != len(frame) {
		return nil, 0, ErrLengthMismatch
	}
	flags := frame[offFlags]

	crcStart := len(frame) - crcSize
	want := binary.BigEndian.Uint32(frame[crcStart:])
	if crc32.ChecksumIEEE(frame[offType:crcStart]) != want {
		return nil, 0, ErrChecksum
	}

	body := frame[offBlob:crcStart]
	if int(binary.BigEndian.Uint32(frame[offBlobLen:])) != len(body) {
		return nil, 0, ErrLengthMismatch
	}

	payload := body
	if flags&FlagZstd != 0 {
		raw, n := common.ReadVarUint(body)
		if n == 0 {
			return nil, 0, ErrTruncated
		}
		zr, err := zstd.NewReader(nil)
		if err != nil {
			return nil, 0, err
		}
		defer zr.Close()
		payload, err = zr.DecodeAll(body[n:], nil)
		if err != nil {
			return nil, 0, fmt.Errorf("framewire: decompress: %w", err)
		}
		if uint64(len(payload)) != raw {
			return nil, 0, ErrLengthMismatch
		}
	}
	if flags&FlagUTF8 != 0 {
		if pos, bad := utf8x.FirstError(payload); bad {
			return nil, 0, fmt.Errorf("framewire: payload is not valid UTF-8 at byte %d", pos)
		}
	}
	return payload, flags, nil
}
