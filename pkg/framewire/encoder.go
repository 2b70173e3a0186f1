package framewire

import (
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/bytestream"
	"github.com/rawbytedev/bytestream/internal/common"
	"github.com/rawbytedev/bytestream/pkg/utf8x"
)

// Encoder builds data frames. It is safe for reuse across frames but not
// for concurrent use.
type Encoder struct {
	zw *zstd.Encoder
}

func NewEncoder() (*Encoder, error) {
	zw, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	return &Encoder{zw: zw}, nil
}

// Encode frames payload according to flags. FlagUTF8 rejects payloads that
// are not well-formed UTF-8; FlagZstd compresses the payload and records
// its uncompressed length ahead of the compressed bytes.
func (e *Encoder) Encode(payload []byte, flags byte) ([]byte, error) {
	if flags&FlagUTF8 != 0 {
		if pos, bad := utf8x.FirstError(payload); bad {
			return nil, fmt.Errorf("framewire: payload is not valid UTF-8 at byte %d", pos)
		}
	}
	body := payload
	if flags&FlagZstd != 0 {
		body = common.WriteVarUint(nil, uint64(len(payload)))
		body = e.zw.EncodeAll(payload, body)
	}

	s := bytestream.New()
	s.WriteUint16(Magic)
	s.WriteUint8(TypeData)
	length := s.PlaceUint32()
	s.WriteUint8(flags)
	s.WriteBlob(body)

	// Total length covers the whole frame including the CRC. The
	// placeholder must be set before Linearize releases its storage.
	if err := s.Set(length, uint64(s.Size()+crcSize)); err != nil {
		return nil, err
	}
	out := s.Linearize()
	s.WriteUint32(crc32.ChecksumIEEE(out[offType:]))
	return s.Linearize(), nil
}
