package history

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compressor abstracts the on-disk encoding of snapshot payloads.
type Compressor interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Ext() string
}

// ZstdCompressor encodes snapshots with zstd. Contest lists are repetitive
// JSON and compress to a small fraction of their raw size.
type ZstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdCompressor constructs a shared encoder/decoder pair.
func NewZstdCompressor() (*ZstdCompressor, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("history: create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("history: create zstd decoder: %w", err)
	}
	return &ZstdCompressor{encoder: encoder, decoder: decoder}, nil
}

func (z *ZstdCompressor) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func (z *ZstdCompressor) Decompress(val []byte) ([]byte, error) {
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompressor) Ext() string { return ".json.zst" }

// NopCompressor stores snapshots as plain JSON; used in tests and when
// compression is disabled.
type NopCompressor struct{}

func (NopCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (NopCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (NopCompressor) Ext() string                           { return ".json" }
