package spanmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// ErrCorruptSnapshot is returned by Boot when a snapshot column cannot
// be restored.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// uint32ByteSize is the number of bytes in a uint32.
const uint32ByteSize = 4

// column is one LZ4 block-compressed snapshot column. Columns that do
// not shrink under compression are kept raw.
type column struct {
	data []byte
	raw  bool
}

// compressUint32Column serializes a uint32 slice little-endian and
// compresses it as a single LZ4 block.
func compressUint32Column(data []uint32) (column, error) {
	buf := new(bytes.Buffer)

	writeErr := binary.Write(buf, binary.LittleEndian, data)
	if writeErr != nil {
		return column{}, fmt.Errorf("serialize column: %w", writeErr)
	}

	return compressBytes(buf.Bytes()), nil
}

// decompressUint32Column restores a column previously produced by
// compressUint32Column. result must be preallocated to the original
// element count.
func decompressUint32Column(c column, result []uint32) error {
	raw, err := decompressBytes(c, len(result)*uint32ByteSize)
	if err != nil {
		return err
	}

	readErr := binary.Read(bytes.NewReader(raw), binary.LittleEndian, result)
	if readErr != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, readErr)
	}

	return nil
}

// compressBytes compresses one LZ4 block, falling back to a raw copy
// when the input is incompressible.
func compressBytes(data []byte) column {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	written, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil || written == 0 || written >= len(data) {
		return column{data: bytes.Clone(data), raw: true}
	}

	return column{data: compressed[:written]}
}

// decompressBytes restores a column to its original size.
func decompressBytes(c column, size int) ([]byte, error) {
	if c.raw {
		if len(c.data) != size {
			return nil, fmt.Errorf("%w: raw column is %d bytes, want %d", ErrCorruptSnapshot, len(c.data), size)
		}

		return c.data, nil
	}

	out := make([]byte, size)

	n, err := lz4.UncompressBlock(c.data, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	if n != size {
		return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorruptSnapshot, n, size)
	}

	return out, nil
}

// deltaEncodeUint32 replaces each element with the difference from its
// predecessor, in place. Sorted sequences become small, repetitive
// values that compress better with LZ4.
func deltaEncodeUint32(data []uint32) {
	for i := len(data) - 1; i > 0; i-- {
		data[i] -= data[i-1]
	}
}

// deltaDecodeUint32 performs a prefix sum to restore the original values
// from deltas, in place.
func deltaDecodeUint32(data []uint32) {
	for i := 1; i < len(data); i++ {
		data[i] += data[i-1]
	}
}
