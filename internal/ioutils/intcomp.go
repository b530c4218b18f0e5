// Package ioutils provides the low-level encoders used by circuit
// serialization: intcomp-compressed integer streams and bit-packed op-tag
// streams.
package ioutils

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/ronanh/intcomp"
)

// CompressAndWriteUints32 compresses a slice of uint32 and writes it to w,
// prefixed with the compressed word count.
func CompressAndWriteUints32(w io.Writer, input []uint32) error {
	buffer := intcomp.CompressUint32(input, nil)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, buffer)
}

// CompressAndWriteUints64 compresses a slice of uint64 and writes it to w,
// prefixed with the compressed word count.
func CompressAndWriteUints64(w io.Writer, input []uint64) error {
	buffer := intcomp.CompressUint64(input, nil)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, buffer)
}

// ReadAndDecompressUints32 reads a compressed slice of uint32 from r and
// decompresses it. The count prefix is untrusted; maxBytes is the number of
// bytes available in the stream, prefix included, and a count the stream
// cannot hold is an error. It returns the number of bytes read, the
// decompressed slice and an error.
func ReadAndDecompressUints32(r io.Reader, maxBytes int) (int, []uint32, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return 0, nil, err
	}
	if maxBytes < 8 || length > uint64(maxBytes-8)/4 {
		return 8, nil, errors.New("compressed stream length exceeds section size")
	}
	buffer := make([]uint32, length)
	if err := binary.Read(r, binary.LittleEndian, buffer); err != nil {
		return 8, nil, err
	}
	return 8 + 4*int(length), intcomp.UncompressUint32(buffer, nil), nil
}

// ReadAndDecompressUints64 reads a compressed slice of uint64 from r and
// decompresses it. The count prefix is bounded by maxBytes exactly as in
// ReadAndDecompressUints32.
func ReadAndDecompressUints64(r io.Reader, maxBytes int) (int, []uint64, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return 0, nil, err
	}
	if maxBytes < 8 || length > uint64(maxBytes-8)/8 {
		return 8, nil, errors.New("compressed stream length exceeds section size")
	}
	buffer := make([]uint64, length)
	if err := binary.Read(r, binary.LittleEndian, buffer); err != nil {
		return 8, nil, err
	}
	return 8 + 8*int(length), intcomp.UncompressUint64(buffer, nil), nil
}
