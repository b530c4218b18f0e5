package ioutils

import (
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// TagBits is the fixed width of one packed tag.
const TagBits = 4

// WriteTags bit-packs the tags to w, TagBits bits each, prefixed with the tag
// count. The stream is padded to a byte boundary.
func WriteTags(w io.Writer, tags []uint8) error {
	bw := bitio.NewWriter(w)
	if err := bw.WriteBits(uint64(len(tags)), 64); err != nil {
		return err
	}
	for _, t := range tags {
		if t >= 1<<TagBits {
			return fmt.Errorf("tag %d does not fit in %d bits", t, TagBits)
		}
		if err := bw.WriteBits(uint64(t), TagBits); err != nil {
			return err
		}
	}
	return bw.Close()
}

// ReadTags reads a bit-packed tag stream written by WriteTags. The count
// prefix is untrusted; maxBytes is the number of bytes available in the
// stream, prefix included, and a count the stream cannot hold is an error.
func ReadTags(r io.Reader, maxBytes int) ([]uint8, error) {
	br := bitio.NewReader(r)
	n, err := br.ReadBits(64)
	if err != nil {
		return nil, err
	}
	if maxBytes < 8 || n > uint64(maxBytes-8)*8/TagBits {
		return nil, fmt.Errorf("tag count %d exceeds stream size", n)
	}
	tags := make([]uint8, n)
	for i := range tags {
		v, err := br.ReadBits(TagBits)
		if err != nil {
			return nil, err
		}
		tags[i] = uint8(v)
	}
	return tags, nil
}
