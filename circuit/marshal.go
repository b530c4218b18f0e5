package circuit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	"github.com/quantastic/grover"
	"github.com/quantastic/grover/internal/ioutils"
	"github.com/quantastic/grover/logger"
)

// ToBytes serializes the recorded circuit to a byte slice.
//
// The layout is 4 blocks behind a fixed header: a bit-packed op-tag stream,
// intcomp-compressed wire counts and indices, compressed adder constants, and
// a CBOR body carrying the library version and circuit width. Blocks are
// produced concurrently.
func (b *Builder) ToBytes() ([]byte, error) {
	tags := make([]uint8, len(b.ops))
	counts := make([]uint32, len(b.ops))
	var wires []uint32
	var consts []uint64
	for i, op := range b.ops {
		tags[i] = uint8(op.Kind)
		counts[i] = uint32(len(op.Wires))
		for _, w := range op.Wires {
			wires = append(wires, uint32(w.Index()))
		}
		if op.Kind == OpAdder {
			consts = append(consts, uint64(op.K))
		}
	}

	var tagsData, wiresData, constsData []byte
	var g errgroup.Group
	g.Go(func() error {
		var buf bytes.Buffer
		err := ioutils.WriteTags(&buf, tags)
		tagsData = buf.Bytes()
		return err
	})
	g.Go(func() error {
		var buf bytes.Buffer
		if err := ioutils.CompressAndWriteUints32(&buf, counts); err != nil {
			return err
		}
		if err := ioutils.CompressAndWriteUints32(&buf, wires); err != nil {
			return err
		}
		wiresData = buf.Bytes()
		return nil
	})
	g.Go(func() error {
		var buf bytes.Buffer
		err := ioutils.CompressAndWriteUints64(&buf, consts)
		constsData = buf.Bytes()
		return err
	})

	body, err := cbor.Marshal(circuitBody{
		Version:  grover.Version.String(),
		NbQubits: b.nbQubits,
		NbOps:    len(b.ops),
	})
	if err != nil {
		return nil, err
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := header{
		tagsLen:   uint64(len(tagsData)),
		wiresLen:  uint64(len(wiresData)),
		constsLen: uint64(len(constsData)),
		bodyLen:   uint64(len(body)),
	}
	buf := h.toBytes()
	buf = append(buf, tagsData...)
	buf = append(buf, wiresData...)
	buf = append(buf, constsData...)
	buf = append(buf, body...)
	return buf, nil
}

// FromBytes deserializes a circuit produced by ToBytes into the builder,
// replacing any recorded ops. It returns the number of bytes read.
func (b *Builder) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, errors.New("invalid data length")
	}
	h := new(header)
	h.fromBytes(data)

	// section lengths come from untrusted data; validate each one before
	// summing so a huge value cannot wrap the total
	maxLen := uint64(len(data))
	sum := uint64(headerLen)
	for _, l := range []uint64{h.tagsLen, h.wiresLen, h.constsLen, h.bodyLen} {
		if l > maxLen || sum+l > maxLen {
			return 0, errors.New("invalid data length")
		}
		sum += l
	}
	total := int(sum)

	tagsData := data[headerLen : headerLen+h.tagsLen]
	wiresData := data[headerLen+h.tagsLen : headerLen+h.tagsLen+h.wiresLen]
	constsData := data[headerLen+h.tagsLen+h.wiresLen : headerLen+h.tagsLen+h.wiresLen+h.constsLen]
	bodyData := data[headerLen+h.tagsLen+h.wiresLen+h.constsLen : uint64(total)]

	var tags []uint8
	var counts, wires []uint32
	var consts []uint64
	var g errgroup.Group
	g.Go(func() error {
		var err error
		tags, err = ioutils.ReadTags(bytes.NewReader(tagsData), len(tagsData))
		return err
	})
	g.Go(func() error {
		r := bytes.NewReader(wiresData)
		n, counts2, err := ioutils.ReadAndDecompressUints32(r, len(wiresData))
		if err != nil {
			return err
		}
		counts = counts2
		_, wires, err = ioutils.ReadAndDecompressUints32(r, len(wiresData)-n)
		return err
	})
	g.Go(func() error {
		var err error
		_, consts, err = ioutils.ReadAndDecompressUints64(bytes.NewReader(constsData), len(constsData))
		return err
	})

	var body circuitBody
	if err := cbor.Unmarshal(bodyData, &body); err != nil {
		return 0, err
	}
	if err := checkSerializationHeader(body.Version); err != nil {
		return 0, err
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	if len(tags) != body.NbOps || len(counts) != body.NbOps {
		return 0, errors.New("op stream length mismatch")
	}
	ops := make([]Op, body.NbOps)
	wi, ci := 0, 0
	for i := range ops {
		n := int(counts[i])
		if wi+n > len(wires) {
			return 0, errors.New("wire stream too short")
		}
		opWires := make([]Wire, n)
		for j := range opWires {
			opWires[j] = Wire{id: int(wires[wi+j])}
		}
		wi += n

		kind := OpKind(tags[i])
		op := Op{Kind: kind, Wires: opWires}
		switch kind {
		case OpAdder:
			if ci >= len(consts) {
				return 0, errors.New("constant stream too short")
			}
			op.K = int64(consts[ci])
			ci++
		case OpPauliX, OpControlledZ, OpHadamard:
		default:
			return 0, fmt.Errorf("unknown op kind %d", tags[i])
		}
		ops[i] = op
	}
	if wi != len(wires) || ci != len(consts) {
		return 0, errors.New("trailing data in op streams")
	}

	b.nbQubits = body.NbQubits
	b.ops = ops
	return total, nil
}

// checkSerializationHeader parses the library version header; a mismatch with
// the binary's version is logged but not fatal.
func checkSerializationHeader(version string) error {
	objectVersion, err := semver.Parse(version)
	if err != nil {
		return fmt.Errorf("when parsing circuit version: %w", err)
	}
	if grover.Version.Compare(objectVersion) != 0 {
		log := logger.Logger()
		log.Warn().Str("binary", grover.Version.String()).Str("object", objectVersion.String()).Msg("library version (binary) mismatch with serialized circuit. there are no guarantees on compatibility")
	}
	return nil
}

type circuitBody struct {
	Version  string `cbor:"version"`
	NbQubits int    `cbor:"nbQubits"`
	NbOps    int    `cbor:"nbOps"`
}

const headerLen = 4 * 8

type header struct {
	tagsLen   uint64
	wiresLen  uint64
	constsLen uint64
	bodyLen   uint64
}

func (h *header) toBytes() []byte {
	buf := make([]byte, 0, headerLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.tagsLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.wiresLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.constsLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.bodyLen)
	return buf
}

func (h *header) fromBytes(data []byte) {
	h.tagsLen = binary.LittleEndian.Uint64(data[:8])
	h.wiresLen = binary.LittleEndian.Uint64(data[8:16])
	h.constsLen = binary.LittleEndian.Uint64(data[16:24])
	h.bodyLen = binary.LittleEndian.Uint64(data[24:32])
}
