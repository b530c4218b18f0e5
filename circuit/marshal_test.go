package circuit

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSerializationRoundTrip(t *testing.T) {
	reg := NewRegister(4)
	b := NewBuilder(4)
	for _, w := range reg {
		b.Hadamard(w)
	}
	b.Adder(1, reg)
	b.PauliX(W(1))
	b.ControlledZ(reg.Last(), reg[:3]...)
	b.PauliX(W(1))
	b.Adder(-1, reg)

	data, err := b.ToBytes()
	require.NoError(t, err)

	reloaded := NewBuilder(0)
	n, err := reloaded.FromBytes(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, b.NbQubits(), reloaded.NbQubits())

	if diff := cmp.Diff(b.Ops(), reloaded.Ops(), cmp.AllowUnexported(Wire{})); diff != "" {
		t.Fatalf("ops after round trip (-want +got):\n%s", diff)
	}
}

func TestSerializationEmptyCircuit(t *testing.T) {
	b := NewBuilder(2)
	data, err := b.ToBytes()
	require.NoError(t, err)

	reloaded := NewBuilder(0)
	_, err = reloaded.FromBytes(data)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.NbQubits())
	require.Zero(t, reloaded.NbOps())
}

func TestFromBytesTruncated(t *testing.T) {
	b := NewBuilder(3)
	b.PauliX(W(0))
	data, err := b.ToBytes()
	require.NoError(t, err)

	for _, cut := range []int{0, headerLen - 1, len(data) - 1} {
		reloaded := NewBuilder(0)
		_, err := reloaded.FromBytes(data[:cut])
		require.Error(t, err, "cut=%d", cut)
	}
}

func TestFromBytesCorruptBody(t *testing.T) {
	b := NewBuilder(3)
	b.PauliX(W(0))
	data, err := b.ToBytes()
	require.NoError(t, err)

	// flip a byte inside the CBOR body section
	data[len(data)-1] ^= 0xff
	reloaded := NewBuilder(0)
	_, err = reloaded.FromBytes(data)
	require.Error(t, err)
}

func TestFromBytesHostileSectionLengths(t *testing.T) {
	b := NewBuilder(3)
	b.Adder(1, NewRegister(3))
	valid, err := b.ToBytes()
	require.NoError(t, err)

	for name, mutate := range map[string]func([]byte){
		"tags length maxed": func(d []byte) {
			binary.LittleEndian.PutUint64(d[:8], ^uint64(0))
		},
		"wires length maxed": func(d []byte) {
			binary.LittleEndian.PutUint64(d[8:16], ^uint64(0))
		},
		"lengths sum past the payload": func(d []byte) {
			// each length fits in the payload on its own, the sum does not
			binary.LittleEndian.PutUint64(d[:8], uint64(len(d)))
			binary.LittleEndian.PutUint64(d[8:16], uint64(len(d)))
		},
	} {
		data := append([]byte(nil), valid...)
		mutate(data)
		reloaded := NewBuilder(0)
		_, err := reloaded.FromBytes(data)
		require.Error(t, err, name)
	}

	// bare header with no payload behind the advertised sections
	hostile := make([]byte, headerLen)
	binary.LittleEndian.PutUint64(hostile[:8], ^uint64(0))
	reloaded := NewBuilder(0)
	_, err = reloaded.FromBytes(hostile)
	require.Error(t, err)
}

func TestFromBytesHostileStreamCounts(t *testing.T) {
	b := NewBuilder(3)
	b.Adder(1, NewRegister(3))
	b.PauliX(W(0))
	valid, err := b.ToBytes()
	require.NoError(t, err)

	h := new(header)
	h.fromBytes(valid)
	wiresOff := headerLen + int(h.tagsLen)
	constsOff := wiresOff + int(h.wiresLen)

	// the wire-count stream's word-count prefix claims far more words than
	// its section holds
	data := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint64(data[wiresOff:wiresOff+8], 1<<61)
	reloaded := NewBuilder(0)
	_, err = reloaded.FromBytes(data)
	require.Error(t, err)

	// same for the adder-constant stream
	data = append([]byte(nil), valid...)
	binary.LittleEndian.PutUint64(data[constsOff:constsOff+8], 1<<61)
	reloaded = NewBuilder(0)
	_, err = reloaded.FromBytes(data)
	require.Error(t, err)
}
