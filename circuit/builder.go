package circuit

import "slices"

// Builder is a call-recording implementation of API. It appends every
// operation to an in-memory list, which can be executed by a binding layer,
// serialized, or rendered to OpenQASM.
//
// A Builder is not safe for concurrent use; build the circuit from a single
// goroutine, then share the recorded ops freely.
type Builder struct {
	nbQubits int
	ops      []Op
}

var _ API = (*Builder)(nil)

// NewBuilder returns an empty builder for a circuit over nbQubits wires.
func NewBuilder(nbQubits int) *Builder {
	return &Builder{nbQubits: nbQubits}
}

func (b *Builder) Adder(k int64, reg Register) {
	b.ops = append(b.ops, Op{Kind: OpAdder, K: k, Wires: slices.Clone([]Wire(reg))})
}

func (b *Builder) PauliX(w Wire) {
	b.ops = append(b.ops, Op{Kind: OpPauliX, Wires: []Wire{w}})
}

func (b *Builder) ControlledZ(target Wire, controls ...Wire) {
	wires := make([]Wire, 0, len(controls)+1)
	wires = append(wires, controls...)
	wires = append(wires, target)
	b.ops = append(b.ops, Op{Kind: OpControlledZ, Wires: wires})
}

// Hadamard applies an H gate. It is not part of API; it exists for callers
// preparing superpositions around a sub-circuit.
func (b *Builder) Hadamard(w Wire) {
	b.ops = append(b.ops, Op{Kind: OpHadamard, Wires: []Wire{w}})
}

// Ops returns the recorded operations. The returned slice is shared with the
// builder; treat it as read-only.
func (b *Builder) Ops() []Op {
	return b.ops
}

// NbOps returns the number of recorded operations.
func (b *Builder) NbOps() int {
	return len(b.ops)
}

// NbQubits returns the circuit width the builder was created with.
func (b *Builder) NbQubits() int {
	return b.nbQubits
}
