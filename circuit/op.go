package circuit

// OpKind discriminates recorded operations.
type OpKind uint8

const (
	OpAdder OpKind = iota
	OpPauliX
	OpControlledZ
	OpHadamard
)

func (k OpKind) String() string {
	switch k {
	case OpAdder:
		return "adder"
	case OpPauliX:
		return "x"
	case OpControlledZ:
		return "cz"
	case OpHadamard:
		return "h"
	default:
		return "unknown"
	}
}

// Op is one recorded circuit operation. Ops are immutable once recorded.
//
// Wires layout per kind:
//   - OpAdder: the full register, in register order
//   - OpPauliX, OpHadamard: a single wire
//   - OpControlledZ: the control wires followed by the target wire
type Op struct {
	Kind  OpKind
	K     int64 // adder constant; 0 for other kinds
	Wires []Wire
}

// Target returns the target wire of a controlled operation.
func (op Op) Target() Wire {
	return op.Wires[len(op.Wires)-1]
}

// Controls returns the control wires of a controlled operation.
func (op Op) Controls() []Wire {
	return op.Wires[:len(op.Wires)-1]
}
