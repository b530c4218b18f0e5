package circuit

import (
	"fmt"
	"strings"
)

// ToQASM renders the recorded circuit as OpenQASM 2.0 text.
//
// The modular adder has no qelib counterpart and is emitted as an opaque
// named gate call; multi-controlled Z likewise becomes an mcz call when more
// than one control is present. Consumers targeting plain qelib must expand
// those two.
func (b *Builder) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", b.nbQubits)

	for _, op := range b.ops {
		switch op.Kind {
		case OpAdder:
			fmt.Fprintf(&sb, "adder(%d) %s;\n", op.K, wireList(op.Wires))
		case OpPauliX:
			fmt.Fprintf(&sb, "x %s;\n", op.Wires[0])
		case OpHadamard:
			fmt.Fprintf(&sb, "h %s;\n", op.Wires[0])
		case OpControlledZ:
			switch len(op.Wires) {
			case 1:
				fmt.Fprintf(&sb, "z %s;\n", op.Target())
			case 2:
				fmt.Fprintf(&sb, "cz %s, %s;\n", op.Controls()[0], op.Target())
			default:
				fmt.Fprintf(&sb, "mcz %s;\n", wireList(op.Wires))
			}
		}
	}

	return sb.String()
}

func wireList(wires []Wire) string {
	parts := make([]string, len(wires))
	for i, w := range wires {
		parts[i] = w.String()
	}
	return strings.Join(parts, ", ")
}
