package circuit

import "fmt"

// Wire identifies one qubit's position within a circuit. It is an opaque
// value; gate placement is the only arithmetic that makes sense on it.
type Wire struct {
	id int
}

// W returns the wire with the given index.
func W(i int) Wire {
	return Wire{id: i}
}

// Index returns the wire's position. Binding layers use it to translate a
// Wire to whatever identifier their backend expects.
func (w Wire) Index() int {
	return w.id
}

func (w Wire) String() string {
	return fmt.Sprintf("q[%d]", w.id)
}

// Register is an ordered sequence of wires. The first wire holds the most
// significant bit of the register value.
type Register []Wire

// NewRegister returns a register over wires 0 through n-1.
func NewRegister(n int) Register {
	r := make(Register, n)
	for i := range r {
		r[i] = Wire{id: i}
	}
	return r
}

// Last returns the last wire of the register.
func (r Register) Last() Wire {
	return r[len(r)-1]
}
