// Package circuit defines the circuit-building context used by grover
// components, and a call-recording Builder implementing it.
//
// The API interface carries the minimal set of primitives an oracle needs;
// bind it to a simulator or hardware backend to execute circuits built
// through it.
package circuit

// API is a circuit-building context. Implementations own all circuit and
// simulation state; callers only append operations.
type API interface {
	// Adder adds k to the value held by the register, modulo 2^len(reg).
	Adder(k int64, reg Register)

	// PauliX applies a bit-flip (X) gate to the wire.
	PauliX(w Wire)

	// ControlledZ applies a phase-flip (Z) gate to the target wire,
	// controlled on every wire in controls. With no controls it degenerates
	// to a plain Z. The logical effect is a sign flip of the basis state
	// where the target and all controls read 1.
	ControlledZ(target Wire, controls ...Wire)
}
