// Package oracle implements a configurable phase-marking oracle for
// amplitude-amplification search circuits.
//
// An Oracle is constructed from a register, a qubit count and a JSON
// configuration resource listing Base64-encoded marked states and solutions.
// Apply appends the marking gate sequence to any circuit.API; IsSolution
// checks measured outcomes classically. All state is immutable after
// construction, so a single Oracle may be shared across goroutines.
package oracle

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/quantastic/grover/circuit"
	"github.com/quantastic/grover/logger"
)

// maxIndexedQubits bounds the width for which the marked-index bitset is
// materialized; beyond it MarksValue falls back to a list scan.
const maxIndexedQubits = 24

// Oracle phase-marks configured basis states inside a caller-built circuit.
type Oracle struct {
	registers circuit.Register
	nbQubits  int

	markedStates []string
	solutions    []string

	// markedIndex holds the basis indices that actually receive the phase
	// flip, that is (m-1) mod 2^n for each configured pattern m. Nil when
	// nbQubits > maxIndexedQubits.
	markedIndex *bitset.BitSet
}

// New builds an oracle over the given register, reading the configuration
// resource at configPath synchronously. It fails with ConfigError on an
// unusable resource and ConfigMismatchError when the register, qubit count
// and decoded values disagree; no partial oracle is ever returned.
func New(registers circuit.Register, nbQubits int, configPath string) (*Oracle, error) {
	if nbQubits <= 0 {
		return nil, &ConfigMismatchError{NbQubits: nbQubits, Detail: "qubit count must be positive"}
	}
	if len(registers) != nbQubits {
		return nil, &ConfigMismatchError{
			NbQubits: nbQubits,
			Detail:   fmt.Sprintf("register has %d wires", len(registers)),
		}
	}

	marked, solutions, err := loadConfig(configPath, nbQubits)
	if err != nil {
		return nil, err
	}

	o := &Oracle{
		registers:    slices.Clone(registers),
		nbQubits:     nbQubits,
		markedStates: marked,
		solutions:    solutions,
	}
	if nbQubits <= maxIndexedQubits {
		mask := uint(1)<<uint(nbQubits) - 1
		o.markedIndex = bitset.New(uint(1) << uint(nbQubits))
		for _, m := range marked {
			// m came out of decodeState, so it is exactly nbQubits '0'/'1'
			// characters with nbQubits <= maxIndexedQubits; ParseUint cannot
			// fail on it
			v, _ := strconv.ParseUint(m, 2, 64)
			o.markedIndex.Set((uint(v) - 1) & mask)
		}
	}

	log := logger.Logger()
	log.Debug().
		Str("path", configPath).
		Int("nbQubits", nbQubits).
		Int("markedStates", len(marked)).
		Int("solutions", len(solutions)).
		Msg("oracle configuration loaded")

	return o, nil
}

// Apply appends the oracle's gate sequence to the circuit-building context:
// an increment of the register, then for each marked state an X mask on its
// zero bits, a Z on the last wire controlled on all the others, and the same
// X mask again, and finally a decrement restoring the register.
//
// Calling Apply twice emits the sequence twice; it never fails, all inputs
// having been validated at construction.
func (o *Oracle) Apply(api circuit.API) {
	api.Adder(1, o.registers)
	for _, state := range o.markedStates {
		o.mask(api, state)
		api.ControlledZ(o.registers.Last(), o.registers[:o.nbQubits-1]...)
		o.mask(api, state)
	}
	api.Adder(-1, o.registers)
}

// mask flips every wire whose bit reads 0 in the state; applied twice it is
// the identity.
func (o *Oracle) mask(api circuit.API, state string) {
	for i := range state {
		if state[i] == '0' {
			api.PauliX(o.registers[i])
		}
	}
}

// IsSolution reports whether the measurement outcome x, one integer per wire
// in register order, concatenates to a configured solution. Outcomes other
// than 0 or 1 concatenate to their multi-character binary text form and will
// simply not match any fixed-width solution.
func (o *Oracle) IsSolution(x []int) bool {
	var sb strings.Builder
	for _, v := range x {
		sb.WriteString(strconv.FormatInt(int64(v), 2))
	}
	return slices.Contains(o.solutions, sb.String())
}

// MarksValue reports whether the oracle's gate sequence phase-flips the basis
// state v, i.e. whether (v+1) mod 2^n is a configured marked state. The
// register value is read with wire 0 as the most significant bit.
func (o *Oracle) MarksValue(v uint64) bool {
	// the shift wraps to an all-ones mask for widths of 64 and beyond
	mask := uint64(1)<<uint(o.nbQubits) - 1
	shifted := (v + 1) & mask
	if o.markedIndex != nil {
		return o.markedIndex.Test(uint(shifted))
	}
	s := fmt.Sprintf("%0*b", o.nbQubits, shifted)
	return slices.Contains(o.markedStates, s)
}

// MarkedStates returns a copy of the decoded marked-state bit strings, in
// configuration order.
func (o *Oracle) MarkedStates() []string {
	return slices.Clone(o.markedStates)
}

// Solutions returns a copy of the decoded solution bit strings, in
// configuration order.
func (o *Oracle) Solutions() []string {
	return slices.Clone(o.solutions)
}

// NbQubits returns the register width.
func (o *Oracle) NbQubits() int {
	return o.nbQubits
}
