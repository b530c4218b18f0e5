package test

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/quantastic/grover/circuit"
)

// maxEngineQubits bounds the dense statevector size (2^26 amplitudes is 1GiB).
const maxEngineQubits = 26

// phaseEps is the amplitude tolerance used when comparing states.
const phaseEps = 1e-12

// Engine executes recorded circuit operations on a dense statevector. Wire 0
// holds the most significant bit of the basis index, matching the register
// convention of the circuit package.
//
// The engine exists to verify the logical effect of gate sequences in tests;
// it makes no attempt at being a production simulator.
type Engine struct {
	nbQubits int
	state    []complex128
}

// NewEngine returns an engine over nbQubits wires, initialized to |0...0>.
func NewEngine(nbQubits int) (*Engine, error) {
	if nbQubits < 1 || nbQubits > maxEngineQubits {
		return nil, fmt.Errorf("engine supports 1 to %d qubits, got %d", maxEngineQubits, nbQubits)
	}
	state := make([]complex128, 1<<uint(nbQubits))
	state[0] = 1
	return &Engine{nbQubits: nbQubits, state: state}, nil
}

// SetUniform resets the engine to the uniform superposition over all basis
// states.
func (e *Engine) SetUniform() {
	amp := complex(1/math.Sqrt(float64(len(e.state))), 0)
	for i := range e.state {
		e.state[i] = amp
	}
}

// Run applies the operations in order.
func (e *Engine) Run(ops []circuit.Op) error {
	for i, op := range ops {
		if err := e.apply(op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	return nil
}

// State returns a copy of the statevector.
func (e *Engine) State() []complex128 {
	return slices.Clone(e.state)
}

// NbQubits returns the engine width.
func (e *Engine) NbQubits() int {
	return e.nbQubits
}

// Probability returns the measurement probability of the given basis state,
// written as a bit string with wire 0 first.
func (e *Engine) Probability(basis string) (float64, error) {
	if len(basis) != e.nbQubits {
		return 0, fmt.Errorf("basis state %q must have %d bits", basis, e.nbQubits)
	}
	idx := 0
	for i := 0; i < len(basis); i++ {
		idx <<= 1
		switch basis[i] {
		case '1':
			idx |= 1
		case '0':
		default:
			return 0, fmt.Errorf("basis state %q must match [01]+", basis)
		}
	}
	a := cmplx.Abs(e.state[idx])
	return a * a, nil
}

// PhaseFlipped compares the engine state against a reference and returns the
// set of basis indices whose amplitude got negated. It errors when any
// amplitude differs by something other than an exact sign flip, so a passing
// comparison certifies that the executed ops were a pure phase marking.
func (e *Engine) PhaseFlipped(ref *Engine) (*bitset.BitSet, error) {
	if len(e.state) != len(ref.state) {
		return nil, errors.New("engines have different widths")
	}
	flipped := bitset.New(uint(len(e.state)))
	for i := range e.state {
		switch {
		case cmplx.Abs(e.state[i]-ref.state[i]) < phaseEps:
		case cmplx.Abs(e.state[i]+ref.state[i]) < phaseEps && cmplx.Abs(ref.state[i]) > phaseEps:
			flipped.Set(uint(i))
		default:
			return nil, fmt.Errorf("amplitude %d changed by more than a sign flip", i)
		}
	}
	return flipped, nil
}

func (e *Engine) apply(op circuit.Op) error {
	switch op.Kind {
	case circuit.OpPauliX:
		mask, err := e.wireMask(op.Wires[0])
		if err != nil {
			return err
		}
		e.applyX(mask)
	case circuit.OpHadamard:
		mask, err := e.wireMask(op.Wires[0])
		if err != nil {
			return err
		}
		e.applyH(mask)
	case circuit.OpControlledZ:
		allMask := 0
		for _, w := range op.Wires {
			mask, err := e.wireMask(w)
			if err != nil {
				return err
			}
			allMask |= mask
		}
		e.applyCZ(allMask)
	case circuit.OpAdder:
		return e.applyAdder(op.K, op.Wires)
	default:
		return fmt.Errorf("unknown op kind %d", op.Kind)
	}
	return nil
}

// wireMask returns the basis-index bit mask of a wire.
func (e *Engine) wireMask(w circuit.Wire) (int, error) {
	if w.Index() < 0 || w.Index() >= e.nbQubits {
		return 0, fmt.Errorf("wire %s out of range", w)
	}
	return 1 << uint(e.nbQubits-1-w.Index()), nil
}

func (e *Engine) applyX(mask int) {
	e.parallelFor(len(e.state), func(start, end int) {
		for s := start; s < end; s++ {
			if s&mask == 0 {
				p := s | mask
				e.state[s], e.state[p] = e.state[p], e.state[s]
			}
		}
	})
}

func (e *Engine) applyH(mask int) {
	inv := complex(1/math.Sqrt2, 0)
	e.parallelFor(len(e.state), func(start, end int) {
		for s := start; s < end; s++ {
			if s&mask == 0 {
				p := s | mask
				a, b := e.state[s], e.state[p]
				e.state[s] = (a + b) * inv
				e.state[p] = (a - b) * inv
			}
		}
	})
}

func (e *Engine) applyCZ(allMask int) {
	e.parallelFor(len(e.state), func(start, end int) {
		for s := start; s < end; s++ {
			if s&allMask == allMask {
				e.state[s] = -e.state[s]
			}
		}
	})
}

// applyAdder permutes amplitudes so the value held by the register wires,
// read most significant first, increases by k modulo 2^len(reg).
func (e *Engine) applyAdder(k int64, reg []circuit.Wire) error {
	m := len(reg)
	if m == 0 {
		return errors.New("adder needs a non-empty register")
	}
	shifts := make([]uint, m)
	regMask := 0
	for i, w := range reg {
		mask, err := e.wireMask(w)
		if err != nil {
			return err
		}
		if regMask&mask != 0 {
			return fmt.Errorf("duplicate wire %s in adder register", w)
		}
		regMask |= mask
		shifts[i] = uint(e.nbQubits - 1 - w.Index())
	}

	mod := int64(1) << uint(m)
	next := make([]complex128, len(e.state))
	e.parallelFor(len(e.state), func(start, end int) {
		for s := start; s < end; s++ {
			v := int64(0)
			for _, sh := range shifts {
				v = v<<1 | int64(s>>sh&1)
			}
			v = ((v+k)%mod + mod) % mod
			t := s &^ regMask
			for i, sh := range shifts {
				t |= int(v>>uint(m-1-i)&1) << sh
			}
			// t is a permutation of s, so writes never collide
			next[t] = e.state[s]
		}
	})
	e.state = next
	return nil
}

// parallelFor chunks [0,n) across CPUs for large statevectors and runs
// serially otherwise.
func (e *Engine) parallelFor(n int, fn func(start, end int)) {
	const minParallel = 1 << 14
	if n < minParallel {
		fn(0, n)
		return
	}
	nbChunks := runtime.NumCPU()
	chunk := (n + nbChunks - 1) / nbChunks
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		start := start
		end := min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
