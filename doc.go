// Package grover provides building blocks for amplitude-amplification search
// circuits.
//
// The library is organized around two packages:
//   - circuit: an API of circuit-building primitives and a call-recording
//     Builder, with OpenQASM emission and binary serialization
//   - oracle: a configurable phase-marking oracle that appends its gate
//     sequence to any circuit.API, plus classical helpers for checking
//     measurement outcomes
//
// Circuit simulation and gate decomposition are out of scope; bind circuit.API
// to the simulator or hardware backend of your choice. The test package ships
// a small statevector engine for verifying oracle behavior.
package grover

import (
	"github.com/blang/semver/v4"
)

var Version = semver.MustParse("0.1.0")
