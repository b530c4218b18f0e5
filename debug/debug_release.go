//go:build !debug

// Package debug exposes the build-tag debug flag consumed across grover
// components. Build with -tags debug to enable it.
package debug

const Debug = false
