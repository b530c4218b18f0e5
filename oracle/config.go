package oracle

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
)

// ConfigError reports an unusable oracle configuration resource: a missing or
// unreadable file, invalid JSON, invalid Base64, or a payload that is not a
// decimal integer.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("oracle config %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ConfigMismatchError reports configuration data that is inconsistent with
// the oracle's register width: a register/qubit-count disagreement, or a
// decoded value that needs more bits than the register has.
type ConfigMismatchError struct {
	NbQubits int
	Detail   string
}

func (e *ConfigMismatchError) Error() string {
	return fmt.Sprintf("oracle config mismatch (n_qubits=%d): %s", e.NbQubits, e.Detail)
}

// config mirrors the JSON configuration resource.
type config struct {
	MarkedStates []string `json:"marked_states"`
	Solutions    []string `json:"solutions"`
}

// loadConfig reads and decodes the configuration file. Both returned lists
// hold fixed-width binary strings of exactly nbQubits characters.
func loadConfig(path string, nbQubits int) (marked, solutions []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &ConfigError{Path: path, Err: err}
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, &ConfigError{Path: path, Err: err}
	}

	if marked, err = decodeStates(cfg.MarkedStates, nbQubits); err != nil {
		return nil, nil, classify(path, fmt.Errorf("marked_states: %w", err))
	}
	if solutions, err = decodeStates(cfg.Solutions, nbQubits); err != nil {
		return nil, nil, classify(path, fmt.Errorf("solutions: %w", err))
	}
	return marked, solutions, nil
}

// classify keeps width mismatches as ConfigMismatchError and wraps everything
// else as ConfigError.
func classify(path string, err error) error {
	var mismatch *ConfigMismatchError
	if errors.As(err, &mismatch) {
		return mismatch
	}
	return &ConfigError{Path: path, Err: err}
}

func decodeStates(encoded []string, nbQubits int) ([]string, error) {
	out := make([]string, len(encoded))
	for i, enc := range encoded {
		s, err := decodeState(enc, nbQubits)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// decodeState decodes one Base64 payload into a binary string left-zero-padded
// to nbQubits bits. The payload must be a non-negative decimal integer that
// fits in nbQubits bits.
func decodeState(encoded string, nbQubits int) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid base64 %q: %w", encoded, err)
	}
	v, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return "", fmt.Errorf("payload %q is not a decimal integer", string(raw))
	}
	if v.Sign() < 0 {
		return "", fmt.Errorf("payload %q is negative", string(raw))
	}
	if v.BitLen() > nbQubits {
		return "", &ConfigMismatchError{
			NbQubits: nbQubits,
			Detail:   fmt.Sprintf("value %s needs %d bits", v, v.BitLen()),
		}
	}
	return fmt.Sprintf("%0*b", nbQubits, v), nil
}
