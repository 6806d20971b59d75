// Package config loads umo's CLI/runtime configuration file (umo.yaml),
// grounded on the teacher's gopkg.in/yaml.v3 struct-tag marshal style
// (internal/evaluator/builtins_yaml.go, internal/ext/config.go's
// Load/Parse/setDefaults shape).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OverflowMode selects what happens when a 32-bit integer addition
// overflows. spec.md §9 leaves this an open implementer choice; umo.yaml
// makes it a runtime setting instead of a compile-time constant.
type OverflowMode string

const (
	// OverflowWrap matches Go's native int32 two's-complement wraparound.
	// This is the default.
	OverflowWrap OverflowMode = "wrap"
	// OverflowPanic raises a runtime assertion instead of wrapping, for
	// debugging programs that rely on exact bounded arithmetic.
	OverflowPanic OverflowMode = "panic"
)

// HostBackend selects which sirvm.RuntimeHost the CLI wires up.
type HostBackend string

const (
	HostStdout HostBackend = "stdout"
	HostMemory HostBackend = "memory"
	HostGRPC   HostBackend = "grpc"
)

// RunOptions governs one pipeline run: overflow semantics, the runtime
// host backend, and the optional compiled-SIR cache.
type RunOptions struct {
	Overflow OverflowMode `yaml:"overflow,omitempty"`

	Host       HostBackend `yaml:"host,omitempty"`
	GRPCTarget string      `yaml:"grpc_target,omitempty"`

	CacheEnabled bool   `yaml:"cache_enabled,omitempty"`
	CachePath    string `yaml:"cache_path,omitempty"`
}

// Default returns the options used when no umo.yaml is found: wrap on
// overflow, stdout host, cache disabled (spec.md's "Persisted state:
// none" stays true by default).
func Default() *RunOptions {
	return &RunOptions{
		Overflow:  OverflowWrap,
		Host:      HostStdout,
		CachePath: "umo-cache.db",
	}
}

// Load reads and parses a umo.yaml file at path. A missing file is not an
// error: Default() is returned instead, so running umo without a config
// file is always valid.
func Load(path string) (*RunOptions, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses umo.yaml content from bytes, filling in defaults for any
// field the file omits.
func Parse(data []byte) (*RunOptions, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *RunOptions) validate() error {
	switch o.Overflow {
	case OverflowWrap, OverflowPanic:
	default:
		return fmt.Errorf("config: unknown overflow mode %q", o.Overflow)
	}
	switch o.Host {
	case HostStdout, HostMemory, HostGRPC:
	default:
		return fmt.Errorf("config: unknown host backend %q", o.Host)
	}
	if o.Host == HostGRPC && o.GRPCTarget == "" {
		return fmt.Errorf("config: host: grpc requires grpc_target")
	}
	return nil
}
