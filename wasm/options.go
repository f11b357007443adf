package wasm

import "go.uber.org/zap"

// Default decode limits. Each can be raised or lowered per call.
const (
	DefaultMaxModuleSize = 64 << 20
	DefaultMaxCount      = 1 << 20
	DefaultMaxLocals     = 1 << 22
)

// DecodeConfig holds the settings applied to a single decode call.
type DecodeConfig struct {
	Logger *zap.Logger

	// MaxModuleSize bounds the input accepted by DecodeReader and Decode.
	// 0 disables the check.
	MaxModuleSize int

	// MaxCount bounds every vector count (types, functions, bodies,
	// parameters) and the total locals of one body. 0 disables the check.
	MaxCount uint32

	// MaxLocals bounds the declared locals summed over every body in the
	// code section. 0 disables the check.
	MaxLocals uint64

	// StrictSections rejects known sections that would otherwise be
	// skipped by length. Custom sections are always accepted.
	StrictSections bool
}

// Option configures a decode call.
type Option func(*DecodeConfig)

// WithMaxModuleSize sets the largest accepted input in bytes.
func WithMaxModuleSize(n int) Option {
	return func(c *DecodeConfig) { c.MaxModuleSize = n }
}

// WithMaxCount sets the largest accepted vector count.
func WithMaxCount(n uint32) Option {
	return func(c *DecodeConfig) { c.MaxCount = n }
}

// WithMaxLocals sets the largest accepted number of locals across all
// function bodies of a module.
func WithMaxLocals(n uint64) Option {
	return func(c *DecodeConfig) { c.MaxLocals = n }
}

// WithLogger overrides the package logger for one call.
func WithLogger(l *zap.Logger) Option {
	return func(c *DecodeConfig) { c.Logger = l }
}

// WithStrictSections makes skippable non-custom sections a decode error.
func WithStrictSections() Option {
	return func(c *DecodeConfig) { c.StrictSections = true }
}

func newDecodeConfig(opts []Option) *DecodeConfig {
	cfg := &DecodeConfig{
		MaxModuleSize: DefaultMaxModuleSize,
		MaxCount:      DefaultMaxCount,
		MaxLocals:     DefaultMaxLocals,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}
	return cfg
}
