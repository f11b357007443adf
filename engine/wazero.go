package engine

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	wasmcore "github.com/wippyai/wasm-core"
	"github.com/wippyai/wasm-core/errors"
	"github.com/wippyai/wasm-core/wasm"
)

// nameSection is decoded by wazero itself and never reported as a custom
// section, so it is left out of comparisons.
const nameSection = "name"

// WazeroEngine compiles modules with wazero as a reference decoder.
type WazeroEngine struct {
	runtime wazero.Runtime
	cfg     Config
}

// Config holds configuration for engine creation
type Config struct {
	// DecodeOptions are passed to this module's decoder by CrossCheck.
	DecodeOptions []wasm.Option

	// MemoryLimitPages sets the maximum memory per module in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// Interpreter selects wazero's interpreter instead of the compiler.
	// The compiler is unavailable on some platforms.
	Interpreter bool
}

// New creates a wazero runtime. A nil cfg uses defaults.
func New(ctx context.Context, cfg *Config) (*WazeroEngine, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if c.Interpreter {
		runtimeCfg = wazero.NewRuntimeConfigInterpreter()
	}
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}
	runtimeCfg = runtimeCfg.WithCustomSections(true)

	return &WazeroEngine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		cfg:     c,
	}, nil
}

// Close releases the wazero runtime.
func (e *WazeroEngine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Check compiles data with wazero and reports whether it was accepted.
func (e *WazeroEngine) Check(ctx context.Context, data []byte) error {
	_, err := e.compile(ctx, data)
	return err
}

func (e *WazeroEngine) compile(ctx context.Context, data []byte) ([]string, error) {
	compiled, err := e.runtime.CompileModule(ctx, data)
	if err != nil {
		return nil, errors.Load("wazero compile", err)
	}
	defer compiled.Close(ctx)

	var customs []string
	for _, cs := range compiled.CustomSections() {
		if cs.Name() != nameSection {
			customs = append(customs, cs.Name())
		}
	}
	return customs, nil
}

// Verdict is the outcome of running the same bytes through this module's
// pipeline and through wazero.
type Verdict struct {
	// Ours is the error from decode, validate and instantiate, or nil.
	Ours error
	// Reference is the error from wazero, or nil.
	Reference error

	// Funcs is the number of instantiated functions when Ours is nil.
	Funcs int

	// Custom section names seen by each side, excluding "name".
	Customs    []string
	RefCustoms []string
}

// Agree reports whether both sides accepted or both rejected the module,
// and when both accepted, whether they saw the same custom sections.
func (v *Verdict) Agree() bool {
	if (v.Ours == nil) != (v.Reference == nil) {
		return false
	}
	if v.Ours != nil {
		return true
	}
	return slices.Equal(v.Customs, v.RefCustoms)
}

// CrossCheck runs data through wasmcore.Load and through wazero.
// Disagreement is reported in the Verdict, not as an error; the error return
// is reserved for a cancelled context.
func (e *WazeroEngine) CrossCheck(ctx context.Context, data []byte) (*Verdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := &Verdict{}
	m, store, err := wasmcore.Load(data, e.cfg.DecodeOptions...)
	if err != nil {
		v.Ours = err
	} else {
		v.Funcs = len(store.Funcs)
		for _, cs := range m.Customs {
			if cs.Name != nameSection {
				v.Customs = append(v.Customs, cs.Name)
			}
		}
	}

	v.RefCustoms, v.Reference = e.compile(ctx, data)

	Logger().Debug("cross check",
		zap.Bool("agree", v.Agree()),
		zap.NamedError("ours", v.Ours),
		zap.NamedError("reference", v.Reference))

	return v, nil
}
