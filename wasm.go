package wasmcore

import (
	"github.com/wippyai/wasm-core/runtime"
	"github.com/wippyai/wasm-core/wasm"
)

// Load decodes data, instantiates its functions and then checks the bodies
// structurally. The first failing stage determines the returned error;
// nothing is returned alongside it.
//
// Instantiation runs before Validate so that section disagreements surface
// as the instantiate-phase errors (ErrMissingSection, ErrSectionLength,
// ErrTypeIndexOutOfRange) rather than their validate-phase duplicates.
// Validate still catches what NewStore does not look at: call and local
// indices, unknown opcodes and a missing final end.
func Load(data []byte, opts ...wasm.Option) (*wasm.Module, *runtime.Store, error) {
	m, err := wasm.Decode(data, opts...)
	if err != nil {
		return nil, nil, err
	}
	store, err := runtime.NewStore(m)
	if err != nil {
		return nil, nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	return m, store, nil
}
