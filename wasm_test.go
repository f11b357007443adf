package wasmcore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	wasmcore "github.com/wippyai/wasm-core"
	werrors "github.com/wippyai/wasm-core/errors"
	"github.com/wippyai/wasm-core/internal/wasmtest"
	"github.com/wippyai/wasm-core/wasm"
)

func TestLoadCorpus(t *testing.T) {
	for _, f := range wasmtest.Corpus() {
		t.Run(f.Name, func(t *testing.T) {
			m, store, err := wasmcore.Load(f.Bytes())
			require.NoError(t, err)
			require.Equal(t, len(f.Module.Functions), m.NumFuncs())
			require.Len(t, store.Funcs, m.NumFuncs())
		})
	}
}

func TestLoadStages(t *testing.T) {
	bad := wasmtest.Identity()
	bad.Code[0].Code[0] = wasm.LocalGet(5)

	extraFunc := wasmtest.Identity()
	extraFunc.Functions = []uint32{0, 0}

	badType := wasmtest.Identity()
	badType.Functions = []uint32{3}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"decode", []byte("not wasm"), werrors.ErrNotWasm},
		{"decode import", wasmtest.ImportFunc(), werrors.ErrUnsupportedSection},
		{"validate", bad.Encode(), &werrors.Error{Phase: werrors.PhaseValidate, Kind: werrors.KindOutOfBounds}},
		{"instantiate missing code", wasmtest.MissingCode(), werrors.ErrMissingSection},
		{"instantiate body count", extraFunc.Encode(), werrors.ErrSectionLength},
		{"instantiate type index", badType.Encode(), werrors.ErrTypeIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store, err := wasmcore.Load(tt.data)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, m)
			require.Nil(t, store)
		})
	}
}

func TestLoadPassesOptions(t *testing.T) {
	data := wasmtest.Identity().Encode()
	_, _, err := wasmcore.Load(data, wasm.WithMaxModuleSize(len(data)-1))
	require.ErrorIs(t, err, werrors.ErrLimitExceeded)
}
