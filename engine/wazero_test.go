package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-core/engine"
	werrors "github.com/wippyai/wasm-core/errors"
	"github.com/wippyai/wasm-core/internal/wasmtest"
	"github.com/wippyai/wasm-core/wasm"
)

func newEngine(t *testing.T, cfg *engine.Config) *engine.WazeroEngine {
	t.Helper()
	ctx := context.Background()
	if cfg == nil {
		cfg = &engine.Config{}
	}
	cfg.Interpreter = true
	eng, err := engine.New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close(ctx) })
	return eng
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		cfg  *engine.Config
		name string
	}{
		{nil, "nil config"},
		{&engine.Config{}, "default config"},
		{&engine.Config{Interpreter: true}, "interpreter"},
		{&engine.Config{MemoryLimitPages: 256}, "16MB limit"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng, err := engine.New(ctx, tc.cfg)
			require.NoError(t, err)
			require.NoError(t, eng.Close(ctx))
		})
	}
}

func TestCheckCorpus(t *testing.T) {
	eng := newEngine(t, nil)
	for _, f := range wasmtest.Corpus() {
		t.Run(f.Name, func(t *testing.T) {
			require.NoError(t, eng.Check(context.Background(), f.Bytes()))
		})
	}
}

func TestCheckRejects(t *testing.T) {
	eng := newEngine(t, nil)

	err := eng.Check(context.Background(), []byte("not wasm"))
	var e *werrors.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, werrors.PhaseLoad, e.Phase)
	require.NotNil(t, e.Cause)
}

func TestCrossCheckAgreesOnCorpus(t *testing.T) {
	eng := newEngine(t, nil)
	for _, f := range wasmtest.Corpus() {
		t.Run(f.Name, func(t *testing.T) {
			v, err := eng.CrossCheck(context.Background(), f.Bytes())
			require.NoError(t, err)
			require.NoError(t, v.Ours)
			require.NoError(t, v.Reference)
			require.True(t, v.Agree(), "customs: ours %v, wazero %v", v.Customs, v.RefCustoms)
			require.Equal(t, len(f.Module.Functions), v.Funcs)
		})
	}
}

func TestCrossCheckAgreesOnRejection(t *testing.T) {
	eng := newEngine(t, nil)

	tests := []struct {
		name string
		data []byte
	}{
		{"bad magic", []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
		{"bad version", []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}},
		{"truncated section", wasmtest.Raw([]byte{0x01, 0x05, 0x01})},
		{"unknown opcode", wasmtest.UnknownOpcode()},
		{"missing code", wasmtest.MissingCode()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := eng.CrossCheck(context.Background(), tt.data)
			require.NoError(t, err)
			require.Error(t, v.Ours)
			require.Error(t, v.Reference)
			require.True(t, v.Agree())
		})
	}
}

func TestCrossCheckImportDisagrees(t *testing.T) {
	eng := newEngine(t, nil)

	v, err := eng.CrossCheck(context.Background(), wasmtest.ImportFunc())
	require.NoError(t, err)
	require.ErrorIs(t, v.Ours, werrors.ErrUnsupportedSection)
	require.NoError(t, v.Reference)
	require.False(t, v.Agree())
}

func TestCrossCheckUsesDecodeOptions(t *testing.T) {
	data := wasmtest.Identity().Encode()
	eng := newEngine(t, &engine.Config{
		DecodeOptions: []wasm.Option{wasm.WithMaxModuleSize(len(data) - 1)},
	})

	v, err := eng.CrossCheck(context.Background(), data)
	require.NoError(t, err)
	require.ErrorIs(t, v.Ours, werrors.ErrLimitExceeded)
	require.False(t, v.Agree())
}

func TestCrossCheckCancelled(t *testing.T) {
	eng := newEngine(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.CrossCheck(ctx, wasmtest.Identity().Encode())
	require.ErrorIs(t, err, context.Canceled)
}
