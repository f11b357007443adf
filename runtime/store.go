package runtime

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-core/errors"
	"github.com/wippyai/wasm-core/wasm"
)

// FuncInst is a function instance owned by a Store.
// Only *InternalFuncInst implements it today; host functions will be a
// second implementation once imports are supported.
type FuncInst interface {
	FuncType() wasm.FuncType
	funcInst()
}

// Func is the executable part of a defined function.
type Func struct {
	// Locals holds one entry per declared local, in declaration order.
	// Parameters are not included.
	Locals []wasm.ValType
	Body   []wasm.Instruction
}

// InternalFuncInst is a function defined by the module itself.
type InternalFuncInst struct {
	Type wasm.FuncType
	Code Func
}

func (f *InternalFuncInst) funcInst() {}

// FuncType returns the function's signature.
func (f *InternalFuncInst) FuncType() wasm.FuncType {
	return f.Type
}

// LocalTypes returns the types of every local slot addressed by local.get
// and friends: parameters first, then declared locals.
func (f *InternalFuncInst) LocalTypes() []wasm.ValType {
	out := make([]wasm.ValType, 0, len(f.Type.Params)+len(f.Code.Locals))
	out = append(out, f.Type.Params...)
	return append(out, f.Code.Locals...)
}

// Store holds the function instances of one instantiated module, indexed
// by function index.
type Store struct {
	Funcs []FuncInst
}

// NewStore instantiates the functions defined by m.
//
// A module without a function section yields an empty store. Otherwise the
// type and code sections must be present, the code section must have one
// body per function, and every type index must be in range.
func NewStore(m *wasm.Module) (*Store, error) {
	s := &Store{}
	if m.Functions == nil {
		Logger().Debug("store built", zap.Int("funcs", 0))
		return s, nil
	}
	if m.Types == nil {
		return nil, errors.MissingSection("type", "function")
	}
	if m.Code == nil {
		return nil, errors.MissingSection("code", "function")
	}
	if len(m.Code) != len(m.Functions) {
		return nil, errors.New(errors.PhaseInstantiate, errors.KindLengthMismatch).
			Path("code").
			Want(fmt.Sprint(len(m.Functions))).
			Got(fmt.Sprint(len(m.Code))).
			Detail("function section declares %d functions, code section has %d bodies",
				len(m.Functions), len(m.Code)).
			Build()
	}

	s.Funcs = make([]FuncInst, len(m.Functions))
	for i, typeIdx := range m.Functions {
		if int(typeIdx) >= len(m.Types) {
			return nil, errors.OutOfBounds(errors.PhaseInstantiate,
				[]string{"function", fmt.Sprint(i)}, int(typeIdx), len(m.Types))
		}
		// The store owns its copies; later edits to m do not reach it.
		ft := m.Types[typeIdx]
		body := m.Code[i]
		s.Funcs[i] = &InternalFuncInst{
			Type: wasm.FuncType{
				Params:  slices.Clone(ft.Params),
				Results: slices.Clone(ft.Results),
			},
			Code: Func{
				Locals: expandLocals(body.Locals),
				Body:   slices.Clone(body.Code),
			},
		}
	}

	Logger().Debug("store built", zap.Int("funcs", len(s.Funcs)))
	return s, nil
}

// Func returns the function instance at idx.
func (s *Store) Func(idx uint32) (FuncInst, error) {
	if int(idx) >= len(s.Funcs) {
		return nil, errors.OutOfBounds(errors.PhaseRuntime, []string{"func"}, int(idx), len(s.Funcs))
	}
	return s.Funcs[idx], nil
}

func expandLocals(groups []wasm.FunctionLocal) []wasm.ValType {
	var n uint64
	for _, g := range groups {
		n += uint64(g.Count)
	}
	if n == 0 {
		return nil
	}
	out := make([]wasm.ValType, 0, n)
	for _, g := range groups {
		for range g.Count {
			out = append(out, g.Type)
		}
	}
	return out
}
