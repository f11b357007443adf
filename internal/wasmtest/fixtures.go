// Package wasmtest builds the binary modules shared by tests.
package wasmtest

import (
	"github.com/wippyai/wasm-core/wasm"
)

var (
	i32 = wasm.ValI32
	i64 = wasm.ValI64
)

// Fixture is a named module that both this decoder and wazero accept.
type Fixture struct {
	Name   string
	Module *wasm.Module
}

// Bytes returns the encoded module.
func (f Fixture) Bytes() []byte {
	return f.Module.Encode()
}

// Sig builds a function type.
func Sig(params, results []wasm.ValType) wasm.FuncType {
	return wasm.FuncType{Params: params, Results: results}
}

// Body builds a function body without locals. An end is appended when code
// does not already finish with one.
func Body(code ...wasm.Instruction) wasm.Function {
	if n := len(code); n == 0 || code[n-1].Op != wasm.OpEnd {
		code = append(code, wasm.End())
	}
	return wasm.Function{Code: code}
}

// Identity is (i32) -> (i32) returning its argument.
func Identity() *wasm.Module {
	return &wasm.Module{
		Types:     []wasm.FuncType{Sig([]wasm.ValType{i32}, []wasm.ValType{i32})},
		Functions: []uint32{0},
		Code:      []wasm.Function{Body(wasm.LocalGet(0))},
	}
}

// AddI32 is (i32, i32) -> (i32) adding its arguments.
func AddI32() *wasm.Module {
	return &wasm.Module{
		Types:     []wasm.FuncType{Sig([]wasm.ValType{i32, i32}, []wasm.ValType{i32})},
		Functions: []uint32{0},
		Code:      []wasm.Function{Body(wasm.LocalGet(0), wasm.LocalGet(1), wasm.I32Add())},
	}
}

// AddI64 is (i64, i64) -> (i64) adding its arguments.
func AddI64() *wasm.Module {
	return &wasm.Module{
		Types:     []wasm.FuncType{Sig([]wasm.ValType{i64, i64}, []wasm.ValType{i64})},
		Functions: []uint32{0},
		Code:      []wasm.Function{Body(wasm.LocalGet(0), wasm.LocalGet(1), wasm.I64Add())},
	}
}

// MixedLocals declares locals i32 x2, i64 x1, i32 x1 and stores into the
// last one.
func MixedLocals() *wasm.Module {
	body := Body(wasm.I32Const(7), wasm.LocalSet(3), wasm.I64Const(-1), wasm.LocalSet(2))
	body.Locals = []wasm.FunctionLocal{
		{Count: 2, Type: i32},
		{Count: 1, Type: i64},
		{Count: 1, Type: i32},
	}
	return &wasm.Module{
		Types:     []wasm.FuncType{Sig(nil, nil)},
		Functions: []uint32{0},
		Code:      []wasm.Function{body},
	}
}

// CallChain defines the identity function and a caller that passes it a
// constant. Both functions share the type section.
func CallChain() *wasm.Module {
	return &wasm.Module{
		Types: []wasm.FuncType{
			Sig([]wasm.ValType{i32}, []wasm.ValType{i32}),
			Sig(nil, []wasm.ValType{i32}),
		},
		Functions: []uint32{0, 1},
		Code: []wasm.Function{
			Body(wasm.LocalGet(0)),
			Body(wasm.I32Const(41), wasm.Call(0)),
		},
	}
}

// Statements exercises the operand-free opcodes.
func Statements() *wasm.Module {
	body := Body(
		wasm.Instruction{Op: wasm.OpNop},
		wasm.I32Const(1),
		wasm.LocalTee(0),
		wasm.Instruction{Op: wasm.OpDrop},
		wasm.Instruction{Op: wasm.OpReturn},
	)
	body.Locals = []wasm.FunctionLocal{{Count: 1, Type: i32}}
	return &wasm.Module{
		Types:     []wasm.FuncType{Sig(nil, nil)},
		Functions: []uint32{0},
		Code:      []wasm.Function{body},
	}
}

// WithCustom is Identity preceded by a custom section.
func WithCustom() *wasm.Module {
	m := Identity()
	m.Customs = []wasm.CustomSection{{Name: "meta", Data: []byte{0x00}}}
	return m
}

// Corpus returns every fixture.
func Corpus() []Fixture {
	return []Fixture{
		{"empty", &wasm.Module{}},
		{"identity", Identity()},
		{"add_i32", AddI32()},
		{"add_i64", AddI64()},
		{"mixed_locals", MixedLocals()},
		{"call_chain", CallChain()},
		{"statements", Statements()},
		{"with_custom", WithCustom()},
	}
}
