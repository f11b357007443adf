package runtime

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/wasm-core/errors"
	"github.com/wippyai/wasm-core/wasm"
)

// Value is a tagged runtime value. The zero Value is invalid; construct
// values with I32, I64 or ValueOf.
type Value struct {
	bits uint64
	typ  wasm.ValType
}

// I32 returns an i32 value.
func I32(v int32) Value {
	return Value{bits: uint64(uint32(v)), typ: wasm.ValI32}
}

// I64 returns an i64 value.
func I64(v int64) Value {
	return Value{bits: uint64(v), typ: wasm.ValI64}
}

// Integer is the set of native types a Value converts to and from.
type Integer interface {
	~int32 | ~int64
}

// ValueOf returns the Value whose tag matches the width of T.
func ValueOf[T Integer](v T) Value {
	if isWide[T]() {
		return I64(int64(v))
	}
	return I32(int32(v))
}

// As converts v to T, failing when the tag does not match the width of T.
func As[T Integer](v Value) (T, error) {
	if isWide[T]() {
		n, err := v.Int64()
		return T(n), err
	}
	n, err := v.Int32()
	return T(n), err
}

func isWide[T Integer]() bool {
	var zero T
	return unsafe.Sizeof(zero) == 8
}

// Type returns the value's tag.
func (v Value) Type() wasm.ValType {
	return v.typ
}

// Int32 returns the value as an int32.
func (v Value) Int32() (int32, error) {
	if v.typ != wasm.ValI32 {
		return 0, errors.TypeMismatch(wasm.ValI32.String(), v.typ.String())
	}
	return int32(uint32(v.bits)), nil
}

// Int64 returns the value as an int64.
func (v Value) Int64() (int64, error) {
	if v.typ != wasm.ValI64 {
		return 0, errors.TypeMismatch(wasm.ValI64.String(), v.typ.String())
	}
	return int64(v.bits), nil
}

func (v Value) String() string {
	switch v.typ {
	case wasm.ValI32:
		return fmt.Sprintf("i32:%d", int32(uint32(v.bits)))
	case wasm.ValI64:
		return fmt.Sprintf("i64:%d", int64(v.bits))
	default:
		return "invalid"
	}
}

// Add returns lhs + rhs, wrapping at the operands' bit width.
// Operands with different tags are a type mismatch.
func Add(lhs, rhs Value) (Value, error) {
	if lhs.typ != rhs.typ {
		return Value{}, errors.TypeMismatch(lhs.typ.String(), rhs.typ.String())
	}
	switch lhs.typ {
	case wasm.ValI32:
		return I32(int32(uint32(lhs.bits) + uint32(rhs.bits))), nil
	case wasm.ValI64:
		return I64(int64(lhs.bits + rhs.bits)), nil
	default:
		return Value{}, errors.Unsupported(errors.PhaseRuntime, "add on "+lhs.typ.String())
	}
}

// MustAdd is like Add but panics on a type mismatch.
func MustAdd(lhs, rhs Value) Value {
	v, err := Add(lhs, rhs)
	if err != nil {
		panic(err)
	}
	return v
}

// ZeroValue returns the initial value of a local of type t.
func ZeroValue(t wasm.ValType) (Value, error) {
	switch t {
	case wasm.ValI32:
		return I32(0), nil
	case wasm.ValI64:
		return I64(0), nil
	default:
		return Value{}, errors.Unsupported(errors.PhaseRuntime, "locals of type "+t.String())
	}
}

// NewLocals builds the locals frame for a call to fn: args followed by a
// zero value for every declared local. Each argument must carry the type
// of its parameter.
func NewLocals(fn *InternalFuncInst, args []Value) ([]Value, error) {
	params := fn.Type.Params
	if len(args) != len(params) {
		e := errors.InvalidInput(errors.PhaseRuntime, "argument count")
		e.Want = fmt.Sprint(len(params))
		e.Got = fmt.Sprint(len(args))
		return nil, e
	}

	locals := make([]Value, 0, len(params)+len(fn.Code.Locals))
	for i, arg := range args {
		if arg.typ != params[i] {
			return nil, errors.TypeMismatch(params[i].String(), arg.typ.String()).
				WithPath(fmt.Sprintf("arg %d", i))
		}
		locals = append(locals, arg)
	}
	for i, t := range fn.Code.Locals {
		z, err := ZeroValue(t)
		if err != nil {
			return nil, fmt.Errorf("local %d: %w", len(params)+i, err)
		}
		locals = append(locals, z)
	}
	return locals, nil
}
