package wasm

import (
	"fmt"

	"github.com/wippyai/wasm-core/errors"
	"github.com/wippyai/wasm-core/wasm/internal/binary"
)

// Opcode is the byte identifying an instruction.
// See constants.go for the supported set.
type Opcode byte

// Immediate describes the operand that follows an opcode on the wire.
type Immediate byte

const (
	ImmNone  Immediate = iota
	ImmIndex           // varuint32 local or function index
	ImmI32             // varint32 constant
	ImmI64             // varint64 constant
)

type opInfo struct {
	name  string
	imm   Immediate
	known bool
}

var opTable = func() [256]opInfo {
	var t [256]opInfo
	def := func(op Opcode, name string, imm Immediate) {
		t[op] = opInfo{name: name, imm: imm, known: true}
	}
	def(OpUnreachable, "unreachable", ImmNone)
	def(OpNop, "nop", ImmNone)
	def(OpEnd, "end", ImmNone)
	def(OpReturn, "return", ImmNone)
	def(OpCall, "call", ImmIndex)
	def(OpDrop, "drop", ImmNone)
	def(OpLocalGet, "local.get", ImmIndex)
	def(OpLocalSet, "local.set", ImmIndex)
	def(OpLocalTee, "local.tee", ImmIndex)
	def(OpI32Const, "i32.const", ImmI32)
	def(OpI64Const, "i64.const", ImmI64)
	def(OpI32Add, "i32.add", ImmNone)
	def(OpI64Add, "i64.add", ImmNone)
	return t
}()

// Known reports whether op is in the decoder's opcode table.
func (op Opcode) Known() bool {
	return opTable[op].known
}

// Immediate returns the operand kind that follows op.
func (op Opcode) Immediate() Immediate {
	return opTable[op].imm
}

func (op Opcode) String() string {
	if info := opTable[op]; info.known {
		return info.name
	}
	return fmt.Sprintf("opcode(0x%02x)", byte(op))
}

// Instruction is a decoded instruction. Index carries the operand of
// ImmIndex opcodes and Const the operand of ImmI32/ImmI64 opcodes; both are
// zero otherwise. The flat layout lets an interpreter dispatch on Op with a
// single switch.
type Instruction struct {
	Const int64
	Index uint32
	Op    Opcode
}

// End returns the instruction that terminates a function body.
func End() Instruction { return Instruction{Op: OpEnd} }

// LocalGet returns local.get idx.
func LocalGet(idx uint32) Instruction { return Instruction{Op: OpLocalGet, Index: idx} }

// LocalSet returns local.set idx.
func LocalSet(idx uint32) Instruction { return Instruction{Op: OpLocalSet, Index: idx} }

// LocalTee returns local.tee idx.
func LocalTee(idx uint32) Instruction { return Instruction{Op: OpLocalTee, Index: idx} }

// Call returns call idx.
func Call(idx uint32) Instruction { return Instruction{Op: OpCall, Index: idx} }

// I32Const returns i32.const v.
func I32Const(v int32) Instruction { return Instruction{Op: OpI32Const, Const: int64(v)} }

// I64Const returns i64.const v.
func I64Const(v int64) Instruction { return Instruction{Op: OpI64Const, Const: v} }

// I32Add returns i32.add.
func I32Add() Instruction { return Instruction{Op: OpI32Add} }

// I64Add returns i64.add.
func I64Add() Instruction { return Instruction{Op: OpI64Add} }

func (in Instruction) String() string {
	switch in.Op.Immediate() {
	case ImmIndex:
		return fmt.Sprintf("%s %d", in.Op, in.Index)
	case ImmI32, ImmI64:
		return fmt.Sprintf("%s %d", in.Op, in.Const)
	default:
		return in.Op.String()
	}
}

func decodeInstruction(r *binary.Reader) (Instruction, error) {
	at := r.Position()
	b, err := r.ReadByte()
	if err != nil {
		return Instruction{}, err
	}
	op := Opcode(b)
	if !op.Known() {
		return Instruction{}, errors.New(errors.PhaseDecode, errors.KindUnknownOpcode).
			At(at).
			Got(fmt.Sprintf("0x%02x", b)).
			Value(b).
			Build()
	}

	in := Instruction{Op: op}
	switch op.Immediate() {
	case ImmIndex:
		in.Index, err = r.ReadVarU32()
	case ImmI32:
		var v int32
		v, err = r.ReadVarS32()
		in.Const = int64(v)
	case ImmI64:
		in.Const, err = r.ReadVarS64()
	}
	if err != nil {
		return Instruction{}, err
	}
	return in, nil
}

// decodeExpr reads instructions up to and including the first end.
func decodeExpr(r *binary.Reader) ([]Instruction, error) {
	var code []Instruction
	for {
		if r.EOF() {
			return nil, errors.New(errors.PhaseDecode, errors.KindTruncated).
				At(r.Position()).
				Detail("instruction stream not terminated by end").
				Build()
		}
		in, err := decodeInstruction(r)
		if err != nil {
			return nil, scope(err, fmt.Sprintf("instr %d", len(code)))
		}
		code = append(code, in)
		if in.Op == OpEnd {
			return code, nil
		}
	}
}

// DecodeInstructions decodes a raw expression terminated by end.
// Bytes after the end are reported as a length mismatch.
func DecodeInstructions(code []byte) ([]Instruction, error) {
	r := binary.NewReader(code, 0)
	instrs, err := decodeExpr(r)
	if err != nil {
		return nil, err
	}
	if !r.EOF() {
		return nil, trailingBytes(r, "expression")
	}
	return instrs, nil
}

func encodeInstruction(w *binary.Writer, in Instruction) {
	w.Byte(byte(in.Op))
	switch in.Op.Immediate() {
	case ImmIndex:
		w.WriteU32(in.Index)
	case ImmI32:
		w.WriteS32(int32(in.Const))
	case ImmI64:
		w.WriteS64(in.Const)
	}
}

// EncodeInstructions encodes instructions back to bytecode.
func EncodeInstructions(instrs []Instruction) []byte {
	w := binary.NewWriter()
	for _, in := range instrs {
		encodeInstruction(w, in)
	}
	return w.Bytes()
}
