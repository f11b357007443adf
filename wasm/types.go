package wasm

import (
	"fmt"
	"slices"
	"strings"
)

// Module represents a decoded WebAssembly module.
//
// A nil section slice means the section was absent from the binary. The
// decoder always stores a non-nil slice for a section it saw, even when the
// section declares zero entries.
type Module struct {
	Types     []FuncType // Type section
	Functions []uint32   // Function section: one type index per defined function
	Code      []Function // Code section: bodies in the same order as Functions

	// Customs holds custom sections in the order they appeared.
	Customs []CustomSection

	// Skipped records known sections that were stepped over by length.
	Skipped []SkippedSection

	Version uint32
	Magic   [4]byte
}

// NumFuncs returns the number of functions defined by the module.
func (m *Module) NumFuncs() int {
	return len(m.Functions)
}

// FuncType returns the signature of defined function idx.
func (m *Module) FuncType(idx uint32) (FuncType, bool) {
	if int(idx) >= len(m.Functions) {
		return FuncType{}, false
	}
	typeIdx := m.Functions[idx]
	if int(typeIdx) >= len(m.Types) {
		return FuncType{}, false
	}
	return m.Types[typeIdx], true
}

// FuncType represents a WebAssembly function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Equal reports whether two signatures have the same parameter and result
// sequences.
func (ft FuncType) Equal(other FuncType) bool {
	return slices.Equal(ft.Params, other.Params) && slices.Equal(ft.Results, other.Results)
}

func (ft FuncType) String() string {
	return "(" + joinValTypes(ft.Params) + ") -> (" + joinValTypes(ft.Results) + ")"
}

func joinValTypes(ts []ValType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// ValType represents a WebAssembly value type.
// See constants.go for ValI32, ValI64, ValF32 and ValF64.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	default:
		return fmt.Sprintf("valtype(0x%02x)", byte(v))
	}
}

// IsValid reports whether v is one of the value types this decoder accepts.
func (v ValType) IsValid() bool {
	switch v {
	case ValI32, ValI64, ValF32, ValF64:
		return true
	}
	return false
}

// FunctionLocal is a run of Count locals sharing one type, as declared at the
// top of a function body.
type FunctionLocal struct {
	Count uint32
	Type  ValType
}

// Function is a code section entry.
type Function struct {
	Locals []FunctionLocal
	Code   []Instruction // ends with OpEnd
}

// NumLocals returns the total number of declared locals across all groups.
func (f Function) NumLocals() uint64 {
	var n uint64
	for _, l := range f.Locals {
		n += uint64(l.Count)
	}
	return n
}

// CustomSection holds the name and raw payload of a custom section.
type CustomSection struct {
	Name string
	Data []byte
}

// SkippedSection records a section the decoder stepped over by length.
type SkippedSection struct {
	ID     SectionID
	Offset int // absolute offset of the payload
	Size   uint32
}
