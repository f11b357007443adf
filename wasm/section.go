package wasm

import (
	"fmt"

	"github.com/wippyai/wasm-core/errors"
	"github.com/wippyai/wasm-core/wasm/internal/binary"
)

// SectionID is the one-byte code that tags a section.
type SectionID byte

func (id SectionID) String() string {
	switch id {
	case SectionCustom:
		return "custom"
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunction:
		return "function"
	case SectionTable:
		return "table"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case SectionStart:
		return "start"
	case SectionElement:
		return "element"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	case SectionDataCount:
		return "datacount"
	default:
		return fmt.Sprintf("section(0x%02x)", byte(id))
	}
}

// SectionPolicy says what the decoder does with a section kind.
type SectionPolicy int

const (
	// PolicyUnknown marks a byte that names no section kind.
	PolicyUnknown SectionPolicy = iota
	// PolicyDecode sections are parsed into the Module.
	PolicyDecode
	// PolicySkip sections are stepped over by their declared length.
	PolicySkip
	// PolicyReject sections must be understood but are not supported.
	PolicyReject
)

// Policy returns how the decoder treats sections with this id.
// Import is rejected because imported functions shift the function index
// space that Functions and Code are aligned to.
func (id SectionID) Policy() SectionPolicy {
	switch id {
	case SectionType, SectionFunction, SectionCode:
		return PolicyDecode
	case SectionCustom, SectionTable, SectionMemory, SectionGlobal, SectionExport,
		SectionStart, SectionElement, SectionData, SectionDataCount:
		return PolicySkip
	case SectionImport:
		return PolicyReject
	default:
		return PolicyUnknown
	}
}

// order returns the canonical position of a non-custom section.
// DataCount sits between Element and Code even though its id is larger.
func (id SectionID) order() int {
	switch id {
	case SectionDataCount:
		return int(SectionElement) + 1
	case SectionCode:
		return int(SectionElement) + 2
	case SectionData:
		return int(SectionElement) + 3
	default:
		return int(id)
	}
}

type sectionHeader struct {
	id     SectionID
	size   uint32
	offset int
}

func decodeSectionHeader(r *binary.Reader) (sectionHeader, error) {
	offset := r.Position()
	id, err := r.ReadByte()
	if err != nil {
		return sectionHeader{}, err
	}
	size, err := r.ReadVarU32()
	if err != nil {
		return sectionHeader{}, scope(err, "section size")
	}
	return sectionHeader{id: SectionID(id), size: size, offset: offset}, nil
}

// scope prefixes path to a structured error.
func scope(err error, path ...string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithPath(path...)
	}
	return err
}

func trailingBytes(r *binary.Reader, what string) error {
	return errors.New(errors.PhaseDecode, errors.KindLengthMismatch).
		At(r.Position()).
		Detail("%d bytes after end of %s", r.Len(), what).
		Build()
}

// readCount reads a vector length and rejects counts that cannot fit in the
// remaining input (every entry takes at least one byte) or that exceed the
// configured ceiling, before anything is allocated.
func readCount(r *binary.Reader, cfg *DecodeConfig, what string) (uint32, error) {
	at := r.Position()
	n, err := r.ReadVarU32()
	if err != nil {
		return 0, scope(err, what+" count")
	}
	if cfg.MaxCount > 0 && n > cfg.MaxCount {
		return 0, errors.New(errors.PhaseDecode, errors.KindLimitExceeded).
			At(at).
			Path(what + " count").
			Detail("count %d exceeds limit %d", n, cfg.MaxCount).
			Value(n).
			Build()
	}
	if uint64(n) > uint64(r.Len()) {
		return 0, errors.New(errors.PhaseDecode, errors.KindTruncated).
			At(at).
			Path(what + " count").
			Detail("count %d exceeds %d remaining bytes", n, r.Len()).
			Value(n).
			Build()
	}
	return n, nil
}

func decodeValType(r *binary.Reader) (ValType, error) {
	at := r.Position()
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	vt := ValType(b)
	if !vt.IsValid() {
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidValueType).
			At(at).
			Got(fmt.Sprintf("0x%02x", b)).
			Value(b).
			Build()
	}
	return vt, nil
}

func decodeValTypes(r *binary.Reader, cfg *DecodeConfig, what string) ([]ValType, error) {
	n, err := readCount(r, cfg, what)
	if err != nil || n == 0 {
		return nil, err
	}
	ts := make([]ValType, n)
	for i := range ts {
		if ts[i], err = decodeValType(r); err != nil {
			return nil, scope(err, fmt.Sprintf("%s %d", what, i))
		}
	}
	return ts, nil
}

func decodeFuncType(r *binary.Reader, cfg *DecodeConfig) (FuncType, error) {
	at := r.Position()
	form, err := r.ReadByte()
	if err != nil {
		return FuncType{}, err
	}
	if form != FuncTypeForm {
		return FuncType{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			At(at).
			Want(fmt.Sprintf("0x%02x", FuncTypeForm)).
			Got(fmt.Sprintf("0x%02x", form)).
			Detail("function type form").
			Build()
	}
	params, err := decodeValTypes(r, cfg, "param")
	if err != nil {
		return FuncType{}, err
	}
	results, err := decodeValTypes(r, cfg, "result")
	if err != nil {
		return FuncType{}, err
	}
	return FuncType{Params: params, Results: results}, nil
}

func decodeTypeSection(r *binary.Reader, cfg *DecodeConfig) ([]FuncType, error) {
	n, err := readCount(r, cfg, "type")
	if err != nil {
		return nil, err
	}
	types := make([]FuncType, n)
	for i := range types {
		if types[i], err = decodeFuncType(r, cfg); err != nil {
			return nil, scope(err, fmt.Sprintf("type %d", i))
		}
	}
	return types, nil
}

func decodeFunctionSection(r *binary.Reader, cfg *DecodeConfig) ([]uint32, error) {
	n, err := readCount(r, cfg, "function")
	if err != nil {
		return nil, err
	}
	idxs := make([]uint32, n)
	for i := range idxs {
		if idxs[i], err = r.ReadVarU32(); err != nil {
			return nil, scope(err, fmt.Sprintf("function %d", i))
		}
	}
	return idxs, nil
}

func decodeCodeSection(r *binary.Reader, cfg *DecodeConfig) ([]Function, error) {
	n, err := readCount(r, cfg, "body")
	if err != nil {
		return nil, err
	}
	funcs := make([]Function, n)
	var locals uint64
	for i := range funcs {
		if funcs[i], err = decodeFunctionBody(r, cfg, &locals); err != nil {
			return nil, scope(err, fmt.Sprintf("func %d", i))
		}
	}
	return funcs, nil
}

// decodeFunctionBody decodes one body entry. moduleLocals carries the
// running local count of the code section.
func decodeFunctionBody(r *binary.Reader, cfg *DecodeConfig, moduleLocals *uint64) (Function, error) {
	size, err := r.ReadVarU32()
	if err != nil {
		return Function{}, scope(err, "body size")
	}
	body, err := r.Sub(int(size))
	if err != nil {
		return Function{}, scope(err, "body")
	}

	groups, err := readCount(body, cfg, "local group")
	if err != nil {
		return Function{}, err
	}
	var locals []FunctionLocal
	if groups > 0 {
		locals = make([]FunctionLocal, groups)
	}
	var total uint64
	for i := range locals {
		at := body.Position()
		count, err := body.ReadVarU32()
		if err != nil {
			return Function{}, scope(err, fmt.Sprintf("local group %d", i))
		}
		total += uint64(count)
		if cfg.MaxCount > 0 && total > uint64(cfg.MaxCount) {
			return Function{}, errors.New(errors.PhaseDecode, errors.KindLimitExceeded).
				At(at).
				Path(fmt.Sprintf("local group %d", i)).
				Detail("%d locals exceed limit %d", total, cfg.MaxCount).
				Build()
		}
		*moduleLocals += uint64(count)
		if cfg.MaxLocals > 0 && *moduleLocals > cfg.MaxLocals {
			return Function{}, errors.New(errors.PhaseDecode, errors.KindLimitExceeded).
				At(at).
				Path(fmt.Sprintf("local group %d", i)).
				Detail("module declares %d locals, limit %d", *moduleLocals, cfg.MaxLocals).
				Value(*moduleLocals).
				Build()
		}
		vt, err := decodeValType(body)
		if err != nil {
			return Function{}, scope(err, fmt.Sprintf("local group %d", i))
		}
		locals[i] = FunctionLocal{Count: count, Type: vt}
	}

	code, err := decodeExpr(body)
	if err != nil {
		return Function{}, err
	}
	if !body.EOF() {
		return Function{}, trailingBytes(body, "function body")
	}
	return Function{Locals: locals, Code: code}, nil
}

func decodeCustomSection(r *binary.Reader) (CustomSection, error) {
	name, err := r.ReadName()
	if err != nil {
		return CustomSection{}, scope(err, "name")
	}
	data := r.ReadRemaining()
	return CustomSection{Name: name, Data: append([]byte(nil), data...)}, nil
}
