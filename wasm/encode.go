package wasm

import (
	"github.com/wippyai/wasm-core/wasm/internal/binary"
)

// Encode encodes the module to WebAssembly binary format.
//
// A section is written when its slice is non-nil, so an empty but present
// section survives a round trip. Custom sections are written after the
// known sections. Skipped sections carry no payload and are not written.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()

	w.WriteBytes(MagicBytes[:])
	version := m.Version
	if version == 0 {
		version = Version
	}
	w.WriteU32LE(version)

	// Type section
	if m.Types != nil {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Types)))
		for _, ft := range m.Types {
			writeFuncType(sec, ft)
		}
		writeSection(w, SectionType, sec.Bytes())
	}

	// Function section
	if m.Functions != nil {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Functions)))
		for _, typeIdx := range m.Functions {
			sec.WriteU32(typeIdx)
		}
		writeSection(w, SectionFunction, sec.Bytes())
	}

	// Code section
	if m.Code != nil {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Code)))
		for _, body := range m.Code {
			sec.WriteSized(encodeFunctionBody(body))
		}
		writeSection(w, SectionCode, sec.Bytes())
	}

	// Custom sections (at end)
	for _, cs := range m.Customs {
		sec := binary.NewWriter()
		sec.WriteName(cs.Name)
		sec.WriteBytes(cs.Data)
		writeSection(w, SectionCustom, sec.Bytes())
	}

	return w.Bytes()
}

func encodeFunctionBody(f Function) []byte {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(f.Locals)))
	for _, local := range f.Locals {
		w.WriteU32(local.Count)
		w.Byte(byte(local.Type))
	}
	for _, in := range f.Code {
		encodeInstruction(w, in)
	}
	return w.Bytes()
}

func writeSection(w *binary.Writer, id SectionID, data []byte) {
	w.Byte(byte(id))
	w.WriteSized(data)
}

func writeValTypes(w *binary.Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}

func writeFuncType(w *binary.Writer, ft FuncType) {
	w.Byte(FuncTypeForm)
	writeValTypes(w, ft.Params)
	writeValTypes(w, ft.Results)
}
