package wasm

// Version is the supported WebAssembly binary format version.
const Version uint32 = 0x01

// MagicBytes is the module preamble tag as it appears on the wire.
var MagicBytes = [4]byte{0x00, 0x61, 0x73, 0x6D}

// FuncTypeForm introduces every entry of the type section.
const FuncTypeForm byte = 0x60

// Value type encodings as defined in the WebAssembly binary format.
const (
	ValI32 ValType = 0x7F // 32-bit integer
	ValI64 ValType = 0x7E // 64-bit integer
	ValF32 ValType = 0x7D // 32-bit float
	ValF64 ValType = 0x7C // 64-bit float
)

// Section IDs define the binary identifiers for each module section.
// Sections must appear in canonical order (except custom sections).
const (
	SectionCustom    SectionID = 0  // Custom section (can appear anywhere)
	SectionType      SectionID = 1  // Type section (function signatures)
	SectionImport    SectionID = 2  // Import section
	SectionFunction  SectionID = 3  // Function section (type indices)
	SectionTable     SectionID = 4  // Table section
	SectionMemory    SectionID = 5  // Memory section
	SectionGlobal    SectionID = 6  // Global section
	SectionExport    SectionID = 7  // Export section
	SectionStart     SectionID = 8  // Start section
	SectionElement   SectionID = 9  // Element section
	SectionCode      SectionID = 10 // Code section (function bodies)
	SectionData      SectionID = 11 // Data section
	SectionDataCount SectionID = 12 // Data count section (bulk memory)
)

// Opcodes understood by the instruction decoder.
const (
	OpUnreachable Opcode = 0x00
	OpNop         Opcode = 0x01
	OpEnd         Opcode = 0x0B
	OpReturn      Opcode = 0x0F
	OpCall        Opcode = 0x10
	OpDrop        Opcode = 0x1A
	OpLocalGet    Opcode = 0x20
	OpLocalSet    Opcode = 0x21
	OpLocalTee    Opcode = 0x22
	OpI32Const    Opcode = 0x41
	OpI64Const    Opcode = 0x42
	OpI32Add      Opcode = 0x6A
	OpI64Add      Opcode = 0x7C
)
