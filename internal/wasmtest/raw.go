package wasmtest

// Preamble is the magic and version 1 header.
var Preamble = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

// Raw concatenates Preamble with raw section bytes.
func Raw(sections ...[]byte) []byte {
	out := append([]byte(nil), Preamble...)
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

// Section frames payload as a section with the given id. The payload must
// be shorter than 128 bytes.
func Section(id byte, payload ...byte) []byte {
	return append([]byte{id, byte(len(payload))}, payload...)
}

// ImportFunc is a module importing one function "env"."f" of type () -> ().
// It is well formed but rejected by this decoder.
func ImportFunc() []byte {
	return Raw(
		Section(0x01, 0x01, 0x60, 0x00, 0x00),
		Section(0x02, 0x01, 0x03, 'e', 'n', 'v', 0x01, 'f', 0x00, 0x00),
	)
}

// UnknownOpcode is a module whose only body contains the byte 0xFF.
func UnknownOpcode() []byte {
	return Raw(
		Section(0x01, 0x01, 0x60, 0x00, 0x00),
		Section(0x03, 0x01, 0x00),
		Section(0x0A, 0x01, 0x03, 0x00, 0xFF, 0x0B),
	)
}

// MissingCode declares a function but has no code section.
func MissingCode() []byte {
	return Raw(
		Section(0x01, 0x01, 0x60, 0x00, 0x00),
		Section(0x03, 0x01, 0x00),
	)
}
