// Package wasm decodes and encodes WebAssembly binary modules.
//
// The decoder covers the part of the binary format needed to instantiate
// functions: the type, function and code sections. Other known sections are
// stepped over by their declared length and recorded in Module.Skipped;
// custom sections are kept with their payload. The import section is
// rejected because it changes the function index space.
//
// # Decoding
//
//	data, _ := os.ReadFile("module.wasm")
//	m, err := wasm.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Limits for untrusted input:
//
//	m, err := wasm.Decode(data,
//	    wasm.WithMaxModuleSize(1<<20),
//	    wasm.WithMaxCount(4096),
//	    wasm.WithMaxLocals(1<<16),
//	    wasm.WithStrictSections(),
//	)
//
// # Errors
//
// All failures are *errors.Error values from the errors package. Match them
// with errors.Is against the sentinels:
//
//	if errors.Is(err, werrors.ErrTruncated) { ... }
//
// The Offset field holds the absolute byte position of the failure and Path
// names the section, function and instruction it occurred in.
//
// # Encoding
//
// Module.Encode writes the decoded sections back out. It is mainly used to
// build test fixtures:
//
//	m := &wasm.Module{
//	    Types:     []wasm.FuncType{{Params: []wasm.ValType{wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}}},
//	    Functions: []uint32{0},
//	    Code:      []wasm.Function{{Code: []wasm.Instruction{wasm.LocalGet(0), wasm.End()}}},
//	}
//	data := m.Encode()
//
// # Validation
//
// Module.Validate checks section agreement and index bounds. It does not
// type-check the operand stack.
package wasm
