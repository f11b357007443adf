// Package wasmcore is the front end of a WebAssembly execution engine: a
// binary decoder and the store that turns decoded functions into
// instances.
//
// # Architecture Overview
//
//	wasmcore/            Root package with the Load pipeline
//	├── wasm/            Binary decoder, encoder and structural validation
//	├── runtime/         Store, function instances and the value model
//	├── engine/          wazero reference engine for cross-checking
//	├── errors/          Structured error types for debugging
//	└── cmd/wasm-inspect Command line inspector
//
// # Quick Start
//
//	data, _ := os.ReadFile("module.wasm")
//	m, store, err := wasmcore.Load(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, fn := range store.Funcs {
//	    fmt.Println(i, fn.FuncType())
//	}
//
// Load runs wasm.Decode, Module.Validate and runtime.NewStore in order.
// Decode options such as wasm.WithMaxModuleSize are passed through.
//
// # Scope
//
// Only the type, function and code sections are decoded. Other known
// sections are skipped by length, and a module with imports is rejected.
// Executing instructions is left to the caller.
package wasmcore
