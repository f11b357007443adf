// Package engine wraps wazero as a reference decoder.
//
// wazero implements the full WebAssembly 2.0 binary format with complete
// validation. Compiling the same bytes with it gives a second opinion on
// what this module's decoder accepts:
//
//	eng, err := engine.New(ctx, &engine.Config{Interpreter: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	v, err := eng.CrossCheck(ctx, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !v.Agree() {
//	    fmt.Println("ours:", v.Ours, "wazero:", v.Reference)
//	}
//
// Disagreement is expected for modules outside the supported subset. A
// module with imports is accepted by wazero and rejected here, and a body
// with operand stack type errors is rejected by wazero and accepted here.
package engine
