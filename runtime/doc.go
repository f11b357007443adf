// Package runtime instantiates decoded modules and models the values they
// operate on.
//
// # Instantiation
//
// NewStore resolves every defined function against the type and code
// sections of a decoded module:
//
//	m, err := wasm.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store, err := runtime.NewStore(m)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fn, err := store.Func(0)
//
// Each InternalFuncInst carries its signature, its declared locals expanded
// into one ValType per slot, and its instruction sequence. A Store is built
// once and never mutated, so it can be read from several goroutines.
//
// # Values
//
// Value is a tagged i32 or i64. Conversions and arithmetic check the tag and
// return an error wrapping errors.ErrTypeMismatch on a mismatch:
//
//	sum, err := runtime.Add(runtime.I32(5), runtime.I32(7)) // i32 12
//	_, err = runtime.Add(runtime.I32(1), runtime.I64(1))    // type mismatch
//
// MustAdd panics instead, for callers that already validated the module.
//
// # Locals
//
// NewLocals builds the locals frame for one call: arguments checked against
// the parameter types, followed by zero values for each declared local.
package runtime
