// Package errors provides structured error types for the wasm-core module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the absolute byte offset for decode failures, a location
// path such as "code.func 2", expected/observed descriptions and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindUnknownOpcode).
//		At(42).
//		Path("code", "func 0").
//		Got("0xfe").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(offset, "varuint32", 1, 0)
//	err := errors.TypeMismatch("i32", "i64")
//
// Sentinels such as ErrTruncated and ErrTypeMismatch match any error with the
// same Phase and Kind through errors.Is.
package errors
