// Package errors provides structured error handling for themesync.
//
// Errors are classified by category (for routing and adapter mapping),
// severity (impact), and retry strategy (how callers should respond).
// Construction goes through the fluent ErrorBuilder:
//
//	err := errors.StateError("preference slot is corrupted").
//		WithContext("path", slotPath).
//		Build()
//
// Adapters translate classified errors into CLI exit codes and HTTP
// status codes at the process boundaries.
package errors
