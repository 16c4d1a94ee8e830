// Package errors provides the classified error primitives used across filmshelf.
//
// A ClassifiedError carries a category, a severity, structured context and an
// optional cause. Errors are built with the fluent ErrorBuilder:
//
//	err := errors.NewError(errors.CategoryTemplate, "execute layout").
//		WithContext("template", name).
//		WithCause(execErr).
//		Build()
//
// The CLI adapter turns a classified error into a log line and an exit code.
package errors
