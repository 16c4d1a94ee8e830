package rating

import (
	"errors"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
)

var (
	// ErrInvalidInput is the cause of every error reported for a value the
	// formatter cannot turn into a rating.
	ErrInvalidInput = errors.New("invalid rating input")
	// ErrEmptyInput is returned by Average when no item has a director.
	ErrEmptyInput = errors.New("no rated items with a director")
)

func invalidInput(message string, typeName string) error {
	return ferrors.WrapError(ErrInvalidInput, ferrors.CategoryValidation, message).
		WithContext("type", typeName).
		Build()
}

func emptyInput(total int) error {
	return ferrors.WrapError(ErrEmptyInput, ferrors.CategoryValidation, "average rating").
		WithContext("items", total).
		Build()
}
