package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCardType is returned when a card type is not one of the known variants.
	ErrInvalidCardType = errors.New("invalid card type")

	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardContentEmpty is returned when a card carries no content.
	ErrCardContentEmpty = errors.New("card content cannot be empty")

	// ErrContentTypeMismatch is returned when a card's content variant does not
	// match its declared type.
	ErrContentTypeMismatch = errors.New("card content does not match card type")

	// ErrInvalidLevel is returned when a card level is negative.
	ErrInvalidLevel = errors.New("card level must be greater than or equal to 0")

	// ErrInsufficientChoices is returned when a card's incorrect-answer pool is
	// too small to build a multiple-choice prompt.
	ErrInsufficientChoices = errors.New("not enough incorrect answers for a multiple-choice prompt")

	// ErrInvalidDirection is returned when a testing direction is not 0 or 1.
	ErrInvalidDirection = errors.New("direction must be 0 or 1")
)
