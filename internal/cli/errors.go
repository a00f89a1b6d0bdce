package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrInvalidDuration indicates a minimum duration could not be parsed or
	// is not positive.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidValue indicates a flag or config value has the wrong type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrLanguageWithoutTranscribe indicates --language was given without
	// --transcribe.
	ErrLanguageWithoutTranscribe = errors.New("--language requires --transcribe")
)
