package vault

import "errors"

var (
	// ErrRecipeIncomplete is returned by Unwrap when the recipe has no salt
	// or no iv.
	ErrRecipeIncomplete = errors.New("recipe missing salt or iv")

	// ErrRecipeVersion is returned for a recipe version this build does
	// not know.
	ErrRecipeVersion = errors.New("unsupported recipe version")

	// ErrRecipeInvalid is returned for unknown algorithm ids or parameters
	// outside the supported range.
	ErrRecipeInvalid = errors.New("invalid recipe")
)
