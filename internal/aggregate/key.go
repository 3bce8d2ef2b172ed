package aggregate

import (
	"fmt"
	"strings"
)

// PlaceKey identifies a place in the aggregation. Two mentions are the same
// place exactly when their keys are equal.
type PlaceKey string

// KeyFunc maps a place mention to its key.
type KeyFunc func(name string) PlaceKey

// ExactKey keys a mention by its exact text, so "US" and "United States"
// (or "Paris" and "paris") are different places.
func ExactKey(name string) PlaceKey {
	return PlaceKey(name)
}

// CasefoldKey keys a mention by its lowercased text.
func CasefoldKey(name string) PlaceKey {
	return PlaceKey(strings.ToLower(name))
}

// KeyFuncFor returns the KeyFunc for a config key mode.
func KeyFuncFor(mode string) (KeyFunc, error) {
	switch mode {
	case "", "exact":
		return ExactKey, nil
	case "casefold":
		return CasefoldKey, nil
	default:
		return nil, fmt.Errorf("unknown key mode %q", mode)
	}
}
