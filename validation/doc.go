// Package validation checks the parameters an operation is bound with.
//
// Violations become configuration errors from the errors package, named
// after the operation that rejected them. Both struct tag validation (using
// the validator library) and programmatic checks are supported.
//
// # Struct Tag Validation
//
//	type chunkParams struct {
//	    Size int `mapstructure:"size" validate:"gte=0"`
//	}
//	err := validation.Operation("chunk", chunkParams{Size: size})
//
// # Programmatic Validation
//
//	err := validation.New("random").
//	    Min("count", n, 1).
//	    Probability("probability", p).
//	    Validate()
package validation
