// Package definition builds pipelines from declarative YAML documents.
//
// A definition names an ordered list of steps. Each step refers to an
// operation registered in a Registry and carries the parameters it is bound
// with:
//
//	name: words
//	includes: [trimmed]
//	steps:
//	  - op: explode
//	    params: {separators: [" "]}
//	  - op: distinct
//
// Parameters are decoded with mapstructure (weakly typed, unknown keys
// rejected) and checked by the validation package, so a definition fails the
// same way the equivalent fluent calls would. Included definitions are
// resolved first, in order, through a Loader.
//
// Unknown operations and missing definitions fail with NOT_FOUND, malformed
// documents and include cycles with INVALID_DEFINITION, and bad parameters
// with CONFIGURATION_ERROR.
package definition
