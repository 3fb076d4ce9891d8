/*
Package value describes runtime values as seen through a debugger.

# Overview

A pretty-printer never touches target memory directly. It works through the
Value and Type interfaces, which expose the small set of capabilities every
debugger value API offers:

  - the static and dynamic type of a value
  - named member access
  - reinterpreting a value as another type ("cast")
  - pointer dereference, address and null checks
  - leaf payloads (integers, floats, booleans, strings)

Adapters for a concrete host implement these interfaces. This package ships
one adapter, Node, an in-memory value tree used by the snapshot loader and by
tests.

# Building Values

	vec2 := value.Struct("Dali::Vector2", value.Float("float"))
	v := value.NewStruct(vec2).
	    WithField("x", value.NewScalar(value.Float("float"), 1.5)).
	    WithField("y", value.NewScalar(value.Float("float"), 2.5))

	x, err := v.Field("x")

# Type Names

BasicTypeName mirrors what a debugger does before looking up a printer: it
follows references and typedefs, drops cv-qualifiers and returns the tag of
the resulting type. Pointers, builtins and functions have no tag.
*/
package value
