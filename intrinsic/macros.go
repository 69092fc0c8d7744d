package intrinsic

import _ "embed"

// MacrosFile is the default name of the runtime support file.
const MacrosFile = "macros.jl"

// Macros is the runtime support file: array construction by FORTRAN type name,
// numeric input coercion and helpers for intrinsics with no direct Julia equivalent.
//
//go:embed macros.jl
var Macros string
