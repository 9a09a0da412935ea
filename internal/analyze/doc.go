// Package analyze loads Go packages and extracts factory declarations.
//
// It uses golang.org/x/tools/go/packages with AST and go/types. A factory
// declaration is a struct type preceded by a directive comment:
//
//	//factory:model=models.User table=users id_name=id id_type=int32
//	type UserFactory struct { ... }
//
// Extraction is purely syntactic: option values and field types are kept as
// written and interpreted later by package plan. go/types is only used to
// look up the model struct so its identifier field can be checked.
//
// Key types:
//   - Package: a loaded package with its files and taken identifiers
//   - File: one source file, its imports and declarations
//   - Declaration: a directive, the builder fields and the model, if found
package analyze
