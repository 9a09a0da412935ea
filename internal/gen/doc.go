// Package gen synthesizes builder code from analyzed declarations.
//
// Generation uses text/template and golang.org/x/tools/imports, which
// formats the output and prunes unused imports. One file is written per
// declaring source file, named after it with the configured suffix.
//
// For each builder the generated file holds:
//   - New<Builder>, returning the builder's defaults
//   - a value-receiver With<Field> setter per plain field
//   - a capability interface per association field, with With<Field>,
//     With<Field>Factory and, for optional fields, Without<Field>
//   - Insert, IdentifierOf (unless no_id) and Create
package gen
