// Package plan turns raw factory declarations into the intermediate
// representation consumed by code generation.
//
// Analysis pipeline, per declaration:
//  1. Validate directive options and apply defaults (id_name, id_type,
//     connection, table).
//  2. Check the model's identifier field when the model type was loaded.
//  3. Classify every field as plain or association using match.Matcher and
//     derive its column or foreign-key name.
//  4. Report declaration errors (bad arity, foreign key on a plain field,
//     unnamed fields, duplicate columns, setter clashes) as diagnostics.
//
// Analysis is pure: it reads analyze.Declaration values and never touches
// the file system or go/types.
package plan
