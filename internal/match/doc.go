// Package match recognizes association fields in factory declarations and
// provides the name helpers used for suggestions.
//
// Field types are parsed into a small tagged tree (Named, Optional, Other)
// and matched structurally against the association grammar:
//
//	AssocType ::= [Qualifier "."] "Association" "[" ModelType "," FactoryType "]"
//	FieldType ::= AssocType | "*" AssocType | AnyOtherType
//
// Key functions:
//   - ParseTypeExpr / ParseTypeString: build the type-expression tree
//   - Matcher.Decompose: extract model, factory and optionality
//   - Suggest: rank "did you mean" candidates by edit distance
package match
