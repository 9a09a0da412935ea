// Package diagnostic provides structured errors, warnings and notes
// produced while analyzing factory declarations.
//
// Key capabilities:
//   - Declaration errors that abort generation for a package
//   - Warnings for declarations that analyze but look suspicious
//   - "did you mean" suggestions for misspelled options
package diagnostic
