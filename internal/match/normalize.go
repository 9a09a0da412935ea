package match

import (
	"strings"

	"factory-generator/internal/common"
)

// NormalizeIdent folds an identifier for fuzzy comparison: CamelCase and
// snake_case spellings of the same name normalize to the same string.
//   - "foreignKeyName" -> "foreignkeyname"
//   - "foreign_key_name" -> "foreignkeyname"
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(common.TokenizeCamelCase(s), ""))
}
