package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// initialisms are upper-cased as a whole by GoName.
var initialisms = map[string]struct{}{
	"api": {}, "db": {}, "fk": {}, "html": {}, "http": {}, "id": {}, "ip": {},
	"json": {}, "sql": {}, "uid": {}, "url": {}, "uuid": {}, "xml": {},
}

// SnakeCase converts an identifier to its snake_case column form.
// Examples:
//   - "HomeCity" -> "home_city"
//   - "CountryID" -> "country_id"
//   - "XMLParser" -> "xml_parser"
func SnakeCase(s string) string {
	tokens := TokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return strings.Join(tokens, "_")
}

// GoName converts a column name to an exported Go identifier.
// Examples:
//   - "id" -> "ID"
//   - "home_city_id" -> "HomeCityID"
//   - "identity" -> "Identity"
func GoName(s string) string {
	var b strings.Builder

	for _, t := range TokenizeCamelCase(s) {
		lower := strings.ToLower(t)
		if _, ok := initialisms[lower]; ok {
			b.WriteString(strings.ToUpper(lower))
			continue
		}

		// A Caser keeps state, so each call gets its own.
		b.WriteString(cases.Title(language.Und).String(lower))
	}

	return b.String()
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])

	return string(r)
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}

	r := []rune(s)
	r[0] = unicode.ToLower(r[0])

	return string(r)
}

// Pluralize returns a naive English plural of a snake_case noun.
func Pluralize(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "z"),
		strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}

// TokenizeCamelCase splits a CamelCase, camelCase or snake_case string into tokens.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "customerName" -> ["customer", "Name"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "home_city" -> ["home", "city"]
func TokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		// Handle separators - start a new token
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prevRune := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prevRune)

	// "orderID" -> split before 'I'
	if isUpper && !isPrevUpper && !isSeparator(prevRune) {
		return true
	}

	// "XMLParser" -> "XML" + "Parser", split before 'P'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return isUpper && isPrevUpper && hasNextLower
}
