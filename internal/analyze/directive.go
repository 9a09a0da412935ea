package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"strconv"
	"strings"
	"unicode"
)

// ErrNoDirective is returned by FindDirective when no directive line exists.
var ErrNoDirective = errors.New("no factory directive")

// ParseDirective parses the text following DirectivePrefix, e.g.
// `model=models.User table="users" no_id`.
func ParseDirective(text string) (Directive, error) {
	tokens, err := splitOptions(text)
	if err != nil {
		return Directive{}, err
	}

	var d Directive

	for _, tok := range tokens {
		key, value, hasValue := strings.Cut(tok, "=")
		if key == "" {
			return Directive{}, fmt.Errorf("option %q has no key", tok)
		}

		if hasValue && strings.HasPrefix(value, `"`) {
			unquoted, err := strconv.Unquote(value)
			if err != nil {
				return Directive{}, fmt.Errorf("option %s: bad quoted value %s", key, value)
			}

			value = unquoted
		}

		d.Options = append(d.Options, Option{Key: key, Value: value, HasValue: hasValue})
	}

	return d, nil
}

// splitOptions splits on white space outside double quotes.
func splitOptions(s string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
		escaped bool
	)

	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case !quoted && unicode.IsSpace(r):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		current.WriteRune(r)
	}

	if quoted {
		return nil, errors.New("unterminated quoted value")
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens, nil
}

// FindDirective returns the directive text of the first directive line in
// the given comment groups.
func FindDirective(groups ...*ast.CommentGroup) (string, error) {
	for _, g := range groups {
		if g == nil {
			continue
		}

		for _, c := range g.List {
			if text, ok := strings.CutPrefix(c.Text, DirectivePrefix); ok {
				return strings.TrimSpace(text), nil
			}
		}
	}

	return "", ErrNoDirective
}
