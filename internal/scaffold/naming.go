package scaffold

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// ErrInvalidName is returned for guard names that cannot produce valid
// identifiers.
var ErrInvalidName = errors.New("invalid guard name")

// ValidateName checks a raw guard name without deriving anything from it.
func ValidateName(raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if !isASCIILetter(rune(name[0])) {
		return fmt.Errorf("%w: %q must start with a letter", ErrInvalidName, name)
	}
	for _, r := range name {
		if isASCIILetter(r) || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == ' ' {
			continue
		}
		return fmt.Errorf("%w: %q contains %q (allowed: letters, digits, '_', '-', ' ')", ErrInvalidName, name, r)
	}
	return nil
}

// Derive computes every identifier for a raw guard name.
func Derive(raw string) (Identifiers, error) {
	if err := ValidateName(raw); err != nil {
		return Identifiers{}, err
	}

	key := ToSnakeCase(raw)
	words := strings.Split(key, "_")
	last := len(words) - 1

	// Pluralising the singular keeps already-plural names stable.
	singular := append([]string(nil), words...)
	singular[last] = inflection.Singular(words[last])
	plural := append([]string(nil), words...)
	plural[last] = inflection.Plural(singular[last])

	studly := ToPascalCase(strings.Join(singular, "_"))
	tablePlural := strings.Join(plural, "_")

	return Identifiers{
		LowerKey:        key,
		TableNameSnake:  key,
		TableNamePlural: tablePlural,
		StudlyClass:     studly,
		ProviderKey:     tablePlural,
		MiddlewareClass: studly + "AuthMiddleware",
		ControllerClass: studly + "AuthController",
		AliasKey:        key + ".auth",
	}, nil
}

// Name transformation helpers

// ToPascalCase converts a snake_case, kebab-case or spaced string to
// PascalCase.
func ToPascalCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = capitalize(strings.ToLower(word))
	}
	return strings.Join(words, "")
}

// capitalize returns the string with the first letter uppercased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ToSnakeCase lowercases s and joins its words with single underscores.
// Case changes inside a word are not treated as boundaries, so "SuperAdmin"
// becomes "superadmin".
func ToSnakeCase(s string) string {
	words := splitWords(strings.ToLower(s))
	return strings.Join(words, "_")
}

// splitWords splits a string on underscores, hyphens and whitespace.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
