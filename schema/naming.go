package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// Key naming for map conversion of descriptors.

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy turns a property into the key it is stored under when an
// object is converted into a map.
type NamingStrategy interface {
	KeyName(p *PropertyDescriptor) string
}

// =========================================================================
// Case Strategies
// =========================================================================

// KeyNamingType represents different key naming conventions.
type KeyNamingType int

const (
	KeyVerbatim   KeyNamingType = iota // UserID, FirstName
	KeySnakeCase                       // user_id, first_name
	KeyCamelCase                       // userId, firstName
	KeyPascalCase                      // UserId, FirstName
)

// caseNamingStrategy renames properties by case convention.
type caseNamingStrategy struct {
	namingType KeyNamingType
}

// NewKeyNamingStrategy creates a case based naming strategy.
func NewKeyNamingStrategy(namingType KeyNamingType) NamingStrategy {
	return &caseNamingStrategy{namingType: namingType}
}

func (c *caseNamingStrategy) KeyName(p *PropertyDescriptor) string {
	return ConvertCase(p.Name(), c.namingType)
}

// ConvertCase converts name to the given convention.
func ConvertCase(name string, namingType KeyNamingType) string {
	switch namingType {
	case KeySnakeCase:
		return toSnakeCase(name)
	case KeyCamelCase:
		return toCamelCase(name)
	case KeyPascalCase:
		return toPascalCase(name)
	default:
		return name
	}
}

// =========================================================================
// Attribute Strategy
// =========================================================================

// attributeNamingStrategy takes the key from an attribute name, such as the
// name part of a json tag, and defers to a fallback otherwise.
type attributeNamingStrategy struct {
	kind     string
	fallback NamingStrategy
}

// NewAttributeNamingStrategy names keys after the first attribute of the
// given kind: with kind "json", `json:"user_id"` yields "user_id". Properties
// without a usable attribute are named by fallback, or verbatim when nil.
func NewAttributeNamingStrategy(kind string, fallback NamingStrategy) NamingStrategy {
	if fallback == nil {
		fallback = NewKeyNamingStrategy(KeyVerbatim)
	}
	return &attributeNamingStrategy{kind: kind, fallback: fallback}
}

func (a *attributeNamingStrategy) KeyName(p *PropertyDescriptor) string {
	if attr, ok := p.Attribute(a.kind); ok && attr.Name != "" && attr.Name != "-" {
		return attr.Name
	}
	return a.fallback.KeyName(p)
}

// ParseKeyNaming resolves a case convention from its configuration name.
func ParseKeyNaming(name string) (KeyNamingType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "verbatim":
		return KeyVerbatim, true
	case "snake":
		return KeySnakeCase, true
	case "camel":
		return KeyCamelCase, true
	case "pascal":
		return KeyPascalCase, true
	}
	return KeyVerbatim, false
}

// NamingStrategyByName resolves a case strategy from its configuration name,
// as accepted by ParseKeyNaming. Attribute based naming has no configuration
// name; build it with NewAttributeNamingStrategy.
func NamingStrategyByName(name string) (NamingStrategy, bool) {
	namingType, ok := ParseKeyNaming(name)
	if !ok {
		return nil, false
	}
	return NewKeyNamingStrategy(namingType), true
}

// =========================================================================
// Core Conversion Functions
// =========================================================================

// toSnakeCase converts any naming convention to snake_case.
// Handles acronyms and digits: "UserID" -> "user_id", "HTTPServer" -> "http_server".
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	// Handle special common cases for performance
	switch name {
	case "ID":
		return "id"
	case "UUID":
		return "uuid"
	case "URL":
		return "url"
	case "API":
		return "api"
	case "JSON":
		return "json"
	}

	// If already snake_case (contains underscores and no uppercase), return as-is
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 10)

	runes := []rune(name)

	for i, r := range runes {
		needsUnderscore := false

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]

			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				needsUnderscore = true
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				needsUnderscore = true
			}
		}

		if needsUnderscore {
			result.WriteByte('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// toCamelCase converts any naming convention to camelCase.
func toCamelCase(name string) string {
	pascal := toPascalCase(name)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// toPascalCase converts any naming convention to PascalCase.
func toPascalCase(name string) string {
	if name == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(name))

	for _, part := range strings.Split(toSnakeCase(name), "_") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		result.WriteString(string(runes))
	}

	return result.String()
}

// hasUpperCase returns true if the string contains any uppercase letters.
func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
