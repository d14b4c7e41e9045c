package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// qualifier matches the package path prefix of a type name inside generic
// type arguments: "github.com/acme/app.User" -> "User".
var qualifier = regexp.MustCompile(`([\w.-]+/)*[\w-]+\.`)

// FriendlyName renders t the way it would be written inside its own package:
// "int", "[]User", "map[string]int", "*Node", "Box[int]".
func FriendlyName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	if name := t.Name(); name != "" {
		if i := strings.IndexByte(name, '['); i >= 0 {
			return name[:i] + qualifier.ReplaceAllString(name[i:], "")
		}
		return name
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + FriendlyName(t.Elem())
	case reflect.Slice:
		return "[]" + FriendlyName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + FriendlyName(t.Elem())
	case reflect.Map:
		return "map[" + FriendlyName(t.Key()) + "]" + FriendlyName(t.Elem())
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return "any"
		}
	case reflect.Struct:
		return "struct"
	}
	return qualifier.ReplaceAllString(t.String(), "")
}

// Dump renders d and its direct properties for debugging:
//
//	User (complex, 3 properties)
//	  ID    UUID       primitive
//	  Name  string     primitive   json:"name"
//	  Tags  []string   collection
func (d *TypeDescriptor) Dump() string {
	var sb strings.Builder

	switch d.kind {
	case Complex:
		fmt.Fprintf(&sb, "%s (%s, %s)\n", d.name, d.kind, pluralizeClient.Pluralize("property", len(d.properties), true))
	case Collection:
		fmt.Fprintf(&sb, "%s (%s of %s)\n", d.name, d.kind, d.elem.name)
	default:
		fmt.Fprintf(&sb, "%s (%s)\n", d.name, d.kind)
	}

	nameWidth, typeWidth := 0, 0
	for _, p := range d.properties {
		nameWidth = max(nameWidth, len(p.name))
		typeWidth = max(typeWidth, len(FriendlyName(p.typ)))
	}
	for _, p := range d.properties {
		fmt.Fprintf(&sb, "  %-*s  %-*s  %s", nameWidth, p.name, typeWidth, FriendlyName(p.typ), p.Kind())
		if p.readOnly {
			sb.WriteString(" readonly")
		}
		for _, a := range p.attrs {
			if a.Kind == MetaTag {
				continue
			}
			fmt.Fprintf(&sb, " %s:%q", a.Kind, a.Raw)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
