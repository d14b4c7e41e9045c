package schema

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// MetaTag is the struct tag key the engine itself reads. Every other tag key
// is carried as an opaque attribute.
//
//	Name  string `meta:"readonly"` // no setter is offered
//	Cache []byte `meta:"-"`        // not a property
const MetaTag = "meta"

// Attribute is one struct-tag entry attached to a property. Kind is the tag
// key; entries are grouped by kind in declaration order.
//
// Two value syntaxes are recognized:
//
//	`json:"name,omitempty"`        // Name "name", Options ["omitempty"]
//	`db:"column:id;primary"`       // Name "", Options ["column:id", "primary"]
type Attribute struct {
	Kind    string
	Name    string
	Options []string
	Raw     string
}

// HasOption reports whether opt is one of the attribute's options.
func (a Attribute) HasOption(opt string) bool {
	for _, o := range a.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Option returns the value of a key:value option.
func (a Attribute) Option(key string) (string, bool) {
	prefix := key + ":"
	for _, o := range a.Options {
		if strings.HasPrefix(o, prefix) {
			return strings.TrimSpace(o[len(prefix):]), true
		}
	}
	return "", false
}

// TagParser parses struct tags into attributes and caches results by raw tag,
// since the same tag strings recur across fields and types.
type TagParser struct {
	cache   map[reflect.StructTag][]Attribute
	cacheMu sync.RWMutex
}

// NewTagParser creates a tag parser with an empty cache.
func NewTagParser() *TagParser {
	return &TagParser{
		cache: make(map[reflect.StructTag][]Attribute, 128),
	}
}

// Parse splits tag into attributes in declaration order. Malformed trailing
// content is ignored, matching reflect.StructTag.Lookup. The returned slice is
// shared and must not be modified.
func (p *TagParser) Parse(tag reflect.StructTag) []Attribute {
	if tag == "" {
		return nil
	}

	p.cacheMu.RLock()
	if cached, ok := p.cache[tag]; ok {
		p.cacheMu.RUnlock()
		return cached
	}
	p.cacheMu.RUnlock()

	attrs := parseTag(string(tag))

	p.cacheMu.Lock()
	p.cache[tag] = attrs
	p.cacheMu.Unlock()

	return attrs
}

// CacheSize returns the number of cached tag strings.
func (p *TagParser) CacheSize() int {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	return len(p.cache)
}

// ClearCache drops every cached parse result.
func (p *TagParser) ClearCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	clear(p.cache)
}

// parseTag walks the conventional `key:"value" key2:"value2"` format.
func parseTag(tag string) []Attribute {
	var attrs []Attribute
	for tag != "" {
		// Skip leading space.
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		// Scan to colon. A space, a quote or a control character is a syntax error.
		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		key := tag[:i]
		tag = tag[i+1:]

		// Scan quoted string to find value.
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		quoted := tag[:i+1]
		tag = tag[i+1:]

		value, err := strconv.Unquote(quoted)
		if err != nil {
			break
		}
		attrs = append(attrs, newAttribute(key, value))
	}
	return attrs
}

func newAttribute(kind, value string) Attribute {
	attr := Attribute{Kind: kind, Raw: value}
	switch {
	case value == "-":
		attr.Name = "-"
	case strings.ContainsAny(value, ";:"):
		for _, opt := range strings.Split(value, ";") {
			if opt = strings.TrimSpace(opt); opt != "" {
				attr.Options = append(attr.Options, opt)
			}
		}
	default:
		parts := strings.Split(value, ",")
		attr.Name = strings.TrimSpace(parts[0])
		for _, opt := range parts[1:] {
			if opt = strings.TrimSpace(opt); opt != "" {
				attr.Options = append(attr.Options, opt)
			}
		}
	}
	return attr
}

// metaFlags extracts the engine's own directives from the meta attributes.
func metaFlags(attrs []Attribute) (skip, readOnly bool) {
	for _, a := range attrs {
		if a.Kind != MetaTag {
			continue
		}
		if a.Name == "-" {
			skip = true
		}
		if a.Name == "readonly" || a.HasOption("readonly") {
			readOnly = true
		}
	}
	return skip, readOnly
}
