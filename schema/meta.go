package schema

import (
	"reflect"
	"slices"
	"sort"
)

// fieldCandidate is a property found while walking embedded structs. The
// shallowest candidate for a name wins; two at the same depth on different
// paths hide each other, as Go's own field promotion does.
type fieldCandidate struct {
	prop      *PropertyDescriptor
	depth     int
	order     int
	ambiguous bool
}

// embedLevel is a struct reached through a chain of embedded fields.
type embedLevel struct {
	typ    reflect.Type
	index  []int
	offset uintptr
	direct bool
}

// buildProperties enumerates the exported properties of struct type t,
// flattening embedded structs breadth-first. The returned descriptors carry
// everything except their type descriptor, which the caller fills in.
func buildProperties(t reflect.Type, parser *TagParser) []*PropertyDescriptor {
	candidates := make(map[string]*fieldCandidate, t.NumField())
	order := 0

	current := []embedLevel{{typ: t, direct: true}}
	visited := map[reflect.Type]bool{}

	for depth := 0; len(current) > 0; depth++ {
		var next []embedLevel
		for _, lvl := range current {
			if visited[lvl.typ] {
				continue
			}
			for i := 0; i < lvl.typ.NumField(); i++ {
				sf := lvl.typ.Field(i)
				attrs := parser.Parse(sf.Tag)
				skip, readOnly := metaFlags(attrs)
				if skip {
					continue
				}

				index := append(slices.Clone(lvl.index), i)

				if sf.Anonymous {
					ft, viaPtr := sf.Type, false
					if ft.Kind() == reflect.Pointer {
						ft, viaPtr = ft.Elem(), true
					}
					if ft.Kind() == reflect.Struct && !IsPrimitiveType(ft) {
						next = append(next, embedLevel{
							typ:    ft,
							index:  index,
							offset: lvl.offset + sf.Offset,
							direct: lvl.direct && !viaPtr,
						})
						continue
					}
				}
				if !sf.IsExported() {
					continue
				}

				prop := &PropertyDescriptor{
					name:     sf.Name,
					typ:      sf.Type,
					owner:    t,
					index:    index,
					offset:   lvl.offset + sf.Offset,
					direct:   lvl.direct,
					readOnly: readOnly,
					attrs:    attrs,
				}
				addCandidate(candidates, prop, depth, &order)
			}
		}
		// Types seen at this depth dominate any deeper occurrence.
		for _, lvl := range current {
			visited[lvl.typ] = true
		}
		current = next
	}

	sorted := make([]*fieldCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.ambiguous {
			continue
		}
		sorted = append(sorted, cand)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].order < sorted[j].order
	})

	props := make([]*PropertyDescriptor, len(sorted))
	for i, cand := range sorted {
		cand.prop.attrsByKey = groupAttributes(cand.prop.attrs)
		props[i] = cand.prop
	}
	return props
}

func addCandidate(out map[string]*fieldCandidate, prop *PropertyDescriptor, depth int, order *int) {
	cand, exists := out[prop.name]
	if !exists {
		out[prop.name] = &fieldCandidate{prop: prop, depth: depth, order: *order}
		*order++
		return
	}
	if depth > cand.depth {
		return
	}
	// Same depth, different path: neither is promoted.
	if !slices.Equal(cand.prop.index, prop.index) {
		cand.ambiguous = true
	}
}

func groupAttributes(attrs []Attribute) map[string][]Attribute {
	if len(attrs) == 0 {
		return nil
	}
	grouped := make(map[string][]Attribute, len(attrs))
	for _, a := range attrs {
		grouped[a.Kind] = append(grouped[a.Kind], a)
	}
	return grouped
}
