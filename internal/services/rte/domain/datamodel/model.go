package datamodel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
)

// Options configures a Model.
type Options struct {
	// Unimplemented lists optional element groups (see Schema.Optional)
	// that report NotImplementedElement instead of being served.
	Unimplemented []string
}

// Model is the live data model of one RTE instance. It is not safe for
// concurrent use.
type Model struct {
	schema   *Schema
	root     *Container
	disabled []string
}

// New builds a model with schema defaults.
func New(v scorm.Version, opts Options) (*Model, error) {
	schema, err := SchemaFor(v)
	if err != nil {
		return nil, err
	}
	m := &Model{schema: schema}
	for _, raw := range opts.Unimplemented {
		prefix := strings.TrimSpace(raw)
		if prefix == "" {
			continue
		}
		if !slices.Contains(schema.optional, prefix) {
			return nil, fmt.Errorf("element group %q is not optional in scorm %s", prefix, v)
		}
		m.disabled = append(m.disabled, prefix)
	}
	m.Reset()
	return m, nil
}

// Version returns the schema version of the model.
func (m *Model) Version() scorm.Version {
	return m.schema.version
}

// Reset discards every value and collection item and rebuilds defaults.
func (m *Model) Reset() {
	m.root = newContainer(m.schema.root)
}

// Roots returns the top-level namespaces ("cmi", and "adl" for 2004).
func (m *Model) Roots() []string {
	out := make([]string, 0, len(m.schema.root.Members))
	for _, member := range m.schema.root.Members {
		out = append(out, member.Name)
	}
	return out
}

func (m *Model) unimplemented(path string) (string, bool) {
	for _, prefix := range m.disabled {
		if path == prefix || strings.HasPrefix(path, prefix+".") {
			return prefix, true
		}
	}
	return "", false
}

// Order sorts keys of the container at path into schema declaration order.
// Keys the schema does not know keep their relative order at the end.
func (m *Model) Order(path string, keys []string) []string {
	spec := m.specAt(path)
	out := make([]string, 0, len(keys))
	if spec != nil {
		for _, member := range spec.Members {
			if slices.Contains(keys, member.Name) {
				out = append(out, member.Name)
			}
		}
	}
	for _, key := range keys {
		if !slices.Contains(out, key) {
			out = append(out, key)
		}
	}
	return out
}

// specAt resolves the container spec at a dotted path, skipping index
// segments. It returns nil when the path is not a container.
func (m *Model) specAt(path string) *ContainerSpec {
	spec := m.schema.root
	for _, seg := range splitPath(path) {
		if isIndex(seg) {
			continue
		}
		member, ok := spec.member(seg)
		if !ok {
			return nil
		}
		switch {
		case member.Container != nil:
			spec = member.Container
		case member.Collection != nil:
			spec = m.schema.items[member.Collection.Item]
			if spec == nil {
				return nil
			}
		default:
			return nil
		}
	}
	return spec
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func isIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
