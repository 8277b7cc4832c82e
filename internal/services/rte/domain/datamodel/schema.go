package datamodel

import (
	"fmt"
	"slices"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
)

// Schema is the immutable definition of one version's data model.
type Schema struct {
	version  scorm.Version
	root     *ContainerSpec
	items    map[ItemKind]*ContainerSpec
	optional []string
}

// SchemaFor returns the schema of version v.
func SchemaFor(v scorm.Version) (*Schema, error) {
	switch v {
	case scorm.Version12:
		return schema12, nil
	case scorm.Version2004:
		return schema2004, nil
	default:
		return nil, fmt.Errorf("unsupported scorm version %q", v)
	}
}

// Version returns the schema version.
func (s *Schema) Version() scorm.Version { return s.version }

// Optional returns the element groups a host may leave unimplemented.
func (s *Schema) Optional() []string { return slices.Clone(s.optional) }

type fieldOption func(*Field)

func withDefault(value string) fieldOption {
	return func(f *Field) { f.Default = value }
}

func withFormat(format Format) fieldOption {
	return func(f *Field) { f.Format = format }
}

func withDerive(derive Derive) fieldOption {
	return func(f *Field) { f.Derive = derive }
}

func leaf(name string, access Access, opts ...fieldOption) Member {
	f := &Field{Name: name, Access: access}
	for _, opt := range opts {
		opt(f)
	}
	return Member{Name: name, Field: f}
}

func rw(name string, opts ...fieldOption) Member  { return leaf(name, ReadWrite, opts...) }
func wbi(name string, opts ...fieldOption) Member { return leaf(name, WriteBeforeInit, opts...) }
func ro(name string, opts ...fieldOption) Member  { return leaf(name, ReadOnly, opts...) }
func wo(name string, opts ...fieldOption) Member  { return leaf(name, WriteOnly, opts...) }

func group(name string, spec *ContainerSpec) Member {
	return Member{Name: name, Container: spec}
}

func list(name string, children string, kind ItemKind) Member {
	return Member{Name: name, Collection: &CollectionSpec{Children: children, Item: kind}}
}
