package datamodel

// Field describes one scalar leaf.
type Field struct {
	Name    string
	Access  Access
	Default string
	Format  Format // nil accepts any value
	Derive  Derive // nil reads the stored value
}

// Member is one named entry of a container spec. Exactly one of Field,
// Container and Collection is set.
type Member struct {
	Name       string
	Field      *Field
	Container  *ContainerSpec
	Collection *CollectionSpec
}

// ContainerSpec describes a fixed group of members.
type ContainerSpec struct {
	// Children is the _children keyword value; empty when unsupported.
	Children string
	Members  []Member
	// Target answers {target=ID} lookups; nil when unsupported.
	Target func(id string) string
	// Requires lists members that need another member set first.
	Requires []Dependency
}

// Dependency requires On to have been set before Member is written. A
// Member of "*" covers every member other than On.
type Dependency struct {
	Member string
	On     string
}

// CollectionSpec describes an indexed list of items.
type CollectionSpec struct {
	// Children is the _children keyword value; empty when unsupported.
	Children string
	Item     ItemKind
}

func (s *ContainerSpec) member(name string) (Member, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

func (s *ContainerSpec) requirementsFor(name string) []string {
	var out []string
	for _, dep := range s.Requires {
		if dep.On == name {
			continue
		}
		if dep.Member == name || dep.Member == "*" {
			out = append(out, dep.On)
		}
	}
	return out
}

// Node is a live model node: *Leaf, *Container or *Collection.
type Node interface {
	node()
}

// Leaf holds one scalar value.
type Leaf struct {
	field *Field
	value string
	set   bool
}

// Container holds the live members of a ContainerSpec.
type Container struct {
	spec    *ContainerSpec
	members map[string]Node
}

// Collection holds items created by the factory, in index order.
type Collection struct {
	spec  *CollectionSpec
	items []*Container
}

func (*Leaf) node()       {}
func (*Container) node()  {}
func (*Collection) node() {}

// Field returns the descriptor of the leaf.
func (l *Leaf) Field() *Field { return l.field }

// Len returns the number of items.
func (c *Collection) Len() int { return len(c.items) }

func newContainer(spec *ContainerSpec) *Container {
	c := &Container{spec: spec, members: make(map[string]Node, len(spec.Members))}
	for _, m := range spec.Members {
		switch {
		case m.Field != nil:
			c.members[m.Name] = &Leaf{field: m.Field, value: m.Field.Default}
		case m.Container != nil:
			c.members[m.Name] = newContainer(m.Container)
		case m.Collection != nil:
			c.members[m.Name] = &Collection{spec: m.Collection}
		}
	}
	return c
}

// leafValue returns the stored value of a leaf reached through a relative
// dotted path such as "score.scaled".
func (c *Container) leafValue(path string) (string, bool) {
	var node Node = c
	for _, seg := range splitPath(path) {
		container, ok := node.(*Container)
		if !ok {
			return "", false
		}
		if node, ok = container.members[seg]; !ok {
			return "", false
		}
	}
	leaf, ok := node.(*Leaf)
	if !ok {
		return "", false
	}
	return leaf.value, true
}

func (c *Container) isSet(name string) bool {
	leaf, ok := c.members[name].(*Leaf)
	return ok && leaf.set
}
