package datamodel

import (
	"strconv"
	"strings"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
)

const (
	keywordChildren = "_children"
	keywordCount    = "_count"
	targetPrefix    = "{target="
)

// attachment is an item created during a Set, appended only once the whole
// Set succeeds.
type attachment struct {
	coll *Collection
	item *Container
}

// Get reads the element at path. An empty path reads as "" without error.
func (m *Model) Get(path string, mode Mode) (string, error) {
	if path == "" {
		return "", nil
	}
	if prefix, ok := m.unimplemented(path); ok {
		return "", errcode.Newf(errcode.NotImplementedElement, path, "%s is not implemented", prefix)
	}

	segs := splitPath(path)
	var node Node = m.root
	for i, seg := range segs {
		last := i == len(segs)-1
		switch n := node.(type) {
		case *Container:
			if n.spec.Target != nil && strings.HasPrefix(seg, targetPrefix) {
				id, err := parseTarget(path, segs[i:])
				if err != nil {
					return "", err
				}
				return n.spec.Target(id), nil
			}
			if last {
				return readMember(n, path, seg, mode)
			}
			child, ok := n.members[seg]
			if !ok {
				return "", unknownElement(path)
			}
			node = child
		case *Collection:
			if last {
				return readCollection(n, path, seg)
			}
			idx, ok := parseIndex(seg)
			if !ok {
				return "", unknownElement(path)
			}
			if idx >= len(n.items) {
				return "", errcode.Newf(errcode.GeneralGetFailure, path, "index %d is out of range, collection has %d items", idx, len(n.items))
			}
			node = n.items[idx]
		case *Leaf:
			return "", leafSuffixError(path, seg, last, false)
		}
	}
	return "", unknownElement(path)
}

// Set writes value at path, creating at most one new item per collection
// on the way. A failed Set leaves the model untouched.
func (m *Model) Set(path, value string, state lifecycle.State) error {
	if path == "" {
		return nil
	}
	if prefix, ok := m.unimplemented(path); ok {
		return errcode.Newf(errcode.NotImplementedElement, path, "%s is not implemented", prefix)
	}

	segs := splitPath(path)
	var node Node = m.root
	var pending []attachment
	for i, seg := range segs {
		last := i == len(segs)-1
		switch n := node.(type) {
		case *Container:
			if n.spec.Target != nil && strings.HasPrefix(seg, targetPrefix) {
				if _, err := parseTarget(path, segs[i:]); err != nil {
					return err
				}
				return errcode.Newf(errcode.ReadOnlyElement, path, "target lookups are read only")
			}
			if last {
				if err := writeMember(n, path, seg, value, state); err != nil {
					return err
				}
				for _, a := range pending {
					a.coll.items = append(a.coll.items, a.item)
				}
				return nil
			}
			child, ok := n.members[seg]
			if !ok {
				return unknownElement(path)
			}
			if err := checkDependencies(n, path, seg); err != nil {
				return err
			}
			node = child
		case *Collection:
			if last {
				return writeCollection(path, seg)
			}
			idx, ok := parseIndex(seg)
			if !ok {
				return unknownElement(path)
			}
			switch {
			case idx < len(n.items):
				node = n.items[idx]
			case idx == len(n.items):
				item, err := m.schema.newItem(strings.Join(segs[:i], "."), n)
				if err != nil {
					return err
				}
				pending = append(pending, attachment{coll: n, item: item})
				node = item
			default:
				return errcode.Newf(errcode.GeneralSetFailure, path, "index %d skips past the end of a collection with %d items", idx, len(n.items))
			}
		case *Leaf:
			return leafSuffixError(path, seg, last, true)
		}
	}
	return unknownElement(path)
}

func readMember(c *Container, path, name string, mode Mode) (string, error) {
	switch name {
	case keywordChildren:
		if c.spec.Children == "" {
			return "", errcode.Newf(errcode.ElementCannotHaveChildren, path, "element does not support _children")
		}
		return c.spec.Children, nil
	case keywordCount:
		return "", errcode.Newf(errcode.ElementCannotHaveCount, path, "element is not a collection")
	}
	node, ok := c.members[name]
	if !ok {
		return "", unknownElement(path)
	}
	leaf, ok := node.(*Leaf)
	if !ok {
		return "", errcode.Newf(errcode.GeneralGetFailure, path, "element is not a value")
	}
	if kind := readKind(leaf.field.Access, mode); kind != errcode.NoError {
		return "", errcode.Newf(kind, path, "element is write only")
	}
	if leaf.field.Derive != nil {
		return leaf.field.Derive(c, leaf.value), nil
	}
	return leaf.value, nil
}

func readCollection(c *Collection, path, seg string) (string, error) {
	switch seg {
	case keywordCount:
		return strconv.Itoa(len(c.items)), nil
	case keywordChildren:
		if c.spec.Children == "" {
			return "", errcode.Newf(errcode.ElementCannotHaveChildren, path, "collection does not support _children")
		}
		return c.spec.Children, nil
	}
	if _, ok := parseIndex(seg); ok {
		return "", errcode.Newf(errcode.GeneralGetFailure, path, "element is not a value")
	}
	return "", unknownElement(path)
}

func writeMember(c *Container, path, name, value string, state lifecycle.State) error {
	if name == keywordChildren || name == keywordCount {
		return errcode.Newf(errcode.ElementIsKeyword, path, "element is a keyword")
	}
	node, ok := c.members[name]
	if !ok {
		return unknownElement(path)
	}
	leaf, ok := node.(*Leaf)
	if !ok {
		return errcode.Newf(errcode.GeneralSetFailure, path, "element is not a value")
	}
	if kind := writeKind(leaf.field.Access, state); kind != errcode.NoError {
		return errcode.Newf(kind, path, "element is read only")
	}
	if err := checkDependencies(c, path, name); err != nil {
		return err
	}
	if format := leaf.field.Format; format != nil {
		switch kind := format(value); kind {
		case errcode.NoError:
		case errcode.ValueOutOfRange:
			return errcode.Newf(kind, path, "value %q is out of range", value)
		default:
			return errcode.Newf(kind, path, "value %q does not match the element format", value)
		}
	}
	leaf.value = value
	leaf.set = true
	return nil
}

func writeCollection(path, seg string) error {
	if seg == keywordCount || seg == keywordChildren {
		return errcode.Newf(errcode.ElementIsKeyword, path, "element is a keyword")
	}
	if _, ok := parseIndex(seg); ok {
		return errcode.Newf(errcode.GeneralSetFailure, path, "element is not a value")
	}
	return unknownElement(path)
}

func checkDependencies(c *Container, path, name string) error {
	for _, on := range c.spec.requirementsFor(name) {
		if !c.isSet(on) {
			return errcode.Newf(errcode.DependencyNotEstablished, path, "%s must be set before %s", on, name)
		}
	}
	return nil
}

// leafSuffixError reports a path that continues past a scalar leaf.
func leafSuffixError(path, seg string, last, write bool) error {
	if last {
		switch {
		case write && (seg == keywordChildren || seg == keywordCount):
			return errcode.Newf(errcode.ElementIsKeyword, path, "element is a keyword")
		case seg == keywordChildren:
			return errcode.Newf(errcode.ElementCannotHaveChildren, path, "element does not support _children")
		case seg == keywordCount:
			return errcode.Newf(errcode.ElementCannotHaveCount, path, "element is not a collection")
		}
	}
	return unknownElement(path)
}

func parseTarget(path string, rest []string) (string, error) {
	token := strings.Join(rest, ".")
	if !strings.HasPrefix(token, targetPrefix) || !strings.HasSuffix(token, "}") {
		return "", unknownElement(path)
	}
	id := strings.TrimSuffix(strings.TrimPrefix(token, targetPrefix), "}")
	if id == "" {
		return "", unknownElement(path)
	}
	return id, nil
}

func parseIndex(seg string) (int, bool) {
	if !isIndex(seg) {
		return 0, false
	}
	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return idx, true
}

func unknownElement(path string) error {
	return errcode.Newf(errcode.UnknownElement, path, "undefined data model element")
}
