package datamodel

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tree is a plain, ordered copy of the model. Values are string, *Tree or
// []*Tree; no access rules travel with it.
type Tree struct {
	keys   []string
	values map[string]any
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{values: map[string]any{}}
}

// Set stores value under key, keeping first insertion order.
func (t *Tree) Set(key string, value any) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Keys returns keys in insertion order.
func (t *Tree) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Value returns the value stored under key.
func (t *Tree) Value(key string) (any, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Lookup follows a dotted path through nested trees and collection indexes.
func (t *Tree) Lookup(path string) (any, bool) {
	var current any = t
	for _, seg := range splitPath(path) {
		switch node := current.(type) {
		case *Tree:
			v, ok := node.values[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []*Tree:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Map converts the tree to plain maps and slices, as decoded JSON would be.
func (t *Tree) Map() map[string]any {
	out := make(map[string]any, len(t.keys))
	for _, key := range t.keys {
		out[key] = plain(t.values[key])
	}
	return out
}

func plain(v any) any {
	switch node := v.(type) {
	case *Tree:
		return node.Map()
	case []*Tree:
		items := make([]any, len(node))
		for i, item := range node {
			items[i] = item.Map()
		}
		return items
	default:
		return v
	}
}

// MarshalJSON writes the tree as a JSON object in key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(t.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the tree as a YAML mapping in key order.
func (t *Tree) MarshalYAML() (any, error) {
	return t.yamlNode(), nil
}

func (t *Tree) yamlNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range t.keys {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key})
		switch v := t.values[key].(type) {
		case *Tree:
			node.Content = append(node.Content, v.yamlNode())
		case []*Tree:
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for _, item := range v {
				seq.Content = append(seq.Content, item.yamlNode())
			}
			node.Content = append(node.Content, seq)
		case string:
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
		}
	}
	return node
}

// Snapshot copies every public value of the model. Write-only values are
// included; keywords and members whose name starts with "_" are not.
func (m *Model) Snapshot() *Tree {
	out := NewTree()
	for _, member := range m.schema.root.Members {
		if child, ok := m.root.members[member.Name].(*Container); ok {
			out.Set(member.Name, m.snapshotContainer(child, member.Name))
		}
	}
	return out
}

func (m *Model) snapshotContainer(c *Container, path string) *Tree {
	out := NewTree()
	for _, member := range c.spec.Members {
		if strings.HasPrefix(member.Name, "_") {
			continue
		}
		memberPath := path + "." + member.Name
		if _, off := m.unimplemented(memberPath); off {
			continue
		}
		switch n := c.members[member.Name].(type) {
		case *Leaf:
			value, err := readMember(c, memberPath, member.Name, SerializeMode)
			if err != nil {
				continue
			}
			out.Set(member.Name, value)
		case *Container:
			if len(n.spec.Members) == 0 {
				continue
			}
			out.Set(member.Name, m.snapshotContainer(n, memberPath))
		case *Collection:
			items := make([]*Tree, len(n.items))
			for i, item := range n.items {
				items[i] = m.snapshotContainer(item, memberPath+"."+strconv.Itoa(i))
			}
			out.Set(member.Name, items)
		}
	}
	return out
}
