package repository

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Keys of a repository entry. The required ones are checked in this order.
const (
	keyURL           = "url"
	keyServer        = "server"
	keyPath          = "path"
	keyDefaultBranch = "defaultBranch"
	keyLanguage      = "language"
)

var requiredKeys = []string{keyURL, keyServer, keyPath, keyDefaultBranch}

// Unmarshal decodes a repos document in nested form.
// Empty or null documents yield an empty collection.
func Unmarshal(data []byte) (*Collection, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Decode(&doc)
}

// Decode builds a collection from a parsed YAML node.
func Decode(node *yaml.Node) (*Collection, error) {
	c := NewCollection()

	root := resolve(node)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return c, nil
		}
		root = resolve(root.Content[0])
	}
	switch {
	case root.Kind == 0:
		return c, nil
	case root.Kind == yaml.ScalarNode && root.Tag == "!!null":
		return c, nil
	case root.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("%w: top level must be a mapping (line %d)", ErrMalformed, root.Line)
	}

	entries, err := mappingPairs(root)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		key, val := e.key, e.val
		if val.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: entry %q must be a mapping (line %d)", ErrMalformed, key, val.Line)
		}

		members, err := mappingPairs(val)
		if err != nil {
			return nil, err
		}
		if !isGroupBlock(members) {
			r, err := decodeRepository(key, DefaultGroup, members)
			if err != nil {
				return nil, err
			}
			c.Add(r)
			continue
		}

		c.ensureGroup(key)
		for _, m := range members {
			fields, err := mappingPairs(m.val)
			if err != nil {
				return nil, err
			}
			r, err := decodeRepository(m.key, key, fields)
			if err != nil {
				return nil, err
			}
			c.Add(r)
		}
	}
	return c, nil
}

// isGroupBlock reports whether every value is itself a mapping.
// An empty mapping counts as an empty group.
func isGroupBlock(pairs []pair) bool {
	for _, p := range pairs {
		if p.val.Kind != yaml.MappingNode {
			return false
		}
	}
	return true
}

type pair struct {
	key string
	val *yaml.Node
}

// mappingPairs returns the key/value pairs of m with merge keys (<<)
// expanded. Merged pairs come first; explicit keys override them and,
// within a merge sequence, earlier mappings win.
func mappingPairs(m *yaml.Node) ([]pair, error) {
	var merged, explicit []pair
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], resolve(m.Content[i+1])
		if k.ShortTag() != "!!merge" {
			explicit = append(explicit, pair{key: k.Value, val: v})
			continue
		}

		sources := []*yaml.Node{v}
		if v.Kind == yaml.SequenceNode {
			sources = v.Content
		}
		for _, src := range sources {
			src = resolve(src)
			if src.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: merge value must be a mapping (line %d)", ErrMalformed, src.Line)
			}
			inner, err := mappingPairs(src)
			if err != nil {
				return nil, err
			}
			merged = append(merged, inner...)
		}
	}

	seen := make(map[string]bool, len(explicit))
	for _, p := range explicit {
		seen[p.key] = true
	}
	out := make([]pair, 0, len(merged)+len(explicit))
	for _, p := range merged {
		if seen[p.key] {
			continue
		}
		seen[p.key] = true
		out = append(out, p)
	}
	return append(out, explicit...), nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func decodeRepository(name, group string, pairs []pair) (*Repository, error) {
	fields := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, val := p.key, p.val
		if val.Kind != yaml.ScalarNode {
			continue
		}
		var s string
		if err := val.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: repository %q field %q: %v", ErrMalformed, name, key, err)
		}
		fields[key] = s
	}

	for _, k := range requiredKeys {
		if _, ok := fields[k]; !ok {
			return nil, &MissingFieldError{Field: k, Repo: name, Group: group}
		}
	}

	r, err := New(name, fields[keyURL], fields[keyServer], fields[keyPath], fields[keyDefaultBranch], group)
	if err != nil {
		return nil, err
	}
	r.Language = fields[keyLanguage]
	return r, nil
}

// Marshal encodes c in nested form with two-space indentation.
func Marshal(c *Collection) ([]byte, error) {
	root, err := Encode(c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode builds the nested-form mapping node for c. Default-group
// repositories come first at top level, then each non-empty group.
func Encode(c *Collection) (*yaml.Node, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	seen := make(map[string]string)

	add := func(key, what string, val *yaml.Node) error {
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q is used by both a %s and a %s", ErrRepository, key, prev, what)
		}
		seen[key] = what
		root.Content = append(root.Content, scalar(key), val)
		return nil
	}

	for _, r := range c.ByGroup(DefaultGroup) {
		if err := add(r.Name, "repository", encodeRepository(r)); err != nil {
			return nil, err
		}
	}
	for _, g := range c.Groups() {
		members := c.ByGroup(g)
		if g == DefaultGroup || len(members) == 0 {
			continue
		}
		block := &yaml.Node{Kind: yaml.MappingNode}
		for _, r := range members {
			block.Content = append(block.Content, scalar(r.Name), encodeRepository(r))
		}
		if err := add(g, "group", block); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func encodeRepository(r *Repository) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content,
		scalar(keyURL), scalar(r.URL),
		scalar(keyServer), scalar(string(r.ServerType)),
		scalar(keyPath), scalar(r.LocalPath),
		scalar(keyDefaultBranch), scalar(r.DefaultBranch),
	)
	if r.Language != "" {
		m.Content = append(m.Content, scalar(keyLanguage), scalar(r.Language))
	}
	return m
}

// scalar encodes s as a string node, quoting it when it would otherwise
// read back as a number, bool or null.
func scalar(s string) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(s)
	return n
}
