package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// maxYAMLNesting bounds the node walk so that self-referencing aliases can't
// recurse forever.
const maxYAMLNesting = 512

// yamlToJSON re-encodes a YAML document as JSON, keeping mapping keys in the
// order they were written. This papers over the impedance mismatch between
// JSON and YAML unmarshaling: YAML happily produces non-string keys (an
// unquoted response code like `200:` is an integer), which JSON objects can't
// hold, so every key is stringified on the way through.
//
// https://github.com/go-yaml/yaml/issues/139
func yamlToJSON(data []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := writeYAMLNode(&buf, &root, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//
// helpers
//

func writeYAMLNode(buf *bytes.Buffer, n *yaml.Node, nesting int) error {
	if nesting > maxYAMLNesting {
		return fmt.Errorf("yaml nesting deeper than %d levels at line %d", maxYAMLNesting, n.Line)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLNode(buf, n.Content[0], nesting+1)

	case yaml.AliasNode:
		if n.Alias == nil {
			return fmt.Errorf("dangling alias at line %d", n.Line)
		}
		return writeYAMLNode(buf, n.Alias, nesting+1)

	case yaml.MappingNode:
		pairs, err := mappingPairs(n, nesting)
		if err != nil {
			return err
		}
		buf.WriteByte('{')
		for i, pair := range pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, pair.key)
			buf.WriteByte(':')
			if err := writeYAMLNode(buf, pair.value, nesting+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeYAMLNode(buf, item, nesting+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		writeYAMLScalar(buf, n)
		return nil
	}

	return fmt.Errorf("unsupported yaml node kind %v at line %d", n.Kind, n.Line)
}

type yamlPair struct {
	key   string
	value *yaml.Node
}

// mappingPairs returns the effective key/value pairs of a mapping in document
// order, with merge keys (`<<: *base`, `<<: [*a, *b]`) expanded in place.
// Keys written explicitly on the mapping win over merged ones, and among
// merged mappings the earlier one wins.
func mappingPairs(n *yaml.Node, nesting int) ([]yamlPair, error) {
	if nesting > maxYAMLNesting {
		return nil, fmt.Errorf("yaml nesting deeper than %d levels at line %d", maxYAMLNesting, n.Line)
	}

	explicit := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolveAlias(n.Content[i])
		if isMergeKey(key) {
			continue
		}
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("expected all keys in maps to be scalars, got a complex key at line %d", key.Line)
		}
		explicit[key.Value] = true
	}

	var pairs []yamlPair
	merged := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := resolveAlias(n.Content[i]), n.Content[i+1]
		if !isMergeKey(key) {
			pairs = append(pairs, yamlPair{key: key.Value, value: value})
			continue
		}

		sources, err := mergeSources(value)
		if err != nil {
			return nil, err
		}
		for _, source := range sources {
			sourcePairs, err := mappingPairs(source, nesting+1)
			if err != nil {
				return nil, err
			}
			for _, pair := range sourcePairs {
				if explicit[pair.key] || merged[pair.key] {
					continue
				}
				merged[pair.key] = true
				pairs = append(pairs, pair)
			}
		}
	}
	return pairs, nil
}

// mergeSources returns the mappings named by the value of a merge key: a
// single mapping or a sequence of them.
func mergeSources(value *yaml.Node) ([]*yaml.Node, error) {
	value = resolveAlias(value)
	switch value.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{value}, nil
	case yaml.SequenceNode:
		sources := make([]*yaml.Node, 0, len(value.Content))
		for _, item := range value.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("merge key at line %d must reference mappings", value.Line)
			}
			sources = append(sources, item)
		}
		return sources, nil
	}
	return nil, fmt.Errorf("merge key at line %d must reference a mapping", value.Line)
}

func isMergeKey(key *yaml.Node) bool {
	return key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge"
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

func writeYAMLScalar(buf *bytes.Buffer, n *yaml.Node) {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			buf.WriteString(strconv.FormatBool(b))
			return
		}

	case "!!int", "!!float":
		// Keep the literal when it is already a valid JSON number so that
		// `1.0` doesn't turn into `1`.
		if json.Valid([]byte(n.Value)) {
			buf.WriteString(n.Value)
			return
		}
		var f float64
		if err := n.Decode(&f); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			return
		}
	}

	writeJSONString(buf, n.Value)
}

func writeJSONString(buf *bytes.Buffer, s string) {
	encoded, _ := json.Marshal(s)
	buf.Write(encoded)
}
