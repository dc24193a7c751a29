package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML options document. source is only used in errors.
func ParseYAML(source, content string) (Options, error) {
	root, err := yamlDecodeNode(content)
	if err != nil {
		return Options{}, parseError(source, content, err)
	}
	n, err := nodeFromYAML(root)
	if err != nil {
		return Options{}, parseError(source, content, err)
	}
	return optionsFromNode(source, n)
}

func yamlDecodeNode(content string) (*yaml.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(content))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty document.
			return nil, nil
		}
		return nil, err
	}

	// Reject multi-document YAML to keep behavior deterministic.
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return nil, errors.New("multiple YAML documents are not allowed")
	} else if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &doc, nil
}

// nodeFromYAML walks yaml.Node instead of decoding into Go maps so mapping
// order survives.
func nodeFromYAML(y *yaml.Node) (node, error) {
	if y == nil {
		return node{kind: kindNull}, nil
	}
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return node{kind: kindNull, line: y.Line}, nil
		}
		return nodeFromYAML(y.Content[0])
	case yaml.AliasNode:
		return nodeFromYAML(y.Alias)
	case yaml.MappingNode:
		n := node{kind: kindMap, line: y.Line}
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return node{}, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			if k.ShortTag() == "!!merge" {
				return node{}, fmt.Errorf("line %d: merge keys are not supported", k.Line)
			}
			if n.lookup(k.Value) >= 0 {
				return node{}, fmt.Errorf("line %d: duplicate key %q", k.Line, k.Value)
			}
			value, err := nodeFromYAML(v)
			if err != nil {
				return node{}, err
			}
			n.fields = append(n.fields, field{key: k.Value, value: value})
		}
		return n, nil
	case yaml.SequenceNode:
		n := node{kind: kindList, line: y.Line}
		for _, item := range y.Content {
			value, err := nodeFromYAML(item)
			if err != nil {
				return node{}, err
			}
			n.items = append(n.items, value)
		}
		return n, nil
	case yaml.ScalarNode:
		switch y.ShortTag() {
		case "!!null":
			return node{kind: kindNull, line: y.Line}, nil
		case "!!bool":
			var b bool
			if err := y.Decode(&b); err != nil {
				return node{}, fmt.Errorf("line %d: %w", y.Line, err)
			}
			return node{kind: kindBool, truth: b, line: y.Line}, nil
		case "!!int", "!!float":
			return node{kind: kindNumber, text: y.Value, line: y.Line}, nil
		default:
			return node{kind: kindString, text: y.Value, line: y.Line}, nil
		}
	default:
		return node{}, fmt.Errorf("line %d: unsupported YAML node", y.Line)
	}
}
