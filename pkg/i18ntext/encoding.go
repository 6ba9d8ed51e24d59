package i18ntext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the set as an object keyed by locale, keeping insertion
// order: {"en":"hi","fr":""}.
func (s *Set) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Locale)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by locale, preserving document order.
// Null leaves the set empty.
func (s *Set) UnmarshalJSON(data []byte) error {
	*s = Set{}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("i18ntext: decode json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("i18ntext: decode json: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("i18ntext: decode json: %w", err)
		}
		locale, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("i18ntext: decode json: unexpected key %v", keyTok)
		}
		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("i18ntext: decode json value for %q: %w", locale, err)
		}
		if value == nil {
			s.SetValue(locale, "")
			continue
		}
		s.SetValue(locale, *value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("i18ntext: decode json: %w", err)
	}
	return nil
}

// MarshalYAML emits a mapping node in insertion order.
func (s *Set) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if s == nil {
		return node, nil
	}
	for _, entry := range s.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Locale},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Value},
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a mapping of locale to text, preserving document
// order.
func (s *Set) UnmarshalYAML(node *yaml.Node) error {
	*s = Set{}
	if node == nil || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("i18ntext: decode yaml: line %d: expected mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return fmt.Errorf("i18ntext: decode yaml: line %d: expected scalar locale/value pair", key.Line)
		}
		if value.Tag == "!!null" {
			s.SetValue(key.Value, "")
			continue
		}
		s.SetValue(key.Value, value.Value)
	}
	return nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
