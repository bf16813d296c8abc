// Package store maps documentation records to and from a YAML record store:
// one file per identifier, deterministically named, human-diffable.
package store

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Record is one identifier's portable documentation.
type Record struct {
	ID          string    `yaml:"id" validate:"required,docid"`
	SourceFile  string    `yaml:"source_file,omitempty"`
	Signature   string    `yaml:"signature,omitempty"`
	Categories  []string  `yaml:"categories,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Examples    *Examples `yaml:"examples,omitempty"`

	// Path is the store file this record was loaded from. Informational;
	// surfaced in rendered diagnostics.
	Path string `yaml:"-"`
}

// Example is one named example with per-language snippets.
type Example struct {
	Title string            `yaml:"title,omitempty"`
	Code  map[string]string `yaml:"code,omitempty"`
}

// Examples is an insertion-ordered map from example key to Example. Order is
// preserved so re-serialization is deterministic.
type Examples struct {
	keys    []string
	entries map[string]*Example
}

// NewExamples allocates an empty example map.
func NewExamples() *Examples {
	return &Examples{entries: map[string]*Example{}}
}

// Get returns the example for key, if present.
func (e *Examples) Get(key string) (*Example, bool) {
	if e == nil {
		return nil, false
	}
	ex, ok := e.entries[key]
	return ex, ok
}

// Set stores ex under key, appending the key on first insertion.
func (e *Examples) Set(key string, ex *Example) {
	if _, ok := e.entries[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.entries[key] = ex
}

// Keys returns the keys in insertion order.
func (e *Examples) Keys() []string {
	if e == nil {
		return nil
	}
	return e.keys
}

// Len returns the number of examples.
func (e *Examples) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// UnmarshalYAML decodes a YAML mapping while remembering key order.
func (e *Examples) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("examples: expected mapping, got %s", nodeKind(node))
	}
	e.entries = map[string]*Example{}
	e.keys = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		ex := &Example{}
		if err := node.Content[i+1].Decode(ex); err != nil {
			return fmt.Errorf("examples[%s]: %w", key, err)
		}
		e.Set(key, ex)
	}
	return nil
}

// MarshalYAML encodes the mapping in insertion order with literal block
// scalars for multi-line snippets.
func (e *Examples) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range e.keys {
		ex := e.entries[key]

		exNode := &yaml.Node{Kind: yaml.MappingNode}
		if ex.Title != "" {
			appendPair(exNode, "title", scalarNode(ex.Title))
		}
		if len(ex.Code) > 0 {
			codeNode := &yaml.Node{Kind: yaml.MappingNode}
			for _, lang := range sortedKeys(ex.Code) {
				appendPair(codeNode, lang, scalarNode(ex.Code[lang]))
			}
			appendPair(exNode, "code", codeNode)
		}
		appendPair(node, key, exNode)
	}
	return node, nil
}

// MarshalYAML writes the record with a fixed field order matching the store
// schema, using literal block scalars for multi-line strings.
func (r *Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(node, "id", scalarNode(r.ID))
	if r.SourceFile != "" {
		appendPair(node, "source_file", scalarNode(r.SourceFile))
	}
	if r.Signature != "" {
		appendPair(node, "signature", scalarNode(r.Signature))
	}
	if len(r.Categories) > 0 {
		cats := &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range r.Categories {
			cats.Content = append(cats.Content, scalarNode(c))
		}
		appendPair(node, "categories", cats)
	}
	if r.Description != "" {
		appendPair(node, "description", scalarNode(r.Description))
	}
	if r.Examples.Len() > 0 {
		ex, err := r.Examples.MarshalYAML()
		if err != nil {
			return nil, err
		}
		appendPair(node, "examples", ex.(*yaml.Node))
	}
	return node, nil
}

func scalarNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "node"
	}
}

var idRE = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("docid", func(fl validator.FieldLevel) bool {
		return idRE.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks the record against the store schema.
func (r *Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid record %q: %w", r.ID, err)
	}
	return nil
}
