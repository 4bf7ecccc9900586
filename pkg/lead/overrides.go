package lead

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/synaptica-ai/web2lead/pkg/submission"
	"github.com/synaptica-ai/web2lead/pkg/token"
)

var ErrMalformedCustomData = errors.New("malformed custom data")

// Overrides are literal or templated values keyed by destination field.
type Overrides map[string]string

// ParseOverrides decodes a YAML custom data block. Blank text yields empty
// overrides. Scalars render the way submitted values do, so booleans become
// 1 or 0. Nested mappings are ignored since the payload is flat.
func ParseOverrides(text string) (Overrides, error) {
	out := Overrides{}
	if strings.TrimSpace(text) == "" {
		return out, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return Overrides{}, fmt.Errorf("%w: %v", ErrMalformedCustomData, err)
	}
	if len(doc.Content) == 0 {
		return out, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Overrides{}, fmt.Errorf("%w: expected a mapping of field: value", ErrMalformedCustomData)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		name := strings.TrimSpace(key.Value)
		if name == "" {
			continue
		}
		value = dealias(value)
		switch value.Kind {
		case yaml.ScalarNode:
			out[name] = scalarString(value)
		case yaml.SequenceNode:
			items := make([]string, 0, len(value.Content))
			for _, item := range value.Content {
				if item = dealias(item); item.Kind == yaml.ScalarNode {
					items = append(items, scalarString(item))
				}
			}
			out[name] = submission.Stringify(items)
		}
	}
	return out, nil
}

func dealias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// scalarString keeps numbers as written so values like zip codes survive.
func scalarString(node *yaml.Node) string {
	switch node.ShortTag() {
	case "!!null":
		return ""
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return node.Value
		}
		return submission.Stringify(b)
	}
	return node.Value
}

// Resolve runs every value through the resolver.
func (o Overrides) Resolve(resolver token.Resolver, sub *submission.Record) Overrides {
	if resolver == nil {
		resolver = token.Identity
	}
	out := make(Overrides, len(o))
	for k, v := range o {
		out[k] = resolver.Resolve(v, sub)
	}
	return out
}

// MergeOverrides layers the given overrides left to right; later layers win.
func MergeOverrides(layers ...Overrides) Overrides {
	out := Overrides{}
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
