package lead

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// OtherSentinel marks a destination whose field name is supplied as free text.
const OtherSentinel = "_other_"

// CampaignFields are the standard Web-to-Lead fields offered for mapping.
var CampaignFields = []string{"description", "email", "first_name", "last_name", "lead_source", "phone"}

// IsCampaignField reports whether name is one of CampaignFields.
func IsCampaignField(name string) bool {
	for _, f := range CampaignFields {
		if f == name {
			return true
		}
	}
	return false
}

// FieldMapping maps submission keys (composite sub-fields as parent_child)
// to destination field names.
type FieldMapping map[string]string

// Destination is a configured mapping target. Field holds either a campaign
// field or OtherSentinel, in which case Other carries the real field name.
type Destination struct {
	Field string `yaml:"field" json:"field"`
	Other string `yaml:"other,omitempty" json:"other,omitempty"`
}

// Name returns the destination field name, or "" when the destination
// resolves to nothing.
func (d Destination) Name() string {
	field := strings.TrimSpace(d.Field)
	if field == OtherSentinel {
		return strings.TrimSpace(d.Other)
	}
	return field
}

func (d *Destination) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		d.Field = value.Value
		d.Other = ""
		return nil
	}
	type plain Destination
	var p plain
	if err := value.Decode(&p); err != nil {
		return fmt.Errorf("decoding destination: %w", err)
	}
	*d = Destination(p)
	return nil
}

func (d *Destination) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = Destination{Field: s}
		return nil
	}
	type plain Destination
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding destination: %w", err)
	}
	*d = Destination(p)
	return nil
}

// ResolveMapping flattens configured destinations into a FieldMapping.
// Entries that resolve to an empty name or to OrganizationKey are dropped.
func ResolveMapping(configured map[string]Destination) FieldMapping {
	mapping := make(FieldMapping, len(configured))
	for source, dest := range configured {
		source = strings.TrimSpace(source)
		name := dest.Name()
		if source == "" || name == "" || name == OrganizationKey {
			continue
		}
		mapping[source] = name
	}
	return mapping
}

// CustomDestinations returns the resolved destinations that are not
// standard campaign fields, in sorted order.
func (m FieldMapping) CustomDestinations() []string {
	var out []string
	for _, dest := range m.Destinations() {
		if !IsCampaignField(dest) {
			out = append(out, dest)
		}
	}
	return out
}

// Destinations returns the distinct destination names in sorted order.
func (m FieldMapping) Destinations() []string {
	seen := make(map[string]struct{}, len(m))
	out := make([]string, 0, len(m))
	for _, dest := range m {
		if _, ok := seen[dest]; ok {
			continue
		}
		seen[dest] = struct{}{}
		out = append(out, dest)
	}
	sort.Strings(out)
	return out
}
