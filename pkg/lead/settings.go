package lead

import "strings"

// Settings configure a single Web-to-Lead handler attached to a form.
type Settings struct {
	Label          string                 `yaml:"label" json:"label"`
	EndpointURL    string                 `yaml:"endpoint_url" json:"endpoint_url"`
	OrganizationID string                 `yaml:"organization_id" json:"organization_id"`
	Mapping        map[string]Destination `yaml:"mapping" json:"mapping"`
	// CustomData applies to every forwarded operation.
	CustomData string `yaml:"custom_data" json:"custom_data"`
	// InsertData applies when a submission is created and wins over CustomData.
	InsertData string `yaml:"insert_data" json:"insert_data"`
	Debug      bool   `yaml:"debug" json:"debug"`
}

func (s Settings) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return "web-to-lead"
}

// Endpoint returns the trimmed endpoint URL; "" means the handler is disabled.
func (s Settings) Endpoint() string {
	return strings.TrimSpace(s.EndpointURL)
}
