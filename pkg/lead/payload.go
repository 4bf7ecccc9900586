package lead

import (
	"net/url"
	"sort"
)

// OrganizationKey is the field the endpoint routes leads by.
const OrganizationKey = "oid"

// Payload is the flat field set posted to the endpoint.
type Payload map[string]string

func (p Payload) Set(key, value string) {
	p[key] = value
}

func (p Payload) Delete(key string) {
	delete(p, key)
}

func (p Payload) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Keys returns the payload keys in sorted order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p Payload) Values() url.Values {
	values := make(url.Values, len(p))
	for k, v := range p {
		values.Set(k, v)
	}
	return values
}

// Encode renders the payload as an application/x-www-form-urlencoded body.
func (p Payload) Encode() string {
	return p.Values().Encode()
}
