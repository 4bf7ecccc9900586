package submission

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"blank string", "   ", ""},
		{"trimmed string", " Jane ", "Jane"},
		{"json number", json.Number("12.50"), "12.50"},
		{"float", 3.0, "3"},
		{"true", true, "1"},
		{"false", false, "0"},
		{"list", []interface{}{"red", "", "blue"}, "red;blue"},
		{"empty list", []interface{}{}, ""},
		{"string list", []string{"a", " b "}, "a;b"},
		{"record", NewRecord(), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Stringify(tc.in))
		})
	}
}
