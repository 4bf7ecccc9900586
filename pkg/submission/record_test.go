package submission

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalKeepsDocumentOrder(t *testing.T) {
	var rec Record
	err := json.Unmarshal([]byte(`{"zip":"10001","name":{"last":"Doe","first":"Jane"},"tags":["a","b"],"age":42}`), &rec)
	require.NoError(t, err)

	fields := rec.Fields()
	require.Len(t, fields, 4)
	assert.Equal(t, "zip", fields[0].Key)
	assert.Equal(t, "name", fields[1].Key)
	assert.Equal(t, "tags", fields[2].Key)
	assert.Equal(t, json.Number("42"), fields[3].Value)

	name, ok := fields[1].Value.(*Record)
	require.True(t, ok)
	nameFields := name.Fields()
	assert.Equal(t, "last", nameFields[0].Key)
	assert.Equal(t, "first", nameFields[1].Key)

	assert.Equal(t, []interface{}{"a", "b"}, fields[2].Value)
}

func TestUnmarshalRejectsNonObject(t *testing.T) {
	var rec Record
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &rec))
}

func TestFromMapSortsKeysAndNests(t *testing.T) {
	rec := FromMap(map[string]interface{}{
		"b":    "2",
		"a":    "1",
		"name": map[string]interface{}{"first": "Jane"},
	})

	fields := rec.Fields()
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)

	nested, ok := fields[2].Value.(*Record)
	require.True(t, ok)
	first, ok := nested.Get("first")
	assert.True(t, ok)
	assert.Equal(t, "Jane", first)
}

func TestSetReplacesInPlace(t *testing.T) {
	rec := NewRecord()
	rec.Set("a", "1")
	rec.Set("b", "2")
	rec.Set("a", "3")

	fields := rec.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, Field{Key: "a", Value: "3"}, fields[0])
}

func TestMarshalRoundTripPreservesOrder(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"z":"1","a":{"y":true}}`), &rec))

	out, err := json.Marshal(&rec)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":{"y":true}}`, string(out))
}
