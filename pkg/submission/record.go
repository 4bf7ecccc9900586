package submission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Field is a single submitted value. Value is one of string, json.Number,
// float64, int, bool, nil, []interface{} or *Record for composite elements.
type Field struct {
	Key   string
	Value interface{}
}

// Record holds submitted data in the order the form host produced it.
type Record struct {
	fields []Field
	index  map[string]int
}

func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// FromMap builds a record from unordered data. Keys are sorted so that the
// resulting order is stable; nested maps become nested records.
func FromMap(data map[string]interface{}) *Record {
	rec := NewRecord()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec.Set(k, normalize(data[k]))
	}
	return rec
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return FromMap(val)
	case map[string]string:
		m := make(map[string]interface{}, len(val))
		for k, s := range val {
			m[k] = s
		}
		return FromMap(m)
	default:
		return v
	}
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

func (r *Record) Get(key string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Set replaces an existing value in place or appends a new field.
func (r *Record) Set(key string, value interface{}) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Fields returns a copy of the fields in record order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %s: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("submission record must be a JSON object")
	}

	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

// decodeObject reads the members of an object whose opening brace has
// already been consumed.
func decodeObject(dec *json.Decoder) (*Record, error) {
	rec := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		rec.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		list := make([]interface{}, 0)
		for dec.More() {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}
