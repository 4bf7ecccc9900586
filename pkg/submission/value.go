package submission

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MultiValueSeparator joins list values, matching how Web-to-Lead endpoints
// receive multi-select picklists.
const MultiValueSeparator = ";"

// Stringify renders a submitted scalar or list as the flat string sent on the
// wire. Empty values (nil, blank strings, empty lists) render as "".
// Composite records are not scalars and also render as "".
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := Stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, MultiValueSeparator)
	case []string:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, MultiValueSeparator)
	case *Record:
		return ""
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
