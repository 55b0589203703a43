package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// record is one decoded upstream object; lookups try alias keys in order.
type record map[string]any

func (r record) raw(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r record) str(def string, keys ...string) string {
	v, ok := r.raw(keys...)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
		return def
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		// nested shapes like {"name": "..."} or {"code": "..."}
		return record(t).str(def, "name", "code", "value")
	}
	return def
}

func (r record) num(def float64, keys ...string) float64 {
	v, ok := r.raw(keys...)
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

func (r record) integer(def int, keys ...string) int {
	f := r.num(float64(def), keys...)
	return int(f)
}

func (r record) boolean(def bool, keys ...string) bool {
	v, ok := r.raw(keys...)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	}
	return def
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case int:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimLeft(s, "$€£¥฿ ")
		s = strings.ReplaceAll(s, ",", "")
		if fields := strings.Fields(s); len(fields) > 0 {
			s = fields[0]
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case map[string]any:
		// {"total": "123.40", "currency": "USD"}
		r := record(t)
		if inner, ok := r.raw("total", "amount", "value", "grandTotal"); ok {
			return toFloat(inner)
		}
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts full timestamps, or a bare "15:04" that is placed on day.
func parseTime(s string, day time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	if t, err := time.Parse("15:04", s); err == nil && !day.IsZero() {
		return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	}
	return time.Time{}
}

// records decodes a fragment into a list of objects. A top-level object is
// unwrapped through the first list-valued key in listKeys, or taken as one record.
func records(frag []byte, listKeys ...string) ([]record, error) {
	dec := json.NewDecoder(strings.NewReader(string(frag)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		found := false
		for _, k := range listKeys {
			if list, ok := t[k].([]any); ok {
				items = list
				found = true
				break
			}
		}
		if !found {
			items = []any{t}
		}
	}

	out := make([]record, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, record(m))
		}
	}
	return out, nil
}
