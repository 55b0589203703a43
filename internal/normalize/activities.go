package normalize

import (
	"encoding/json"
	"strings"
)

// ActivitiesKind records which wire shape an activities field arrived in.
type ActivitiesKind int

const (
	ActivitiesNone ActivitiesKind = iota
	// ActivitiesList is a JSON array of objects or strings.
	ActivitiesList
	// ActivitiesDelimited is a comma, semicolon or newline separated string.
	ActivitiesDelimited
	// ActivitiesEncoded is a string holding a JSON array or object.
	ActivitiesEncoded
	// ActivitiesScalar is a single name.
	ActivitiesScalar
)

func (k ActivitiesKind) String() string {
	switch k {
	case ActivitiesList:
		return "list"
	case ActivitiesDelimited:
		return "delimited"
	case ActivitiesEncoded:
		return "encoded"
	case ActivitiesScalar:
		return "scalar"
	}
	return "none"
}

type Activity struct {
	Name      string  `json:"name"`
	StartTime string  `json:"start_time,omitempty"`
	EndTime   string  `json:"end_time,omitempty"`
	Location  string  `json:"location,omitempty"`
	Cost      float64 `json:"cost"`
}

// Activities is resolved from whatever shape the field had when it was
// decoded. Consumers only read Items.
type Activities struct {
	Kind  ActivitiesKind
	Items []Activity
}

// UnmarshalJSON never fails: unusable input yields an empty ActivitiesNone.
func (a *Activities) UnmarshalJSON(b []byte) error {
	*a = ParseActivities(b)
	return nil
}

func (a Activities) MarshalJSON() ([]byte, error) {
	items := a.Items
	if items == nil {
		items = []Activity{}
	}
	return json.Marshal(items)
}

func (a Activities) TotalCost() float64 {
	var sum float64
	for _, it := range a.Items {
		sum += it.Cost
	}
	return sum
}

func ParseActivities(b []byte) Activities {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" || trimmed == "null" {
		return Activities{Kind: ActivitiesNone}
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Activities{Kind: ActivitiesNone}
	}

	switch t := v.(type) {
	case []any:
		return Activities{Kind: ActivitiesList, Items: activityList(t)}
	case map[string]any:
		return Activities{Kind: ActivitiesList, Items: activityList([]any{t})}
	case string:
		return parseActivityString(t)
	case json.Number:
		return Activities{Kind: ActivitiesScalar, Items: []Activity{{Name: t.String()}}}
	}
	return Activities{Kind: ActivitiesNone}
}

func parseActivityString(s string) Activities {
	s = strings.TrimSpace(s)
	if s == "" {
		return Activities{Kind: ActivitiesNone}
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		if json.Valid([]byte(s)) {
			inner := ParseActivities([]byte(s))
			return Activities{Kind: ActivitiesEncoded, Items: inner.Items}
		}
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	if len(parts) > 1 {
		items := make([]Activity, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, Activity{Name: p})
			}
		}
		return Activities{Kind: ActivitiesDelimited, Items: items}
	}

	return Activities{Kind: ActivitiesScalar, Items: []Activity{{Name: s}}}
}

func activityList(list []any) []Activity {
	out := make([]Activity, 0, len(list))
	for _, it := range list {
		switch t := it.(type) {
		case string:
			if name := strings.TrimSpace(t); name != "" {
				out = append(out, Activity{Name: name})
			}
		case map[string]any:
			r := record(t)
			name := r.str("", "name", "activity", "title", "description")
			if name == "" {
				continue
			}
			out = append(out, Activity{
				Name:      name,
				StartTime: r.str("", "start_time", "startTime", "time"),
				EndTime:   r.str("", "end_time", "endTime"),
				Location:  r.str("", "location", "place", "poi"),
				Cost:      r.num(0, "cost", "price", "amount", "estimated_cost"),
			})
		}
	}
	return out
}
