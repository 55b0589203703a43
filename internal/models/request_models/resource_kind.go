package request_models

import "fmt"

// ResourceKind names one persisted sub-entity of a trip.
type ResourceKind string

const (
	KindTrip            ResourceKind = "trip"
	KindFlights         ResourceKind = "flights"
	KindHotel           ResourceKind = "hotel"
	KindSchedule        ResourceKind = "schedule"
	KindBudget          ResourceKind = "budget"
	KindPackingList     ResourceKind = "packing-list"
	KindWeather         ResourceKind = "weather"
	KindRecommendations ResourceKind = "recommendations"
)

var allKinds = []ResourceKind{
	KindTrip, KindFlights, KindHotel, KindSchedule, KindBudget,
	KindPackingList, KindWeather, KindRecommendations,
}

func AllResourceKinds() []ResourceKind {
	out := make([]ResourceKind, len(allKinds))
	copy(out, allKinds)
	return out
}

func ParseResourceKind(s string) (ResourceKind, error) {
	for _, k := range allKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// Path is the trip-relative API path for the kind.
func (k ResourceKind) Path() string {
	if k == KindTrip {
		return ""
	}
	return "/" + string(k)
}
