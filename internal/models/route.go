package models

// TransportType identifies how a route is travelled. The set is open; the
// backend may add types.
type TransportType string

const (
	TransportWalking TransportType = "walking"
	TransportDriving TransportType = "driving"
	TransportTransit TransportType = "transit"
	TransportBicycle TransportType = "bicycle"
	TransportTaxi    TransportType = "taxi"
)

// DefaultTransportTypes are requested when the caller does not choose.
var DefaultTransportTypes = []TransportType{TransportWalking, TransportDriving, TransportTransit}

// RouteOption is one way of getting to an event.
type RouteOption struct {
	TransportType   TransportType `json:"transport_type"`
	DurationMinutes int           `json:"duration_minutes"`
	DistanceKm      float64       `json:"distance_km"`
	Steps           []string      `json:"steps"`
	EstimatedCost   *float64      `json:"estimated_cost"`
}

// RoutesByTransport indexes routes by transport type. If a type appears more
// than once the first occurrence wins.
func RoutesByTransport(routes []RouteOption) map[TransportType]RouteOption {
	byType := make(map[TransportType]RouteOption, len(routes))
	for _, r := range routes {
		if _, ok := byType[r.TransportType]; ok {
			continue
		}
		byType[r.TransportType] = r
	}
	return byType
}

// NearbyPlace is a restaurant, cafe, hotel or similar around an area.
type NearbyPlace struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Location    Location `json:"location"`
	Rating      *float64 `json:"rating"`      // usually 0-5
	PriceLevel  *int     `json:"price_level"` // small integer, higher is pricier
	Description *string  `json:"description"`
}
