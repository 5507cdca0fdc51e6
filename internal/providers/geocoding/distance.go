package geocoding

import "math"

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in kilometres.
func Distance(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

const kmPerMile = 1.609344

// Route is the straight-line relation between two resolved places.
type Route struct {
	Origin      Coordinates `json:"origin"`
	Destination Coordinates `json:"destination"`
	DistanceKm  float64     `json:"distance_km"`
}

func NewRoute(origin, destination Coordinates) *Route {
	return &Route{
		Origin:      origin,
		Destination: destination,
		DistanceKm:  Distance(origin, destination),
	}
}

func (r *Route) DistanceMiles() float64 {
	return r.DistanceKm / kmPerMile
}
