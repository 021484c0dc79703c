package geo

import (
	"fmt"
	"math"
	"sync"
)

const earthRadiusKm = 6371.0

// UnknownAirportError is returned when a code cannot be resolved to
// coordinates. Callers must treat this as "cannot price automatically",
// never as zero distance.
type UnknownAirportError struct {
	Code string
}

func (e *UnknownAirportError) Error() string {
	return fmt.Sprintf("unknown airport code %q", e.Code)
}

// Resolver maps IATA airport codes to coordinates and computes the
// great-circle distance between two airports. The coordinate table is
// read-only after construction; computed distances are cached by unordered
// pair since distance is symmetric. Safe for concurrent use.
type Resolver struct {
	coordinates map[string]Coordinate

	mu    sync.RWMutex
	cache map[string]float64
}

// NewResolver creates a resolver over the given coordinate table.
func NewResolver(coordinates []Coordinate) *Resolver {
	table := make(map[string]Coordinate, len(coordinates))
	for _, c := range coordinates {
		table[c.IATA] = c
	}

	return &Resolver{
		coordinates: table,
		cache:       make(map[string]float64),
	}
}

// Distance returns the great-circle distance in kilometers between two
// airports, rounded to one decimal. Unknown or malformed codes fail with
// UnknownAirportError naming the offending code.
func (r *Resolver) Distance(origin, destination string) (float64, error) {
	from, err := r.lookup(origin)
	if err != nil {
		return 0, err
	}
	to, err := r.lookup(destination)
	if err != nil {
		return 0, err
	}

	key := pairKey(origin, destination)

	r.mu.RLock()
	if d, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return d, nil
	}
	r.mu.RUnlock()

	d := haversineKm(from, to)

	r.mu.Lock()
	r.cache[key] = d
	r.mu.Unlock()

	return d, nil
}

func (r *Resolver) lookup(code string) (Coordinate, error) {
	if !validCode(code) {
		return Coordinate{}, &UnknownAirportError{Code: code}
	}
	c, ok := r.coordinates[code]
	if !ok {
		return Coordinate{}, &UnknownAirportError{Code: code}
	}
	return c, nil
}

// validCode reports whether the code is three uppercase ASCII letters.
func validCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// pairKey builds an order-independent cache key for a pair of codes.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// haversineKm computes the great-circle distance between two coordinates
// using the haversine formula with a mean Earth radius of 6371.0 km, rounded
// to one decimal for deterministic comparisons.
func haversineKm(from, to Coordinate) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*10) / 10
}
