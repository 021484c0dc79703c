package geo

// Coordinate is the immutable reference position of an airport, keyed by its
// three-letter IATA code.
type Coordinate struct {
	IATA      string  `json:"iata"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
