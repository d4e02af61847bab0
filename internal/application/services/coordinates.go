package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
)

// InvalidCoordinateError indicates a feed position string that could not be
// parsed into a latitude/longitude pair.
type InvalidCoordinateError struct {
	Raw string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinates: %q", e.Raw)
}

// ParseLocation parses the feed's "lat, lng" position string. Both components
// must be finite decimal numbers.
func ParseLocation(raw string) (entities.Location, error) {
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return entities.Location{}, &InvalidCoordinateError{Raw: raw}
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return entities.Location{}, &InvalidCoordinateError{Raw: raw}
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return entities.Location{}, &InvalidCoordinateError{Raw: raw}
	}

	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return entities.Location{}, &InvalidCoordinateError{Raw: raw}
	}

	return entities.Location{Latitude: lat, Longitude: lng}, nil
}
