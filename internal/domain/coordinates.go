package domain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinates in signed decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Validate rejects latitudes outside [-90, 90] and longitudes outside [-180, 180].
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinate, c.Lat)
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}

// Point returns the coordinates as an orb point ([lon, lat]).
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// Key renders a stable cache key with 1e-7 degree (~1cm) resolution.
func (c Coordinates) Key() string {
	return strconv.FormatFloat(c.Lat, 'f', 7, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 7, 64)
}
