package api

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-water-safety/internal/geo"
)

var errLatLngRequired = errors.New("lat and lng are required")

// requirePoint reads lat and lng query parameters and validates them.
func requirePoint(c *gin.Context) (geo.Point, error) {
	p, ok, err := optionalPoint(c)
	if err != nil {
		return geo.Point{}, err
	}
	if !ok {
		return geo.Point{}, errLatLngRequired
	}
	return p, nil
}

// optionalPoint reports ok=false when neither lat nor lng is present.
func optionalPoint(c *gin.Context) (geo.Point, bool, error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" && lngStr == "" {
		return geo.Point{}, false, nil
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return geo.Point{}, false, errLatLngRequired
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return geo.Point{}, false, err
	}
	return p, true, nil
}

// queryInt returns the parameter as an int, or 0 when absent or malformed.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func queryFloat(c *gin.Context, key string) float64 {
	f, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0
	}
	return f
}
