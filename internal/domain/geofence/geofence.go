package geofence

import (
	"time"
)

// Type classifies a geofence by the physical facility it encloses.
type Type string

const (
	TypeTerminal Type = "Terminal"
	TypeDepot    Type = "Depot"
	TypeRailRamp Type = "Rail ramp"
)

// Geofence is a named polygon in WGS-84 describing a terminal, depot, or
// rail ramp. Names are globally unique (e.g. "USNYC-APM") and start with the
// ISO country code, matching the UN/LOCODE convention.
type Geofence struct {
	ID          string
	Name        string
	TypeID      Type
	UNLOCode    string
	SMDGCode    string
	Description string

	// Ring is the closed outer ring of the polygon, (lon, lat) ordering.
	// The first and last vertex are the same point.
	Ring []Point

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Point is a single (lon, lat) coordinate.
type Point struct {
	Lon float64
	Lat float64
}

// Contains reports whether the point lies inside the polygon ring, using the
// even-odd ray casting rule. Points exactly on an edge may resolve either way;
// geofences are small enough that planar math is adequate.
func (g *Geofence) Contains(lon, lat float64) bool {
	ring := g.Ring
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		pi, pj := ring[i], ring[j]
		if (pi.Lat > lat) != (pj.Lat > lat) {
			xCross := (pj.Lon-pi.Lon)*(lat-pi.Lat)/(pj.Lat-pi.Lat) + pi.Lon
			if lon < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Centroid returns the arithmetic mean of the ring vertices as (lon, lat).
// Not the true polygon centroid, but stable and defined for every valid ring.
func (g *Geofence) Centroid() (lon, lat float64) {
	if len(g.Ring) == 0 {
		return 0, 0
	}

	var lonSum, latSum float64
	for _, p := range g.Ring {
		lonSum += p.Lon
		latSum += p.Lat
	}
	n := float64(len(g.Ring))
	return lonSum / n, latSum / n
}

// CountryCode extracts the two-letter ISO country code, preferring the
// UN/LOCODE prefix and falling back to the name prefix.
func (g *Geofence) CountryCode() string {
	if len(g.UNLOCode) >= 2 {
		return g.UNLOCode[:2]
	}
	if len(g.Name) >= 2 {
		return g.Name[:2]
	}
	return ""
}
