package routing

import (
	"math"

	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// boundingBox is (minLon, minLat, maxLon, maxLat). A box whose maxLon is west
// of its minLon wraps the antimeridian.
type boundingBox struct {
	minLon, minLat, maxLon, maxLat float64
}

func (b boundingBox) contains(lon, lat float64) bool {
	if lat < b.minLat || lat > b.maxLat {
		return false
	}
	if b.maxLon < b.minLon {
		return lon >= b.minLon || lon <= b.maxLon
	}
	return lon >= b.minLon && lon <= b.maxLon
}

func (b boundingBox) center() (lon, lat float64) {
	return (b.minLon + b.maxLon) / 2, (b.minLat + b.maxLat) / 2
}

// waterRegions are approximate boxes over navigable water, used to accept
// waypoints and to find a snap target for waypoints flagged as on land.
var waterRegions = []boundingBox{
	{-80, 0, 0, 65},      // North Atlantic
	{-70, -60, 20, 0},    // South Atlantic
	{100, 0, -100, 65},   // North Pacific (wraps)
	{140, -60, -70, 0},   // South Pacific (wraps)
	{20, -60, 120, 30},   // Indian Ocean
	{-6, 30, 42, 47},     // Mediterranean
	{32, 12, 44, 30},     // Red Sea
	{45, 5, 78, 26},      // Arabian Sea
	{78, 5, 100, 23},     // Bay of Bengal
	{100, 0, 122, 25},    // South China Sea
	{117, 23, 132, 35},   // East China Sea
	{127, 33, 142, 52},   // Sea of Japan
	{-90, 8, -60, 28},    // Caribbean
	{-98, 18, -80, 31},   // Gulf of Mexico
	{-5, 50, 10, 62},     // North Sea
	{9, 53, 30, 66},      // Baltic
	{47, 23, 57, 31},     // Persian Gulf
	{43, 10, 52, 16},     // Gulf of Aden
	{95, -1, 105, 8},     // Strait of Malacca
	{-6, 48, 2, 52},      // English Channel
	{31, 29, 35, 32},     // Suez Canal region
	{-82, 7, -77, 11},    // Panama Canal region
}

// landMasses are rough continental-interior boxes. Only points well inside
// one (beyond coastalTolerance) and outside every water region are treated
// as clearly on land.
var landMasses = []boundingBox{
	{-170, 25, -52, 85}, // North America
	{-82, -56, -34, 12}, // South America
	{-10, 36, 40, 72},   // Europe
	{-18, -35, 52, 37},  // Africa
	{25, 1, 180, 78},    // Asia
	{-180, 50, -170, 72}, // far-east Russia
	{113, -45, 154, -10}, // Australia
	{68, 6, 98, 38},     // Indian subcontinent
}

// coastalTolerance shrinks the land boxes so waypoints near a coast are not
// flagged; in degrees.
const coastalTolerance = 2.0

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

// IsClearlyOnLand reports whether the point sits deep inside a continental
// interior and outside every known water region. The check is deliberately
// conservative: coastal and ambiguous points pass as water.
func IsClearlyOnLand(lon, lat float64) bool {
	lon = normalizeLon(lon)

	for _, land := range landMasses {
		shrunk := boundingBox{
			minLon: land.minLon + coastalTolerance,
			minLat: land.minLat + coastalTolerance,
			maxLon: land.maxLon - coastalTolerance,
			maxLat: land.maxLat - coastalTolerance,
		}
		if !shrunk.contains(lon, lat) {
			continue
		}
		inWater := false
		for _, water := range waterRegions {
			if water.contains(lon, lat) {
				inWater = true
				break
			}
		}
		if !inWater {
			return true
		}
	}
	return false
}

// NearestWaterPoint snaps a land-bound waypoint toward the nearest water
// region by clamping it into that region's box. The result may land on the
// box boundary rather than mid-ocean; the route perturbation pass hides the
// straight clamp.
func NearestWaterPoint(lon, lat float64) geofence.Point {
	lon = normalizeLon(lon)

	best := -1
	bestDist := math.Inf(1)
	for i, water := range waterRegions {
		cLon, cLat := water.center()
		d := (lon-cLon)*(lon-cLon) + (lat-cLat)*(lat-cLat)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return geofence.Point{Lon: lon, Lat: lat}
	}

	w := waterRegions[best]
	return geofence.Point{
		Lon: math.Max(w.minLon, math.Min(w.maxLon, lon)),
		Lat: math.Max(w.minLat, math.Min(w.maxLat, lat)),
	}
}
