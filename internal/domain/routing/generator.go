package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

const (
	earthRadiusKm = 6371.0

	landRouteSamples = 10
	landMaxDevKm     = 5.0
	railMaxDevKm     = 2.0

	oceanSegmentSamples = 10
	oceanMaxDevKm       = 50.0
)

// ErrNoTerminals is returned when the geofence store holds no terminals to
// build journeys from.
var ErrNoTerminals = errors.New("no terminals available")

// ErrNoDepots is returned when the geofence store holds no depots.
var ErrNoDepots = errors.New("no depots available")

// Generator produces waypoint routes between geofences and selects complete
// depot-to-depot journeys. All randomness flows through the injected source,
// so a fixed seed reproduces identical routes.
//
// Load must be called before any other method. After Load the generator is
// read-only apart from the rand source, which is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand

	terminals []*geofence.Geofence
	depots    []*geofence.Geofence
	railRamps []*geofence.Geofence

	railProbability float64
	railCountries   map[string]bool
}

// NewGenerator creates a route generator. railCountries lists the ISO codes
// whose journeys may be assigned a rail leg with the given probability.
func NewGenerator(rng *rand.Rand, railProbability float64, railCountries []string) *Generator {
	countries := make(map[string]bool, len(railCountries))
	for _, c := range railCountries {
		countries[c] = true
	}
	return &Generator{
		rng:             rng,
		railProbability: railProbability,
		railCountries:   countries,
	}
}

// Load reads and categorizes the geofence population. The simulator calls
// this once at startup; terminals and depots are required.
func (g *Generator) Load(ctx context.Context, store geofence.Store) error {
	terminals, err := store.ByType(ctx, geofence.TypeTerminal)
	if err != nil {
		return fmt.Errorf("failed to load terminals: %w", err)
	}
	depots, err := store.ByType(ctx, geofence.TypeDepot)
	if err != nil {
		return fmt.Errorf("failed to load depots: %w", err)
	}
	railRamps, err := store.ByType(ctx, geofence.TypeRailRamp)
	if err != nil {
		return fmt.Errorf("failed to load rail ramps: %w", err)
	}

	if len(terminals) == 0 {
		return ErrNoTerminals
	}
	if len(depots) == 0 {
		return ErrNoDepots
	}

	g.terminals = terminals
	g.depots = depots
	g.railRamps = railRamps
	return nil
}

// SelectJourney chooses a complete journey: random origin and destination
// terminals (distinct where possible), depots biased to the terminal's
// country, and probabilistically a rail leg where the country allows it.
func (g *Generator) SelectJourney() (container.Journey, error) {
	if len(g.terminals) == 0 {
		return container.Journey{}, ErrNoTerminals
	}

	origin := g.terminals[g.rng.Intn(len(g.terminals))]
	destination := g.randomTerminalExcluding(origin.Name)
	if destination == nil {
		destination = origin
	}

	journey := container.Journey{
		OriginTerminal:      origin,
		DestinationTerminal: destination,
		OriginDepot:         g.randomDepotNear(origin),
		DestinationDepot:    g.randomDepotNear(destination),
	}
	if journey.OriginDepot == nil || journey.DestinationDepot == nil {
		return container.Journey{}, ErrNoDepots
	}

	if g.rng.Float64() < g.railProbability {
		journey.OriginRailRamp = g.railRampFor(origin)
		journey.DestinationRailRamp = g.railRampFor(destination)
		journey.UseRail = journey.OriginRailRamp != nil || journey.DestinationRailRamp != nil
	}

	return journey, nil
}

func (g *Generator) randomTerminalExcluding(name string) *geofence.Geofence {
	candidates := make([]*geofence.Geofence, 0, len(g.terminals))
	for _, t := range g.terminals {
		if t.Name != name {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[g.rng.Intn(len(candidates))]
}

// randomDepotNear prefers depots sharing the terminal's country prefix,
// falling back to any depot.
func (g *Generator) randomDepotNear(terminal *geofence.Geofence) *geofence.Geofence {
	if len(g.depots) == 0 {
		return nil
	}

	country := terminal.CountryCode()
	sameCountry := make([]*geofence.Geofence, 0)
	for _, d := range g.depots {
		if len(d.Name) >= 2 && d.Name[:2] == country {
			sameCountry = append(sameCountry, d)
		}
	}
	if len(sameCountry) > 0 {
		return sameCountry[g.rng.Intn(len(sameCountry))]
	}
	return g.depots[g.rng.Intn(len(g.depots))]
}

// railRampFor picks a rail ramp in the terminal's country when that country
// is rail-enabled, nil otherwise.
func (g *Generator) railRampFor(terminal *geofence.Geofence) *geofence.Geofence {
	country := terminal.CountryCode()
	if !g.railCountries[country] {
		return nil
	}

	candidates := make([]*geofence.Geofence, 0)
	for _, r := range g.railRamps {
		if len(r.Name) >= 2 && r.Name[:2] == country {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[g.rng.Intn(len(candidates))]
}

// GenerateLandRoute builds a truck route between two geofence centroids:
// linear interpolation perturbed up to ~5 km, endpoints exact.
func (g *Generator) GenerateLandRoute(origin, destination *geofence.Geofence) []geofence.Point {
	return g.interpolatedRoute(origin, destination, landMaxDevKm)
}

// GenerateRailRoute is a land route with a tighter deviation, since tracks
// follow fixed alignments.
func (g *Generator) GenerateRailRoute(origin, destination *geofence.Geofence) []geofence.Point {
	return g.interpolatedRoute(origin, destination, railMaxDevKm)
}

func (g *Generator) interpolatedRoute(origin, destination *geofence.Geofence, maxDevKm float64) []geofence.Point {
	oLon, oLat := origin.Centroid()
	dLon, dLat := destination.Centroid()

	waypoints := make([]geofence.Point, 0, landRouteSamples+1)
	for i := 0; i <= landRouteSamples; i++ {
		t := float64(i) / float64(landRouteSamples)
		waypoints = append(waypoints, geofence.Point{
			Lon: oLon + t*(dLon-oLon),
			Lat: oLat + t*(dLat-oLat),
		})
	}
	return g.perturb(waypoints, maxDevKm)
}

// GenerateOceanRoute builds a vessel route between two terminals: a
// great-circle path segmented through the chokepoints for the region pair,
// nudged off continental interiors, then perturbed up to ~50 km.
func (g *Generator) GenerateOceanRoute(origin, destination *geofence.Geofence) []geofence.Point {
	oLon, oLat := origin.Centroid()
	dLon, dLat := destination.Centroid()

	anchors := []geofence.Point{{Lon: oLon, Lat: oLat}}
	for _, cp := range ChokepointsFor(RegionOf(origin), RegionOf(destination)) {
		anchors = append(anchors, cp.Waypoints...)
	}
	anchors = append(anchors, geofence.Point{Lon: dLon, Lat: dLat})

	route := make([]geofence.Point, 0, (len(anchors)-1)*oceanSegmentSamples+1)
	for i := 0; i < len(anchors)-1; i++ {
		segment := greatCirclePoints(anchors[i], anchors[i+1], oceanSegmentSamples)
		if i > 0 {
			segment = segment[1:] // drop duplicate join
		}
		route = append(route, segment...)
	}

	// Nudge interior waypoints off land; endpoints are never modified.
	for i := 1; i < len(route)-1; i++ {
		if IsClearlyOnLand(route[i].Lon, route[i].Lat) {
			route[i] = NearestWaterPoint(route[i].Lon, route[i].Lat)
		}
	}

	return g.perturb(route, oceanMaxDevKm)
}

// perturb applies a Gaussian offset (sigma = maxDevKm/3) at a random bearing
// to every interior waypoint. Endpoints are preserved exactly.
func (g *Generator) perturb(waypoints []geofence.Point, maxDevKm float64) []geofence.Point {
	if len(waypoints) <= 2 {
		return waypoints
	}

	out := make([]geofence.Point, len(waypoints))
	out[0] = waypoints[0]
	out[len(waypoints)-1] = waypoints[len(waypoints)-1]

	for i := 1; i < len(waypoints)-1; i++ {
		p := waypoints[i]

		kmToLat := 1.0 / 111.0
		kmToLon := 0.0
		if cos := math.Cos(p.Lat * math.Pi / 180); cos != 0 {
			kmToLon = 1.0 / (111.0 * cos)
		}

		deviation := g.rng.NormFloat64() * (maxDevKm / 3)
		bearing := g.rng.Float64() * 2 * math.Pi

		out[i] = geofence.Point{
			Lon: p.Lon + deviation*kmToLon*math.Cos(bearing),
			Lat: p.Lat + deviation*kmToLat*math.Sin(bearing),
		}
	}
	return out
}

// greatCirclePoints samples numSamples+1 points along the great circle
// between a and b using standard spherical interpolation. Degenerate pairs
// (zero separation) interpolate linearly.
func greatCirclePoints(a, b geofence.Point, numSamples int) []geofence.Point {
	lon1 := a.Lon * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	d := 2 * math.Asin(math.Sqrt(
		math.Pow(math.Sin((lat2-lat1)/2), 2)+
			math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin((lon2-lon1)/2), 2)))

	points := make([]geofence.Point, 0, numSamples+1)
	for i := 0; i <= numSamples; i++ {
		f := float64(i) / float64(numSamples)

		var fa, fb float64
		if d > 0 {
			fa = math.Sin((1-f)*d) / math.Sin(d)
			fb = math.Sin(f*d) / math.Sin(d)
		} else {
			fa, fb = 1-f, f
		}

		x := fa*math.Cos(lat1)*math.Cos(lon1) + fb*math.Cos(lat2)*math.Cos(lon2)
		y := fa*math.Cos(lat1)*math.Sin(lon1) + fb*math.Cos(lat2)*math.Sin(lon2)
		z := fa*math.Sin(lat1) + fb*math.Sin(lat2)

		points = append(points, geofence.Point{
			Lon: math.Atan2(y, x) * 180 / math.Pi,
			Lat: math.Atan2(z, math.Sqrt(x*x+y*y)) * 180 / math.Pi,
		})
	}
	return points
}

// DistanceKm returns the haversine distance between two points.
func DistanceKm(a, b geofence.Point) float64 {
	lon1 := a.Lon * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}

// RouteLengthKm sums the leg distances of a waypoint list.
func RouteLengthKm(waypoints []geofence.Point) float64 {
	var total float64
	for i := 0; i < len(waypoints)-1; i++ {
		total += DistanceKm(waypoints[i], waypoints[i+1])
	}
	return total
}
