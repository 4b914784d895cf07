package routing

import (
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// Chokepoint is a narrow strait or canal through which ocean routes between
// certain region pairs are forced to pass. Waypoints are hand-placed inside
// the navigable channel, (lon, lat) ordering.
type Chokepoint struct {
	Key       string
	Name      string
	Waypoints []geofence.Point
}

var chokepoints = map[string]Chokepoint{
	"suez": {
		Key: "suez", Name: "Suez Canal",
		Waypoints: []geofence.Point{{Lon: 32.37, Lat: 31.23}, {Lon: 32.55, Lat: 30.00}, {Lon: 32.53, Lat: 29.93}},
	},
	"panama": {
		Key: "panama", Name: "Panama Canal",
		Waypoints: []geofence.Point{{Lon: -79.92, Lat: 9.38}, {Lon: -79.55, Lat: 8.95}},
	},
	"malacca": {
		Key: "malacca", Name: "Strait of Malacca",
		Waypoints: []geofence.Point{{Lon: 100.0, Lat: 5.0}, {Lon: 103.5, Lat: 1.2}},
	},
	"gibraltar": {
		Key: "gibraltar", Name: "Strait of Gibraltar",
		Waypoints: []geofence.Point{{Lon: -5.6, Lat: 35.95}, {Lon: -5.95, Lat: 35.9}},
	},
	"cape_good_hope": {
		Key: "cape_good_hope", Name: "Cape of Good Hope",
		Waypoints: []geofence.Point{{Lon: 18.47, Lat: -34.36}, {Lon: 20.0, Lat: -35.0}, {Lon: 25.0, Lat: -34.0}},
	},
	"english_channel": {
		Key: "english_channel", Name: "English Channel",
		Waypoints: []geofence.Point{{Lon: -1.5, Lat: 50.0}, {Lon: 1.5, Lat: 51.0}},
	},
	"bab_el_mandeb": {
		Key: "bab_el_mandeb", Name: "Bab el-Mandeb Strait",
		Waypoints: []geofence.Point{{Lon: 43.3, Lat: 12.6}, {Lon: 43.5, Lat: 12.4}},
	},
	"singapore": {
		Key: "singapore", Name: "Singapore Strait",
		Waypoints: []geofence.Point{{Lon: 103.8, Lat: 1.25}, {Lon: 104.1, Lat: 1.2}},
	},
	"taiwan": {
		Key: "taiwan", Name: "Taiwan Strait",
		Waypoints: []geofence.Point{{Lon: 119.5, Lat: 24.0}, {Lon: 120.0, Lat: 25.0}},
	},
	"hormuz": {
		Key: "hormuz", Name: "Strait of Hormuz",
		Waypoints: []geofence.Point{{Lon: 56.4, Lat: 26.5}, {Lon: 56.0, Lat: 26.0}},
	},
}

type regionPair struct {
	origin, dest Region
}

// routeChokepoints lists, per ordered region pair, the chokepoint keys an
// ocean route passes through. Pairs absent in both directions sail direct.
var routeChokepoints = map[regionPair][]string{
	// Asia to Europe / US East (via Suez)
	{RegionAsia, RegionEU}:      {"malacca", "singapore", "bab_el_mandeb", "suez", "gibraltar"},
	{RegionChina, RegionEU}:     {"taiwan", "malacca", "singapore", "bab_el_mandeb", "suez", "gibraltar"},
	{RegionJapan, RegionEU}:     {"malacca", "singapore", "bab_el_mandeb", "suez", "gibraltar"},
	{RegionKorea, RegionEU}:     {"malacca", "singapore", "bab_el_mandeb", "suez", "gibraltar"},
	{RegionAsia, RegionUSEast}:  {"malacca", "singapore", "bab_el_mandeb", "suez", "gibraltar"},
	{RegionChina, RegionUSEast}: {"taiwan", "malacca", "singapore", "bab_el_mandeb", "suez", "gibraltar"},

	// Asia to US West: direct Pacific
	{RegionAsia, RegionUSWest}:  {},
	{RegionChina, RegionUSWest}: {},
	{RegionJapan, RegionUSWest}: {},
	{RegionKorea, RegionUSWest}: {},

	// Europe to US
	{RegionEU, RegionUSEast}:  {"english_channel"},
	{RegionEU, RegionUSWest}:  {"english_channel", "panama"},
	{RegionMed, RegionUSEast}: {"gibraltar"},
	{RegionMed, RegionUSWest}: {"gibraltar", "panama"},

	// US coastal trade
	{RegionUSEast, RegionUSWest}: {"panama"},

	// Middle East
	{RegionMENA, RegionAsia}:   {"hormuz", "singapore", "malacca"},
	{RegionMENA, RegionEU}:     {"suez", "gibraltar"},
	{RegionMENA, RegionUSEast}: {"suez", "gibraltar"},

	// India
	{RegionIndia, RegionEU}:     {"bab_el_mandeb", "suez", "gibraltar"},
	{RegionIndia, RegionUSEast}: {"bab_el_mandeb", "suez", "gibraltar"},
	{RegionIndia, RegionAsia}:   {"singapore", "malacca"},
	{RegionIndia, RegionChina}:  {"singapore", "malacca"},

	// Oceania
	{RegionOceania, RegionAsia}:   {"singapore"},
	{RegionOceania, RegionEU}:     {"singapore", "malacca", "bab_el_mandeb", "suez", "gibraltar"},
	{RegionOceania, RegionUSWest}: {},

	// Africa
	{RegionAfrica, RegionEU}:     {"cape_good_hope", "gibraltar"},
	{RegionAfrica, RegionAsia}:   {"cape_good_hope", "singapore"},
	{RegionAfrica, RegionUSEast}: {"cape_good_hope"},
}

// ChokepointsFor returns the chokepoints an ocean route between the two
// regions passes through, in sailing order. A pair only present in the
// opposite direction is returned reversed; an unknown pair is empty (direct).
func ChokepointsFor(origin, dest Region) []Chokepoint {
	if keys, ok := routeChokepoints[regionPair{origin, dest}]; ok {
		return resolveChokepoints(keys, false)
	}
	if keys, ok := routeChokepoints[regionPair{dest, origin}]; ok {
		return resolveChokepoints(keys, true)
	}
	return nil
}

func resolveChokepoints(keys []string, reversed bool) []Chokepoint {
	out := make([]Chokepoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, chokepoints[k])
	}
	if reversed {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
