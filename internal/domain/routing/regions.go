package routing

import (
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// Region is a coarse trade-lane classification of a port's location.
type Region string

const (
	RegionUSEast   Region = "US_EAST"
	RegionUSWest   Region = "US_WEST"
	RegionCanada   Region = "CANADA"
	RegionEU       Region = "EU"
	RegionMed      Region = "MED"
	RegionChina    Region = "CHINA"
	RegionJapan    Region = "JAPAN"
	RegionKorea    Region = "KOREA"
	RegionAsia     Region = "ASIA"
	RegionIndia    Region = "INDIA"
	RegionMENA     Region = "MENA"
	RegionOceania  Region = "OCEANIA"
	RegionAtlantic Region = "ATLANTIC"
	RegionAfrica   Region = "AFRICA"
	RegionUnknown  Region = "UNKNOWN"
)

// usEastWestSplit is the longitude separating US East from US West ports.
const usEastWestSplit = -100.0

// countryRegions maps ISO country codes to candidate regions, most specific
// first. A country may belong to several regions (e.g. CN is CHINA and ASIA).
var countryRegions = map[string][]Region{
	"US": {RegionUSEast, RegionUSWest},
	"CA": {RegionCanada},

	"GB": {RegionEU}, "DE": {RegionEU}, "NL": {RegionEU}, "BE": {RegionEU},
	"FR": {RegionEU}, "PT": {RegionEU}, "PL": {RegionEU}, "SE": {RegionEU},
	"NO": {RegionEU}, "DK": {RegionEU}, "FI": {RegionEU}, "IE": {RegionEU},

	"ES": {RegionEU, RegionMed}, "IT": {RegionEU, RegionMed},
	"GR": {RegionMed}, "HR": {RegionMed}, "SI": {RegionMed},
	"MT": {RegionMed}, "CY": {RegionMed},
	"TR": {RegionMed, RegionMENA},

	"CN": {RegionChina, RegionAsia}, "HK": {RegionChina, RegionAsia},
	"JP": {RegionJapan, RegionAsia},
	"KR": {RegionKorea, RegionAsia},
	"TW": {RegionAsia}, "SG": {RegionAsia}, "MY": {RegionAsia},
	"TH": {RegionAsia}, "VN": {RegionAsia}, "ID": {RegionAsia},
	"PH": {RegionAsia},

	"IN": {RegionIndia}, "BD": {RegionIndia}, "LK": {RegionIndia},
	"PK": {RegionIndia},

	"AE": {RegionMENA}, "SA": {RegionMENA}, "EG": {RegionMENA},
	"IL": {RegionMENA}, "JO": {RegionMENA}, "OM": {RegionMENA},
	"QA": {RegionMENA}, "KW": {RegionMENA}, "BH": {RegionMENA},

	"AU": {RegionOceania}, "NZ": {RegionOceania},

	"BR": {RegionAtlantic}, "AR": {RegionAtlantic}, "CL": {RegionAtlantic},
	"CO": {RegionAtlantic}, "VE": {RegionAtlantic}, "PE": {RegionAtlantic},
	"EC": {RegionAtlantic},

	"ZA": {RegionAfrica}, "KE": {RegionAfrica}, "NG": {RegionAfrica},
	"GH": {RegionAfrica}, "TZ": {RegionAfrica}, "MA": {RegionAfrica},
	"DZ": {RegionAfrica}, "TN": {RegionAfrica},
}

// RegionOf classifies a terminal into a trade region by the country prefix of
// its name. US ports are split east/west by the centroid longitude.
func RegionOf(g *geofence.Geofence) Region {
	name := g.Name
	if len(name) < 2 {
		return RegionUnknown
	}
	country := name[:2]

	candidates, ok := countryRegions[country]
	if !ok {
		return RegionUnknown
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	if country == "US" {
		lon, _ := g.Centroid()
		if lon > usEastWestSplit {
			return RegionUSEast
		}
		return RegionUSWest
	}

	return candidates[0]
}
