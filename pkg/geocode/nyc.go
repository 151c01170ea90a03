package geocode

import "github.com/a-deal/gym-finder/pkg/models"

// NYCZipTable returns approximate centroids for Manhattan ZIP codes,
// used as the default geocoding fallback.
func NYCZipTable() map[string]models.Coordinates {
	return map[string]models.Coordinates{
		"10001": {Lat: 40.7484, Lng: -73.9940}, // Midtown West
		"10002": {Lat: 40.7156, Lng: -73.9898}, // Lower East Side
		"10003": {Lat: 40.7310, Lng: -73.9898}, // East Village
		"10004": {Lat: 40.7047, Lng: -74.0142}, // Financial District
		"10005": {Lat: 40.7063, Lng: -74.0088}, // Financial District
		"10006": {Lat: 40.7095, Lng: -74.0129}, // Financial District
		"10007": {Lat: 40.7135, Lng: -74.0073}, // Financial District
		"10009": {Lat: 40.7264, Lng: -73.9776}, // East Village
		"10010": {Lat: 40.7390, Lng: -73.9826}, // Gramercy
		"10011": {Lat: 40.7415, Lng: -74.0007}, // Chelsea
		"10012": {Lat: 40.7259, Lng: -73.9997}, // SoHo
		"10013": {Lat: 40.7195, Lng: -74.0055}, // Tribeca
		"10014": {Lat: 40.7336, Lng: -74.0063}, // West Village
		"10016": {Lat: 40.7452, Lng: -73.9764}, // Gramercy
		"10017": {Lat: 40.7520, Lng: -73.9717}, // Midtown East
		"10018": {Lat: 40.7549, Lng: -73.9934}, // Midtown West
		"10019": {Lat: 40.7648, Lng: -73.9808}, // Midtown West
		"10020": {Lat: 40.7589, Lng: -73.9774}, // Midtown
		"10021": {Lat: 40.7685, Lng: -73.9540}, // Upper East Side
		"10022": {Lat: 40.7574, Lng: -73.9718}, // Midtown East
		"10023": {Lat: 40.7756, Lng: -73.9828}, // Upper West Side
		"10024": {Lat: 40.7817, Lng: -73.9759}, // Upper West Side
		"10025": {Lat: 40.7957, Lng: -73.9667}, // Upper West Side
		"10026": {Lat: 40.7984, Lng: -73.9537}, // Harlem
		"10027": {Lat: 40.8075, Lng: -73.9533}, // Harlem
		"10028": {Lat: 40.7764, Lng: -73.9531}, // Upper East Side
		"10029": {Lat: 40.7917, Lng: -73.9441}, // East Harlem
		"10030": {Lat: 40.8180, Lng: -73.9425}, // Harlem
	}
}
