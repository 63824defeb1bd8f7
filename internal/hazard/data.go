package hazard

import (
	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

// Approximate locations of major US water supply sources.
var defaultReservoirs = []models.Reservoir{
	{ID: "lake-mead", Name: "Lake Mead (Colorado River)", Location: geo.Point{Lat: 36.04, Lng: -114.74}, State: "NV", Serves: []string{"NV", "AZ", "CA"}},
	{ID: "lake-powell", Name: "Lake Powell", Location: geo.Point{Lat: 36.94, Lng: -111.49}, State: "AZ", Serves: []string{"AZ", "NV", "CA"}},
	{ID: "hoover", Name: "Hoover Dam / Lake Mead intake", Location: geo.Point{Lat: 36.02, Lng: -114.74}, State: "NV", Serves: []string{"NV", "AZ", "CA"}},
	{ID: "nyc-delaware", Name: "Delaware System (NYC)", Location: geo.Point{Lat: 41.95, Lng: -75.0}, State: "NY", Serves: []string{"NY"}},
	{ID: "nyc-catskill", Name: "Catskill System (NYC)", Location: geo.Point{Lat: 42.1, Lng: -74.4}, State: "NY", Serves: []string{"NY"}},
	{ID: "croton", Name: "Croton Watershed (NYC)", Location: geo.Point{Lat: 41.25, Lng: -73.65}, State: "NY", Serves: []string{"NY"}},
	{ID: "patuxent", Name: "Patuxent / Triadelphia (MD/DC)", Location: geo.Point{Lat: 39.15, Lng: -76.95}, State: "MD", Serves: []string{"MD", "DC"}},
	{ID: "occoquan", Name: "Occoquan Reservoir (VA)", Location: geo.Point{Lat: 38.68, Lng: -77.26}, State: "VA", Serves: []string{"VA", "DC"}},
	{ID: "lake-lanier", Name: "Lake Sidney Lanier", Location: geo.Point{Lat: 34.18, Lng: -84.0}, State: "GA", Serves: []string{"GA"}},
	{ID: "allatoona", Name: "Lake Allatoona", Location: geo.Point{Lat: 34.15, Lng: -84.63}, State: "GA", Serves: []string{"GA"}},
	{ID: "norris", Name: "Norris Lake (TN)", Location: geo.Point{Lat: 36.22, Lng: -84.09}, State: "TN", Serves: []string{"TN"}},
	{ID: "douglas", Name: "Douglas Lake (TN)", Location: geo.Point{Lat: 36.0, Lng: -83.4}, State: "TN", Serves: []string{"TN"}},
	{ID: "toledo-bend", Name: "Toledo Bend Reservoir", Location: geo.Point{Lat: 31.2, Lng: -93.6}, State: "LA", Serves: []string{"LA", "TX"}},
	{ID: "lake-travis", Name: "Lake Travis (TX)", Location: geo.Point{Lat: 30.42, Lng: -97.92}, State: "TX", Serves: []string{"TX"}},
	{ID: "lake-tawakoni", Name: "Lake Tawakoni", Location: geo.Point{Lat: 32.85, Lng: -95.95}, State: "TX", Serves: []string{"TX"}},
	{ID: "grand-lake-ok", Name: "Grand Lake O' the Cherokees", Location: geo.Point{Lat: 36.58, Lng: -94.85}, State: "OK", Serves: []string{"OK"}},
	{ID: "lake-ouachita", Name: "Lake Ouachita", Location: geo.Point{Lat: 34.65, Lng: -93.35}, State: "AR", Serves: []string{"AR"}},
	{ID: "lake-degray", Name: "DeGray Lake", Location: geo.Point{Lat: 34.18, Lng: -93.08}, State: "AR", Serves: []string{"AR"}},
	{ID: "lake-michigan-intake", Name: "Lake Michigan intake (Chicago)", Location: geo.Point{Lat: 41.88, Lng: -87.62}, State: "IL", Serves: []string{"IL"}},
	{ID: "ohio-river", Name: "Ohio River (Cincinnati area)", Location: geo.Point{Lat: 39.1, Lng: -84.5}, State: "OH", Serves: []string{"OH", "KY", "IN"}},
}

var defaultFacilities = []models.Facility{
	// Nuclear
	{ID: "indian-point", Name: "Indian Point (decommissioned)", Location: geo.Point{Lat: 41.27, Lng: -73.95}, State: "NY", Type: models.FacilityNuclear},
	{ID: "salem", Name: "Salem / Hope Creek (NJ)", Location: geo.Point{Lat: 39.47, Lng: -75.54}, State: "NJ", Type: models.FacilityNuclear},
	{ID: "limerick", Name: "Limerick (PA)", Location: geo.Point{Lat: 40.23, Lng: -75.59}, State: "PA", Type: models.FacilityNuclear},
	{ID: "three-mile", Name: "Three Mile Island (PA)", Location: geo.Point{Lat: 40.15, Lng: -76.72}, State: "PA", Type: models.FacilityNuclear},
	{ID: "sequoyah", Name: "Sequoyah (TN)", Location: geo.Point{Lat: 35.22, Lng: -85.09}, State: "TN", Type: models.FacilityNuclear},
	{ID: "watts-bar", Name: "Watts Bar (TN)", Location: geo.Point{Lat: 35.6, Lng: -84.79}, State: "TN", Type: models.FacilityNuclear},
	{ID: "vogtle", Name: "Vogtle (GA)", Location: geo.Point{Lat: 33.14, Lng: -81.76}, State: "GA", Type: models.FacilityNuclear},
	{ID: "comanche-peak", Name: "Comanche Peak (TX)", Location: geo.Point{Lat: 32.3, Lng: -97.79}, State: "TX", Type: models.FacilityNuclear},
	{ID: "south-texas", Name: "South Texas Project", Location: geo.Point{Lat: 28.8, Lng: -96.05}, State: "TX", Type: models.FacilityNuclear},
	// Refineries
	{ID: "bayway", Name: "Bayway Refinery (NJ)", Location: geo.Point{Lat: 40.64, Lng: -74.24}, State: "NJ", Type: models.FacilityRefinery},
	{ID: "philadelphia-ref", Name: "Philadelphia Refinery (PA)", Location: geo.Point{Lat: 39.83, Lng: -75.22}, State: "PA", Type: models.FacilityRefinery},
	{ID: "baton-rouge", Name: "Baton Rouge Refinery (LA)", Location: geo.Point{Lat: 30.45, Lng: -91.19}, State: "LA", Type: models.FacilityRefinery},
	{ID: "port-arthur", Name: "Port Arthur Refinery (TX)", Location: geo.Point{Lat: 29.9, Lng: -93.93}, State: "TX", Type: models.FacilityRefinery},
	{ID: "texas-city", Name: "Texas City Refinery (TX)", Location: geo.Point{Lat: 29.38, Lng: -94.9}, State: "TX", Type: models.FacilityRefinery},
	// Power plants
	{ID: "indian-river", Name: "Indian River Power Plant (DE)", Location: geo.Point{Lat: 38.78, Lng: -75.21}, State: "DE", Type: models.FacilityPowerPlant},
	{ID: "bowen", Name: "Bowen (GA)", Location: geo.Point{Lat: 34.12, Lng: -84.93}, State: "GA", Type: models.FacilityPowerPlant},
	{ID: "paradise", Name: "Paradise (KY)", Location: geo.Point{Lat: 37.26, Lng: -86.98}, State: "KY", Type: models.FacilityPowerPlant},
	{ID: "gibson", Name: "Gibson (IN)", Location: geo.Point{Lat: 38.37, Lng: -87.77}, State: "IN", Type: models.FacilityPowerPlant},
	{ID: "martin-creek", Name: "Martin Lake (TX)", Location: geo.Point{Lat: 32.27, Lng: -94.57}, State: "TX", Type: models.FacilityPowerPlant},
}

// US nuclear power plant sites used for the disaster outlook.
var defaultPlants = []models.Facility{
	nuclear("n-palo-verde", "Palo Verde", 33.39, -112.87),
	nuclear("n-browns-ferry", "Browns Ferry", 34.56, -87.1),
	nuclear("n-peach-bottom", "Peach Bottom", 39.76, -76.27),
	nuclear("n-susquehanna", "Susquehanna", 41.07, -76.0),
	nuclear("n-three-mile", "Three Mile Island", 40.15, -76.72),
	nuclear("n-indian-point", "Indian Point", 41.27, -73.95),
	nuclear("n-millstone", "Millstone", 41.31, -72.17),
	nuclear("n-pilgrim", "Pilgrim", 41.97, -70.58),
	nuclear("n-seabrook", "Seabrook", 42.9, -70.85),
	nuclear("n-vogtle", "Vogtle", 32.09, -81.78),
	nuclear("n-harris", "Shearon Harris", 35.63, -78.95),
	nuclear("n-mcguire", "McGuire", 35.43, -80.95),
	nuclear("n-catawba", "Catawba", 35.0, -81.07),
	nuclear("n-oconee", "Oconee", 34.8, -82.9),
	nuclear("n-summer", "V.C. Summer", 34.0, -81.0),
	nuclear("n-brunswick", "Brunswick", 33.96, -78.0),
	nuclear("n-south-texas", "South Texas", 28.8, -96.05),
	nuclear("n-comanche-peak", "Comanche Peak", 32.3, -97.78),
	nuclear("n-river-bend", "River Bend", 30.72, -91.24),
	nuclear("n-waterford", "Waterford", 29.99, -90.47),
	nuclear("n-grand-gulf", "Grand Gulf", 32.0, -91.05),
	nuclear("n-arkansas", "Arkansas Nuclear One", 35.31, -93.22),
	nuclear("n-cooper", "Cooper", 40.37, -95.63),
	nuclear("n-wolf-creek", "Wolf Creek", 38.24, -95.68),
	nuclear("n-callaway", "Callaway", 38.75, -91.78),
	nuclear("n-quad-cities", "Quad Cities", 41.72, -90.35),
	nuclear("n-byron", "Byron", 42.08, -89.28),
	nuclear("n-dresden", "Dresden", 41.45, -88.27),
	nuclear("n-braidwood", "Braidwood", 41.24, -88.22),
	nuclear("n-limerick", "Limerick", 40.23, -75.59),
	nuclear("n-beaver-valley", "Beaver Valley", 40.62, -80.43),
	nuclear("n-davis-besse", "Davis-Besse", 41.5, -82.87),
	nuclear("n-perry", "Perry", 41.8, -81.14),
	nuclear("n-fermi", "Fermi", 41.97, -83.26),
	nuclear("n-palisades", "Palisades", 42.31, -86.33),
	nuclear("n-cook", "Donald C. Cook", 41.97, -86.56),
	nuclear("n-point-beach", "Point Beach", 44.28, -87.54),
	nuclear("n-prairie-island", "Prairie Island", 44.63, -92.63),
	nuclear("n-monticello", "Monticello", 45.21, -93.82),
	nuclear("n-duane-arnold", "Duane Arnold", 41.92, -91.77),
	nuclear("n-clinton", "Clinton", 40.17, -88.84),
	nuclear("n-lasalle", "LaSalle", 41.25, -88.65),
	nuclear("n-zion", "Zion", 42.45, -87.8),
	nuclear("n-surry", "Surry", 37.17, -76.7),
	nuclear("n-north-anna", "North Anna", 38.06, -77.79),
	nuclear("n-calvert-cliffs", "Calvert Cliffs", 38.43, -76.44),
	nuclear("n-st-lucie", "St. Lucie", 27.34, -80.25),
	nuclear("n-turkey-point", "Turkey Point", 25.43, -80.33),
	nuclear("n-crystal-river", "Crystal River", 28.96, -82.72),
	nuclear("n-diablo-canyon", "Diablo Canyon", 35.21, -120.86),
}

func nuclear(id, name string, lat, lng float64) models.Facility {
	return models.Facility{ID: id, Name: name, Location: geo.Point{Lat: lat, Lng: lng}, Type: models.FacilityNuclear}
}
