package common

// SatelliteImageryCollection is an imagery collection available on the platform
type SatelliteImageryCollection string

const (
	Modis     SatelliteImageryCollection = "MODIS"
	Sentinel2 SatelliteImageryCollection = "SENTINEL_2"
	Landsat8  SatelliteImageryCollection = "LANDSAT_8"
	Landsat9  SatelliteImageryCollection = "LANDSAT_9"
)

// LRSatelliteCollections lists the low-resolution collections (per-pixel time series)
var LRSatelliteCollections = []SatelliteImageryCollection{Modis}

// MRSatelliteCollections lists the mid-resolution collections (field-level maps)
var MRSatelliteCollections = []SatelliteImageryCollection{Landsat8, Landsat9, Sentinel2}

// LowResolution returns whether the collection belongs to LRSatelliteCollections
func (c SatelliteImageryCollection) LowResolution() bool {
	for _, lr := range LRSatelliteCollections {
		if c == lr {
			return true
		}
	}
	return false
}

// MidResolution returns whether the collection belongs to MRSatelliteCollections
func (c SatelliteImageryCollection) MidResolution() bool {
	for _, mr := range MRSatelliteCollections {
		if c == mr {
			return true
		}
	}
	return false
}

// WeatherTypeCollection is a weather collection available on the platform
type WeatherTypeCollection string

const (
	WeatherForecastDaily   WeatherTypeCollection = "FORECAST_DAILY"
	WeatherForecastHourly  WeatherTypeCollection = "FORECAST_HOURLY"
	WeatherHistoricalDaily WeatherTypeCollection = "HISTORICAL_DAILY"
)
