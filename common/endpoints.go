package common

import "regexp"

// Endpoints of the platform APIs, relative to the base url
const (
	MasterDataManagementEndpoint = "master-data-management/v6"
	VtsEndpoint                  = "vegetation-time-series/v1/season-fields"
	VtsByPixelEndpoint           = "vegetation-time-series/v1/season-fields/pixels"
	FlmCoverageEndpoint          = "field-level-maps/v4/season-fields/%s/coverage"
	FlmCatalogImageryPost        = "field-level-maps/v5/maps/catalog-imagery"
	FlmBaseReferenceMapPost      = "field-level-maps/v5/maps/base-reference-map"
	FlmReflectanceMapPost        = "field-level-maps/v5/maps/reflectance-map"
	FlmDifferenceMapPost         = "field-level-maps/v5/maps/difference-map"
	WeatherEndpoint              = "Weather/v1/weather"
	AnalyticsFabricEndpoint      = "analytics/metrics"
	AnalyticsFabricLatest        = "analytics/metrics-latest"
	AnalyticsFabricSchema        = "analytics/schemas"
	AgriquestEndpoint            = "agriquest/Geosys.Agriquest.CropMonitoring.WebApi/v0/api"
	ProcessorEventsEndpoint      = "analytics-pipeline/v1/processors/events"
	LaunchProcessorEndpoint      = "analytics-pipeline/v1/processors/%s/launch"
)

// Priority is the processing queue the platform routes a request to
type Priority string

const (
	Realtime Priority = "realtime"
	Bulk     Priority = "bulk"
)

// Header returns the X-Geosys-Task-Code value for the priority (empty for realtime)
func (p Priority) Header() string {
	if p == Bulk {
		return "Geosys_API_Bulk"
	}
	return ""
}

// SeasonFieldIDRegex extracts the id of an existing season field from the
// error message returned when creating a duplicate one.
var SeasonFieldIDRegex = regexp.MustCompile(`\sId:\s(\w+),`)
