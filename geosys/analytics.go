package geosys

import (
	"context"
	"fmt"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/interface/platform"
	"github.com/earthdaily/geosys-go/service/geometry"
)

// Analytics fabric schemas under which the processors store their results
const (
	SchemaInSeasonHarvest     = "INSEASON_HARVEST"
	SchemaHistoricalHarvest   = "HISTORICAL_HARVEST"
	SchemaInSeasonEmergence   = "INSEASON_EMERGENCE"
	SchemaHistoricalEmergence = "HISTORICAL_EMERGENCE"
	SchemaEmergenceDelay      = "EMERGENCE_DELAY"
	SchemaCropIdentification  = "CROP_IDENTIFICATION"
	SchemaPotentialScore      = "POTENTIAL_SCORE"
	SchemaGreenness           = "GREENNESS"
	SchemaHarvestReadiness    = "HARVEST_READINESS"
	SchemaPlantedArea         = "PLANTED_AREA"
	SchemaZarc                = "ZARC"
)

func harvestSchema(harvestType common.Harvest) string {
	if harvestType == common.HarvestInSeason {
		return SchemaInSeasonHarvest
	}
	return SchemaHistoricalHarvest
}

func emergenceSchema(emergenceType common.Emergence) string {
	switch emergenceType {
	case common.EmergenceInSeason:
		return SchemaInSeasonEmergence
	case common.EmergenceHistorical:
		return SchemaHistoricalEmergence
	default:
		return SchemaEmergenceDelay
	}
}

// resolveAnalyticsField validates the polygon and resolves the unique id of
// the season field the analytics are attached to.
func (c *Client) resolveAnalyticsField(ctx context.Context, polygon, seasonFieldID string) (uid, wkt string, err error) {
	if polygon != "" {
		if wkt, err = geometry.ToWKT(polygon); err != nil {
			return "", "", fmt.Errorf("resolveAnalyticsField: invalid geometry: %w", err)
		}
	}
	if uid, err = c.resolveSeasonFieldUniqueID(ctx, wkt, seasonFieldID); err != nil {
		return "", "", err
	}
	return uid, wkt, nil
}

// waitAndFetchMetrics waits for the processor task to end, then returns the
// latest metrics of the schema for the season field.
func (c *Client) waitAndFetchMetrics(ctx context.Context, taskID, seasonFieldUID, schemaID string) ([]platform.Metric, error) {
	if _, err := c.Platform.Processor.WaitForTask(ctx, taskID); err != nil {
		return nil, err
	}
	return c.Platform.Analytics.LatestMetrics(ctx, seasonFieldUID, schemaID)
}

// GetHarvestAnalytics runs the harvest processor on the season field (created
// from the polygon if no id is given) and returns the resulting metrics.
func (c *Client) GetHarvestAnalytics(ctx context.Context, polygon, seasonFieldID string, season platform.SeasonParameters, harvestType common.Harvest) ([]platform.Metric, error) {
	uid, wkt, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return nil, fmt.Errorf("GetHarvestAnalytics.%w", err)
	}
	taskID, err := c.Platform.Processor.LaunchHarvest(ctx, uid, wkt, season, harvestType)
	if err != nil {
		return nil, fmt.Errorf("GetHarvestAnalytics.%w", err)
	}
	metrics, err := c.waitAndFetchMetrics(ctx, taskID, uid, harvestSchema(harvestType))
	if err != nil {
		return nil, fmt.Errorf("GetHarvestAnalytics.%w", err)
	}
	return metrics, nil
}

// GetEmergenceAnalytics runs the emergence processor on the season field and
// returns the resulting metrics.
func (c *Client) GetEmergenceAnalytics(ctx context.Context, polygon, seasonFieldID string, season platform.SeasonParameters, emergenceType common.Emergence) ([]platform.Metric, error) {
	uid, wkt, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return nil, fmt.Errorf("GetEmergenceAnalytics.%w", err)
	}
	taskID, err := c.Platform.Processor.LaunchEmergence(ctx, uid, wkt, season, emergenceType)
	if err != nil {
		return nil, fmt.Errorf("GetEmergenceAnalytics.%w", err)
	}
	metrics, err := c.waitAndFetchMetrics(ctx, taskID, uid, emergenceSchema(emergenceType))
	if err != nil {
		return nil, fmt.Errorf("GetEmergenceAnalytics.%w", err)
	}
	return metrics, nil
}

// GetBrazilCropIDAnalytics runs the brazil in-season crop identification
// processor on the season field and returns the resulting metrics.
func (c *Client) GetBrazilCropIDAnalytics(ctx context.Context, polygon, seasonFieldID string, start, end time.Time, season common.CropIdSeason) ([]platform.Metric, error) {
	uid, wkt, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return nil, fmt.Errorf("GetBrazilCropIDAnalytics.%w", err)
	}
	taskID, err := c.Platform.Processor.LaunchBrazilInSeasonCropID(ctx, uid, wkt, start, end, season)
	if err != nil {
		return nil, fmt.Errorf("GetBrazilCropIDAnalytics.%w", err)
	}
	metrics, err := c.waitAndFetchMetrics(ctx, taskID, uid, SchemaCropIdentification)
	if err != nil {
		return nil, fmt.Errorf("GetBrazilCropIDAnalytics.%w", err)
	}
	return metrics, nil
}

// GetPotentialScoreAnalytics runs the potential score processor on the season
// field and returns the resulting metrics.
func (c *Client) GetPotentialScoreAnalytics(ctx context.Context, polygon, seasonFieldID string, season platform.SeasonParameters, endDate, sowingDate time.Time, nbHistoricalYears int) ([]platform.Metric, error) {
	uid, wkt, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return nil, fmt.Errorf("GetPotentialScoreAnalytics.%w", err)
	}
	taskID, err := c.Platform.Processor.LaunchPotentialScore(ctx, uid, wkt, season, endDate, sowingDate, nbHistoricalYears)
	if err != nil {
		return nil, fmt.Errorf("GetPotentialScoreAnalytics.%w", err)
	}
	metrics, err := c.waitAndFetchMetrics(ctx, taskID, uid, SchemaPotentialScore)
	if err != nil {
		return nil, fmt.Errorf("GetPotentialScoreAnalytics.%w", err)
	}
	return metrics, nil
}

// GetGreennessAnalytics runs the greenness processor on the season field and
// returns the resulting metrics.
func (c *Client) GetGreennessAnalytics(ctx context.Context, polygon, seasonFieldID, crop string, start, end, sowingDate time.Time) ([]platform.Metric, error) {
	uid, wkt, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return nil, fmt.Errorf("GetGreennessAnalytics.%w", err)
	}
	taskID, err := c.Platform.Processor.LaunchGreenness(ctx, uid, wkt, crop, start, end, sowingDate)
	if err != nil {
		return nil, fmt.Errorf("GetGreennessAnalytics.%w", err)
	}
	metrics, err := c.waitAndFetchMetrics(ctx, taskID, uid, SchemaGreenness)
	if err != nil {
		return nil, fmt.Errorf("GetGreennessAnalytics.%w", err)
	}
	return metrics, nil
}

// GetHarvestReadinessAnalytics runs the harvest readiness processor on the
// season field and returns the resulting metrics.
func (c *Client) GetHarvestReadinessAnalytics(ctx context.Context, polygon, seasonFieldID, crop string, start, end, sowingDate time.Time) ([]platform.Metric, error) {
	uid, wkt, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return nil, fmt.Errorf("GetHarvestReadinessAnalytics.%w", err)
	}
	taskID, err := c.Platform.Processor.LaunchHarvestReadiness(ctx, uid, wkt, crop, start, end, sowingDate)
	if err != nil {
		return nil, fmt.Errorf("GetHarvestReadinessAnalytics.%w", err)
	}
	metrics, err := c.waitAndFetchMetrics(ctx, taskID, uid, SchemaHarvestReadiness)
	if err != nil {
		return nil, fmt.Errorf("GetHarvestReadinessAnalytics.%w", err)
	}
	return metrics, nil
}

// GetPlantedAreaAnalytics runs the planted area processor on the season field
// and returns the resulting metrics.
func (c *Client) GetPlantedAreaAnalytics(ctx context.Context, polygon, seasonFieldID string, start, end time.Time) ([]platform.Metric, error) {
	uid, _, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return nil, fmt.Errorf("GetPlantedAreaAnalytics.%w", err)
	}
	taskID, err := c.Platform.Processor.LaunchPlantedArea(ctx, uid, start, end)
	if err != nil {
		return nil, fmt.Errorf("GetPlantedAreaAnalytics.%w", err)
	}
	metrics, err := c.waitAndFetchMetrics(ctx, taskID, uid, SchemaPlantedArea)
	if err != nil {
		return nil, fmt.Errorf("GetPlantedAreaAnalytics.%w", err)
	}
	return metrics, nil
}

// GetZarcAnalytics runs the zarc climate risk processor on the season field
// and returns the resulting metrics. The municipio is resolved from the
// geometry when not set in the parameters.
func (c *Client) GetZarcAnalytics(ctx context.Context, polygon, seasonFieldID string, params platform.ZarcParameters) ([]platform.Metric, error) {
	uid, wkt, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return nil, fmt.Errorf("GetZarcAnalytics.%w", err)
	}
	if params.Municipio == 0 {
		municipio, err := c.Platform.GIS.MunicipioID(ctx, wkt)
		if err != nil {
			return nil, fmt.Errorf("GetZarcAnalytics.%w", err)
		}
		if municipio == 0 {
			return nil, fmt.Errorf("GetZarcAnalytics: no municipio found for this geometry")
		}
		params.Municipio = municipio
	}
	taskID, err := c.Platform.Processor.LaunchZarc(ctx, uid, params)
	if err != nil {
		return nil, fmt.Errorf("GetZarcAnalytics.%w", err)
	}
	metrics, err := c.waitAndFetchMetrics(ctx, taskID, uid, SchemaZarc)
	if err != nil {
		return nil, fmt.Errorf("GetZarcAnalytics.%w", err)
	}
	return metrics, nil
}

// DefaultMRTSParameters returns the default configuration of the mr time
// series processor: ndvi from all supported sensors since 2010, denoised and
// smoothed.
func DefaultMRTSParameters() platform.MRTSParameters {
	return platform.MRTSParameters{
		StartDate: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		Sensors: []string{
			"micasense", "sequoia", "m4c", "sentinel_2", "landsat_8",
			"landsat_9", "cbers4", "kazstsat", "alsat_1b", "huanjing_2",
			"deimos", "gaofen_1", "gaofen_6", "resourcesat2", "dmc_2",
			"landsat_5", "landsat_7", "spot", "rapideye_3a", "rapideye_1b",
		},
		Denoiser:    true,
		Smoother:    "ww",
		EOC:         true,
		Aggregation: "mean",
		Index:       "ndvi",
		RawData:     false,
	}
}

// GetMRTimeSeries runs the mr time series processor over the polygon and
// returns the s3 uri of the results.
func (c *Client) GetMRTimeSeries(ctx context.Context, polygon string, params platform.MRTSParameters) (string, error) {
	wkt, err := geometry.ToWKT(polygon)
	if err != nil {
		return "", fmt.Errorf("GetMRTimeSeries: invalid geometry: %w", err)
	}
	taskID, err := c.Platform.Processor.LaunchMRTS(ctx, wkt, params)
	if err != nil {
		return "", fmt.Errorf("GetMRTimeSeries.%w", err)
	}
	if _, err := c.Platform.Processor.WaitForTask(ctx, taskID); err != nil {
		return "", fmt.Errorf("GetMRTimeSeries.%w", err)
	}
	uri, err := c.Platform.Processor.S3Path(ctx, taskID, common.MRTSProcessor.Path)
	if err != nil {
		return "", fmt.Errorf("GetMRTimeSeries.%w", err)
	}
	return uri, nil
}

// DownloadProcessorResults fetches the files a processor stored under the s3
// uri into localDir and returns the local files.
func (c *Client) DownloadProcessorResults(ctx context.Context, uri, localDir string) ([]string, error) {
	store, err := c.resultStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("DownloadProcessorResults.%w", err)
	}
	files, err := store.DownloadResults(ctx, uri, localDir)
	if err != nil {
		return nil, fmt.Errorf("DownloadProcessorResults.%w", err)
	}
	return files, nil
}

// CreateAnalyticsSchema declares a metrics schema on the analytics fabric.
// properties maps each property name to its datatype.
func (c *Client) CreateAnalyticsSchema(ctx context.Context, schemaID string, properties map[string]string) error {
	return c.Platform.Analytics.CreateSchema(ctx, schemaID, properties)
}

// GetMetrics returns the metrics of the schema attached to the season field
// created from the polygon.
func (c *Client) GetMetrics(ctx context.Context, polygon, seasonFieldID, schemaID string, start, end *time.Time) ([]platform.Metric, error) {
	uid, _, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return nil, fmt.Errorf("GetMetrics.%w", err)
	}
	return c.Platform.Analytics.Metrics(ctx, uid, schemaID, start, end)
}

// PushMetrics saves the values on the schema, attached to the season field
// created from the polygon.
func (c *Client) PushMetrics(ctx context.Context, polygon, seasonFieldID, schemaID string, values []map[string]interface{}) error {
	uid, _, err := c.resolveAnalyticsField(ctx, polygon, seasonFieldID)
	if err != nil {
		return fmt.Errorf("PushMetrics.%w", err)
	}
	return c.Platform.Analytics.PushMetrics(ctx, uid, schemaID, values)
}
