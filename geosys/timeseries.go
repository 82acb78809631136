package geosys

import (
	"context"
	"fmt"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/interface/platform"
)

// TimeSeries is the result of a time series query: aggregated MODIS values
// for a low-resolution imagery collection, weather records for a weather
// collection.
type TimeSeries struct {
	Values  []platform.Value
	Weather []platform.WeatherRecord
}

// GetTimeSeries retrieves a time series of the indicators for the aggregated
// polygon (or season field) on the targeted collection. collection is either
// a weather collection or a low-resolution imagery collection.
func (c *Client) GetTimeSeries(ctx context.Context, start, end time.Time, collection string, indicators []string, polygon, seasonFieldID string) (TimeSeries, error) {
	switch common.WeatherTypeCollection(collection) {
	case common.WeatherForecastDaily, common.WeatherForecastHourly, common.WeatherHistoricalDaily:
		if polygon == "" {
			return TimeSeries{}, fmt.Errorf("GetTimeSeries: 'polygon' cannot be empty for a weather collection")
		}
		weather, err := c.Platform.Weather.Get(ctx, polygon, start, end, common.WeatherTypeCollection(collection), indicators)
		if err != nil {
			return TimeSeries{}, fmt.Errorf("GetTimeSeries.%w", err)
		}
		return TimeSeries{Weather: weather}, nil
	}

	if common.SatelliteImageryCollection(collection).LowResolution() {
		if len(indicators) == 0 {
			return TimeSeries{}, fmt.Errorf("GetTimeSeries: 'indicators' cannot be empty")
		}
		seasonFieldID, err := c.resolveSeasonFieldID(ctx, polygon, seasonFieldID)
		if err != nil {
			return TimeSeries{}, fmt.Errorf("GetTimeSeries.%w", err)
		}
		values, err := c.Platform.TimeSeries.ModisTimeSeries(ctx, seasonFieldID, start, end, indicators[0])
		if err != nil {
			return TimeSeries{}, fmt.Errorf("GetTimeSeries.%w", err)
		}
		return TimeSeries{Values: values}, nil
	}

	return TimeSeries{}, fmt.Errorf("GetTimeSeries: %s collection doesn't exist", collection)
}

// ImageTimeSeries is the result of a satellite image time series query:
// per-pixel values for low-resolution collections, a dataset of extracted
// geotiffs for mid-resolution collections.
type ImageTimeSeries struct {
	Pixels  []platform.PixelValue
	Dataset *Dataset
}

// GetSatelliteImageTimeSeries retrieves a pixel-by-pixel time series of the
// indicator on the targeted collections. Low-resolution collections are
// served by the vegetation time series API; mid-resolution collections (or a
// nil collection list) build a dataset of geotiffs extracted under localDir.
func (c *Client) GetSatelliteImageTimeSeries(ctx context.Context, start, end time.Time, collections []common.SatelliteImageryCollection, indicators []string, polygon, seasonFieldID, localDir string) (ImageTimeSeries, error) {
	if seasonFieldID == "" && polygon == "" {
		return ImageTimeSeries{}, fmt.Errorf("GetSatelliteImageTimeSeries: 'seasonFieldID' and 'polygon' cannot be both empty")
	}
	if len(indicators) == 0 {
		return ImageTimeSeries{}, fmt.Errorf("GetSatelliteImageTimeSeries: 'indicators' cannot be empty")
	}

	if collections == nil {
		dataset, err := c.GetImagesAsDataset(ctx, seasonFieldID, polygon, start, end, nil, indicators[0], localDir)
		if err != nil {
			return ImageTimeSeries{}, fmt.Errorf("GetSatelliteImageTimeSeries.%w", err)
		}
		return ImageTimeSeries{Dataset: dataset}, nil
	}

	lr, mr := true, true
	for _, collection := range collections {
		lr = lr && collection.LowResolution()
		mr = mr && collection.MidResolution()
	}
	switch {
	case lr:
		seasonFieldID, err := c.resolveSeasonFieldID(ctx, polygon, seasonFieldID)
		if err != nil {
			return ImageTimeSeries{}, fmt.Errorf("GetSatelliteImageTimeSeries.%w", err)
		}
		pixels, err := c.Platform.TimeSeries.TimeSeriesByPixel(ctx, seasonFieldID, start, end, indicators[0])
		if err != nil {
			return ImageTimeSeries{}, fmt.Errorf("GetSatelliteImageTimeSeries.%w", err)
		}
		return ImageTimeSeries{Pixels: pixels}, nil
	case mr:
		dataset, err := c.GetImagesAsDataset(ctx, seasonFieldID, polygon, start, end, collections, indicators[0], localDir)
		if err != nil {
			return ImageTimeSeries{}, fmt.Errorf("GetSatelliteImageTimeSeries.%w", err)
		}
		return ImageTimeSeries{Dataset: dataset}, nil
	}
	return ImageTimeSeries{}, fmt.Errorf("GetSatelliteImageTimeSeries: collections must all be low-resolution or all mid-resolution")
}
