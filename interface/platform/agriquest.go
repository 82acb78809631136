package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/service"
)

// Agriquest is the client of the AgriQuest crop monitoring API, serving
// aggregated values per administrative monitoring unit (AMU) of a block.
type Agriquest struct {
	baseURL string
	client  *http.Client
}

// AMUValue is the value of one AMU of a block
type AMUValue map[string]interface{}

// Weather indicator type ids:
//   - 2: ENS observed data
//   - 3: Arome observed data (Meteo France, France only)
//   - 4: ECMWF forecast data
//   - 5: GFS forecast data
const (
	IndicatorENSObserved   = 2
	IndicatorAromeObserved = 3
	IndicatorECMWFForecast = 4
	IndicatorGFSForecast   = 5
)

// WeatherIndicators builds the indicator type ids covering the date range.
// French blocks use the Meteo France observed data.
func WeatherIndicators(start, end time.Time, france bool) []int {
	today := time.Now().Truncate(24 * time.Hour)
	var indicators []int
	if end.After(today) {
		indicators = append(indicators, IndicatorECMWFForecast, IndicatorGFSForecast)
	}
	if start.Before(today) {
		if france {
			indicators = append(indicators, IndicatorAromeObserved)
		} else {
			indicators = append(indicators, IndicatorENSObserved)
		}
	}
	return indicators
}

// BlockWeatherData returns the value of the weather analytic for each AMU of
// the block between start and end.
func (s *Agriquest) BlockWeatherData(ctx context.Context, start, end time.Time, block common.AgriquestBlock, indicators []int, weatherType common.AgriquestWeatherType) ([]AMUValue, error) {
	payload := map[string]interface{}{
		"analyticName":     weatherAnalyticName(weatherType),
		"commodityId":      int(common.AllVegetation),
		"startDate":        start.Format("2006-01-02"),
		"endDate":          end.Format("2006-01-02"),
		"idPixelType":      1,
		"idBlock":          int(block),
		"indicatorTypeIds": indicators,
	}
	u := fmt.Sprintf("%s/%s/%s/export-map/year-of-interest", s.baseURL, common.AgriquestEndpoint, weatherType)

	resp, err := service.HTTPPost(ctx, s.client, u, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("BlockWeatherData.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("BlockWeatherData: %w", resp.Err())
	}
	values, err := decodeExportMap(resp, nil)
	if err != nil {
		return nil, fmt.Errorf("BlockWeatherData.%w", err)
	}
	return values, nil
}

// BlockNDVIData returns the NDVI of the commodity for each AMU of the block
// at the given date.
func (s *Agriquest) BlockNDVIData(ctx context.Context, date time.Time, block common.AgriquestBlock, commodity common.AgriquestCommodity, indicators []int) ([]AMUValue, error) {
	payload := map[string]interface{}{
		"analyticName":     "NDVI",
		"commodityId":      int(commodity),
		"dayOfMeasure":     date.Format("2006-01-02"),
		"idPixelType":      1,
		"idBlock":          int(block),
		"indicatorTypeIds": indicators,
	}
	u := fmt.Sprintf("%s/%s/vegetation-vigor-index/export-map/year-of-interest", s.baseURL, common.AgriquestEndpoint)

	resp, err := service.HTTPPost(ctx, s.client, u, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("BlockNDVIData.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("BlockNDVIData: %w", resp.Err())
	}
	values, err := decodeExportMap(resp, map[string]string{"Value": "NDVI", "Valeur": "NDVI"})
	if err != nil {
		return nil, fmt.Errorf("BlockNDVIData.%w", err)
	}
	return values, nil
}

// weatherAnalyticName is the payload name of the analytic, e.g.
// CUMULATIVE_PRECIPITATION for cumulative-precipitation.
func weatherAnalyticName(weatherType common.AgriquestWeatherType) string {
	return strings.ToUpper(strings.ReplaceAll(string(weatherType), "-", "_"))
}

// decodeExportMap decodes the export-map response, a table whose first row is
// metadata and second row holds the column names. The AMU name column is
// served localized ("Name" or "Nom").
func decodeExportMap(resp service.HTTPResponse, renames map[string]string) ([]AMUValue, error) {
	var table [][]interface{}
	if err := resp.JSON(&table); err != nil {
		return nil, err
	}
	if len(table) < 2 {
		return nil, nil
	}
	columns := make([]string, len(table[1]))
	for i, c := range table[1] {
		name, _ := c.(string)
		if name == "Name" || name == "Nom" {
			name = "AMU"
		} else if renamed, ok := renames[name]; ok {
			name = renamed
		}
		columns[i] = name
	}

	values := make([]AMUValue, 0, len(table)-2)
	for _, row := range table[2:] {
		value := AMUValue{}
		for i, cell := range row {
			if i < len(columns) {
				value[columns[i]] = cell
			}
		}
		values = append(values, value)
	}
	return values, nil
}
