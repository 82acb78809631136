package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/service"
	"github.com/earthdaily/geosys-go/service/geometry"
)

// Weather is the client of the weather API
type Weather struct {
	baseURL string
	client  *http.Client
}

// WeatherRecord is one weather observation or forecast. The available fields
// depend on the requested $fields (e.g. "precipitation.cumulative",
// "temperature.standard").
type WeatherRecord map[string]interface{}

// Get returns the weather records of the requested type at the centroid of
// the polygon between start and end. fields selects the weather fields to
// retrieve; "Date" is always included. Records are sorted by date.
func (s *Weather) Get(ctx context.Context, polygon string, start, end time.Time, weatherType common.WeatherTypeCollection, fields []string) ([]WeatherRecord, error) {
	switch weatherType {
	case common.WeatherForecastDaily, common.WeatherForecastHourly, common.WeatherHistoricalDaily:
	default:
		return nil, fmt.Errorf("Weather.Get: unknown weather type: %s", weatherType)
	}

	hasDate := false
	for _, f := range fields {
		if f == "Date" {
			hasDate = true
		}
	}
	if !hasDate {
		// do not grow into the caller's backing array
		fields = append(append(make([]string, 0, len(fields)+1), fields...), "Date")
	}

	location, err := geometry.Centroid(polygon)
	if err != nil {
		return nil, fmt.Errorf("Weather.Get.%w", err)
	}

	dates := url.QueryEscape(fmt.Sprintf("$between:%sT00:00:00.0000000Z|%sT00:00:00.0000000Z",
		start.Format("2006-01-02"), end.Format("2006-01-02")))
	u := fmt.Sprintf("%s/%s?$offset=0&$limit=None&$count=false&Location=%s&Date=%s&Provider=GLOBAL1&WeatherType=%s&$fields=%s",
		s.baseURL, common.WeatherEndpoint, url.QueryEscape(location), dates, weatherType, strings.Join(fields, ","))

	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("Weather.Get.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("Weather.Get: %w", resp.Err())
	}
	var records []WeatherRecord
	if err := resp.JSON(&records); err != nil {
		return nil, fmt.Errorf("Weather.Get.%w", err)
	}
	for _, r := range records {
		r["Location"] = location
	}
	sort.SliceStable(records, func(i, j int) bool {
		di, _ := records[i]["date"].(string)
		dj, _ := records[j]["date"].(string)
		return di < dj
	})
	return records, nil
}
