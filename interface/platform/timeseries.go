package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/service"
)

// VegetationTimeSeries is the client of the vegetation time series API,
// serving aggregated and per-pixel index values computed on MODIS imagery.
type VegetationTimeSeries struct {
	baseURL string
	client  *http.Client
}

// Value is one aggregated time series point
type Value struct {
	Date  string  `json:"date"`
	Index string  `json:"index"`
	Value float64 `json:"value"`
}

// PixelValue is one per-pixel time series point. X and Y are the coordinates
// of the top left corner of the pixel in the MODIS sinusoidal projection,
// computed from the pixel id.
type PixelValue struct {
	Date  string  `json:"date"`
	Index string  `json:"index"`
	Value float64 `json:"value"`
	Pixel struct {
		ID string `json:"id"`
	} `json:"pixel"`
	X float64 `json:"-"`
	Y float64 `json:"-"`
}

// ModisTimeSeries returns the aggregated time series of the indicator over
// the season field between start and end.
func (s *VegetationTimeSeries) ModisTimeSeries(ctx context.Context, seasonFieldID string, start, end time.Time, indicator string) ([]Value, error) {
	u := s.valuesURL(common.VtsEndpoint, seasonFieldID, start, end, indicator)
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("ModisTimeSeries.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("ModisTimeSeries: %w", resp.Err())
	}
	var values []Value
	if err := resp.JSON(&values); err != nil {
		return nil, fmt.Errorf("ModisTimeSeries.%w", err)
	}
	return values, nil
}

// TimeSeriesByPixel returns the per-pixel time series of the indicator over
// the season field between start and end, with the sinusoidal coordinates of
// each pixel.
func (s *VegetationTimeSeries) TimeSeriesByPixel(ctx context.Context, seasonFieldID string, start, end time.Time, indicator string) ([]PixelValue, error) {
	u := s.valuesURL(common.VtsByPixelEndpoint, seasonFieldID, start, end, indicator)
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("TimeSeriesByPixel.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("TimeSeriesByPixel: %w", resp.Err())
	}
	var values []PixelValue
	if err := resp.JSON(&values); err != nil {
		return nil, fmt.Errorf("TimeSeriesByPixel.%w", err)
	}
	for i := range values {
		x, y, err := PixelCoordinates(values[i].Pixel.ID)
		if err != nil {
			return nil, fmt.Errorf("TimeSeriesByPixel.%w", err)
		}
		values[i].X, values[i].Y = x, y
	}
	return values, nil
}

func (s *VegetationTimeSeries) valuesURL(endpoint, seasonFieldID string, start, end time.Time, indicator string) string {
	filter := url.QueryEscape(fmt.Sprintf("Date >= '%s' and Date <= '%s'", start.Format("2006-01-02"), end.Format("2006-01-02")))
	return fmt.Sprintf("%s/%s/values?$offset=0&$limit=None&$count=false&SeasonField.Id=%s&index=%s&$filter=%s",
		s.baseURL, endpoint, seasonFieldID, indicator, filter)
}

// Pixel size in meters in the MODIS sinusoidal projection, and theoretical
// size of the grid (4800x4800 pixels per tile, 36x18 tiles).
const (
	modisPSX        = 231.65635826
	modisPSY        = -231.65635826
	modisGridLength = 4800 * modisPSX * 36
	modisGridHeight = 4800 * modisPSY * 18
)

var pixelIDRegex = regexp.MustCompile(`h(\d+)v(\d+)i(\d+)j(\d+)$`)

// PixelCoordinates computes the coordinates of the top left corner of the
// pixel in the MODIS sinusoidal projection from a pixel id such as
// "mh11v4i225j4612" (tile h,v ; pixel i,j).
func PixelCoordinates(pixelID string) (float64, float64, error) {
	m := pixelIDRegex.FindStringSubmatch(pixelID)
	if m == nil {
		return 0, 0, fmt.Errorf("PixelCoordinates: invalid pixel id: %s", pixelID)
	}
	h, _ := strconv.Atoi(m[1])
	v, _ := strconv.Atoi(m[2])
	i, _ := strconv.Atoi(m[3])
	j, _ := strconv.Atoi(m[4])

	// top left corner of the tile's top left pixel
	xul := float64(h+1)*4800*modisPSX - modisGridLength/2
	yul := float64(v+1)*4800*modisPSY + modisGridHeight/2

	return float64(i)*modisPSX + xul, float64(j)*modisPSY + yul, nil
}
