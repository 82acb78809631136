package geosys

import (
	"context"
	"fmt"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/interface/platform"
)

// GetAgriquestWeatherBlockData returns the value of the weather analytic for
// each AMU of the block between start and end, picking the observed and
// forecast indicators covering the date range.
func (c *Client) GetAgriquestWeatherBlockData(ctx context.Context, start, end time.Time, block common.AgriquestBlock, weatherType common.AgriquestWeatherType) ([]platform.AMUValue, error) {
	indicators := platform.WeatherIndicators(start, end, block.France())
	values, err := c.Platform.Agriquest.BlockWeatherData(ctx, start, end, block, indicators, weatherType)
	if err != nil {
		return nil, fmt.Errorf("GetAgriquestWeatherBlockData.%w", err)
	}
	return values, nil
}

// GetAgriquestNDVIBlockData returns the NDVI of the commodity for each AMU of
// the block at the given date.
func (c *Client) GetAgriquestNDVIBlockData(ctx context.Context, date time.Time, block common.AgriquestBlock, commodity common.AgriquestCommodity) ([]platform.AMUValue, error) {
	values, err := c.Platform.Agriquest.BlockNDVIData(ctx, date, block, commodity, []int{1})
	if err != nil {
		return nil, fmt.Errorf("GetAgriquestNDVIBlockData.%w", err)
	}
	return values, nil
}
