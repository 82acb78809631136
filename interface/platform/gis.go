package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/earthdaily/geosys-go/service"
	"github.com/earthdaily/geosys-go/service/log"
)

// GIS is the client of the gis layer services
type GIS struct {
	baseURL string
	client  *http.Client
}

// MunicipioID returns the id of the brazilian municipio intersecting the
// geometry, or 0 when no municipio is found.
func (s *GIS) MunicipioID(ctx context.Context, geometry string) (int, error) {
	payload := map[string]interface{}{
		"properties": []string{"id"},
		"features":   []string{geometry},
	}
	u := fmt.Sprintf("%s/layerservices/api/v1/layers/BRAZIL_MUNICIPIOS/intersect", s.baseURL)

	resp, err := service.HTTPPost(ctx, s.client, u, payload, nil)
	if err != nil {
		return 0, fmt.Errorf("MunicipioID.%w", err)
	}
	if !resp.OK() {
		return 0, fmt.Errorf("MunicipioID: %w", resp.Err())
	}

	var features [][]struct {
		Properties struct {
			ID json.Number `json:"id"`
		} `json:"properties"`
	}
	if err := resp.JSON(&features); err != nil || len(features) == 0 || len(features[0]) == 0 {
		log.Logger(ctx).Sugar().Warnf("no municipio id found for this geometry")
		return 0, nil
	}
	id, err := features[0][0].Properties.ID.Int64()
	if err != nil {
		log.Logger(ctx).Sugar().Warnf("no municipio id found for this geometry")
		return 0, nil
	}
	return int(id), nil
}

// FarmInfoFromLocation returns the boundary and attributes of the registered
// farm (brazilian CAR properties layer) at the location.
func (s *GIS) FarmInfoFromLocation(ctx context.Context, latitude, longitude string) ([]map[string]interface{}, error) {
	u := fmt.Sprintf("%s/layerservices/api/v1/layers/BR_CAR_PROPERTIES/feature?LOCATION=%s,%s&format=wkt", s.baseURL, latitude, longitude)
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("FarmInfoFromLocation.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("FarmInfoFromLocation: %w", resp.Err())
	}
	var info []map[string]interface{}
	if err := resp.JSON(&info); err != nil {
		return nil, fmt.Errorf("FarmInfoFromLocation.%w", err)
	}
	return info, nil
}
