package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cavaliercoder/grab"
	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/service"
	"github.com/earthdaily/geosys-go/service/log"
)

// MapProduct is the client of the field level maps API
type MapProduct struct {
	baseURL  string
	client   *http.Client
	priority common.Priority
}

// Coverage describes one image covering a season field and the maps that can
// be generated from it.
type Coverage struct {
	CoveragePercent float64        `json:"coveragePercent"`
	Maps            []MapReference `json:"maps"`
	Image           CoverageImage  `json:"image"`
	SeasonField     struct {
		ID string `json:"id"`
	} `json:"seasonField"`
}

// MapReference is a map that can be generated from an image
type MapReference struct {
	Type string `json:"type"`
}

// CoverageImage describes the image of a coverage entry
type CoverageImage struct {
	ID                string   `json:"id"`
	Sensor            string   `json:"sensor"`
	AvailableBands    []string `json:"availableBands"`
	SpatialResolution float64  `json:"spatialResolution"`
	Date              string   `json:"date"`
}

// MapType returns the maps.type parameter for an indicator. Reflectance maps
// are listed under NDVI.
func MapType(indicator string) string {
	indicator = strings.ToUpper(indicator)
	if indicator == "" || indicator == "REFLECTANCE" || indicator == "NDVI" {
		return "NDVI"
	}
	return indicator
}

// SatelliteCoverage returns the images covering the season field (or the raw
// geometry if seasonFieldID is empty) between start and end, restricted to
// the given collections (all sensors if nil).
func (s *MapProduct) SatelliteCoverage(ctx context.Context, seasonFieldID, geometry string, start, end time.Time, indicator string, coveragePercent int, collections []common.SatelliteImageryCollection) ([]Coverage, error) {
	filter := url.QueryEscape(fmt.Sprintf("Image.Date>='%s' and Image.Date<='%s'", start.Format("2006-01-02"), end.Format("2006-01-02")))
	parameters := fmt.Sprintf("?maps.type=%s&coveragePercent=%d&mask=Auto&$filter=%s", MapType(indicator), coveragePercent, filter)
	if collections != nil {
		sensors := make([]string, len(collections))
		for i, c := range collections {
			sensors[i] = string(c)
		}
		parameters = fmt.Sprintf("?maps.type=%s&Image.Sensor=$in:%s&coveragePercent=%d&mask=Auto&$filter=%s",
			MapType(indicator), strings.Join(sensors, "|"), coveragePercent, filter)
	}
	fields := "&$fields=coveragePercent,maps,image.id,image.sensor,image.availableBands,image.spatialResolution,image.date,seasonField.id"

	resp, err := service.HTTPPost(ctx, s.client,
		fmt.Sprintf("%s/%s%s%s", s.baseURL, common.FlmCatalogImageryPost, parameters, fields),
		seasonFieldPayload(seasonFieldID, geometry), priorityHeaders(s.priority))
	if err != nil {
		return nil, fmt.Errorf("SatelliteCoverage.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("SatelliteCoverage: %w", resp.Err())
	}
	var coverages []Coverage
	if err := resp.JSON(&coverages); err != nil {
		return nil, fmt.Errorf("SatelliteCoverage.%w", err)
	}
	return coverages, nil
}

func seasonFieldPayload(seasonFieldID, geometry string) map[string]interface{} {
	if seasonFieldID == "" {
		return map[string]interface{}{"seasonFields": []map[string]string{{"geometry": geometry}}}
	}
	return map[string]interface{}{"seasonFields": []map[string]string{{"id": seasonFieldID}}}
}

var zipRetryWait = 15 * time.Second

// postZip fetches a rendered map archive, retrying transient statuses
func (s *MapProduct) postZip(ctx context.Context, u string, payload interface{}) ([]byte, error) {
	var body []byte
	err := service.Retriable(ctx, func() error {
		resp, err := service.HTTPPost(ctx, s.client, u, payload, priorityHeaders(s.priority))
		if err != nil {
			return err
		}
		if !resp.OK() {
			if err := resp.Err(); service.Temporary(err) {
				return err
			}
			return service.MakeFatal(resp.Err())
		}
		body = resp.Body
		return nil
	}, zipRetryWait, 3)
	return body, err
}

// ZippedTiff returns the zipped geotiff of the indicator map generated from
// the image, at the resolution of the sensor. Reflectance maps are served by
// the top-of-canopy reflectance endpoint.
func (s *MapProduct) ZippedTiff(ctx context.Context, seasonFieldID, geometry, imageID, indicator string) ([]byte, error) {
	var u string
	if indicator != "" && strings.ToUpper(indicator) != "REFLECTANCE" {
		u = fmt.Sprintf("%s/%s/%s/image.tiff.zip?resolution=Sensor", s.baseURL, common.FlmBaseReferenceMapPost, strings.ToUpper(indicator))
	} else {
		u = fmt.Sprintf("%s/%s/TOC/image.tiff.zip?resolution=Sensor", s.baseURL, common.FlmReflectanceMapPost)
	}

	payload := map[string]interface{}{"image": map[string]string{"id": imageID}}
	if seasonFieldID == "" {
		payload["seasonField"] = map[string]string{"geometry": geometry}
	} else {
		payload["seasonField"] = map[string]string{"id": seasonFieldID}
	}

	body, err := s.postZip(ctx, u, payload)
	if err != nil {
		return nil, fmt.Errorf("ZippedTiff.%w", err)
	}
	return body, nil
}

// ZippedTiffDifferenceMap returns the zipped geotiff of the NDVI difference
// between two in-season images of the season field.
func (s *MapProduct) ZippedTiffDifferenceMap(ctx context.Context, seasonFieldID, geometry, earliestImageID, latestImageID string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s/DIFFERENCE_NDVI/image.tiff.zip", s.baseURL, common.FlmDifferenceMapPost)

	payload := map[string]interface{}{
		"earliestImage": map[string]string{"id": earliestImageID},
		"latestImage":   map[string]string{"id": latestImageID},
	}
	if seasonFieldID == "" {
		payload["seasonField"] = map[string]string{"geometry": geometry}
	} else {
		payload["seasonField"] = map[string]string{"id": seasonFieldID}
	}

	body, err := s.postZip(ctx, u, payload)
	if err != nil {
		return nil, fmt.Errorf("ZippedTiffDifferenceMap.%w", err)
	}
	return body, nil
}

// Product returns the description of the base reference map of the indicator
// generated from the image over the season field.
func (s *MapProduct) Product(ctx context.Context, seasonFieldID, imageID, indicator string) ([]map[string]interface{}, error) {
	u := fmt.Sprintf("%s/%s/%s/base-reference-map/%s",
		s.baseURL, fmt.Sprintf(common.FlmCoverageEndpoint, seasonFieldID), imageID, indicator)
	resp, err := service.HTTPGet(ctx, s.client, u, priorityHeaders(s.priority))
	if err != nil {
		return nil, fmt.Errorf("Product.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("Product: %w", resp.Err())
	}
	var products []map[string]interface{}
	if err := resp.JSON(&products); err != nil {
		return nil, fmt.Errorf("Product.%w", err)
	}
	return products, nil
}

// DownloadProductImage downloads the rendered image of the base reference map
// (e.g. ".png") to localFile.
func (s *MapProduct) DownloadProductImage(ctx context.Context, localFile, seasonFieldID, imageID, indicator, image string) error {
	u := fmt.Sprintf("%s/%s/%s/base-reference-map/%s/image%s",
		s.baseURL, fmt.Sprintf(common.FlmCoverageEndpoint, seasonFieldID), imageID, indicator, image)

	req, err := grab.NewRequest(localFile, u)
	if err != nil {
		return fmt.Errorf("DownloadProductImage.%w", err)
	}
	req = req.WithContext(ctx)
	if header := s.priority.Header(); header != "" {
		req.HTTPRequest.Header.Set("X-Geosys-Task-Code", header)
	}

	client := grab.NewClient()
	client.HTTPClient = s.client
	resp := client.Do(req)

	t := time.NewTicker(5 * time.Second)
	defer t.Stop()
loop:
	for {
		select {
		case <-t.C:
			log.Logger(ctx).Sugar().Debugf("transferred %v / %v bytes (%.2f%%)", resp.BytesComplete(), resp.Size, 100*resp.Progress())
		case <-resp.Done:
			break loop
		}
	}
	if err := resp.Err(); err != nil {
		err = fmt.Errorf("DownloadProductImage.%w", err)
		if resp.HTTPResponse == nil {
			return service.MakeTemporary(err)
		}
		switch resp.HTTPResponse.StatusCode {
		case 408, 429, 500, 501, 502, 503, 504:
			return service.MakeTemporary(err)
		}
		return err
	}
	return nil
}
