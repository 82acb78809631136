package geosys

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/interface/platform"
	"github.com/earthdaily/geosys-go/service/log"
)

// ImageReference identifies a coverage image, to use with DownloadImage
type ImageReference struct {
	ImageID       string
	ImageDate     string
	ImageSensor   string
	SeasonFieldID string
}

// ImageKey indexes the image references of a coverage by date and sensor
type ImageKey struct {
	Date   string
	Sensor string
}

// GetSatelliteCoverageImageReferences retrieves the images covering the
// polygon (or season field) on the date range, and an index of image
// references for downloading.
func (c *Client) GetSatelliteCoverageImageReferences(ctx context.Context, start, end time.Time, collections []common.SatelliteImageryCollection, polygon, seasonFieldID string, coveragePercent int) ([]platform.Coverage, map[ImageKey]ImageReference, error) {
	if seasonFieldID == "" && polygon == "" {
		return nil, nil, fmt.Errorf("GetSatelliteCoverageImageReferences: 'seasonFieldID' and 'polygon' cannot be both empty")
	}

	coverages, err := c.Platform.Maps.SatelliteCoverage(ctx, seasonFieldID, polygon, start, end, "", coveragePercent, collections)
	if err != nil {
		return nil, nil, fmt.Errorf("GetSatelliteCoverageImageReferences.%w", err)
	}

	references := map[ImageKey]ImageReference{}
	for _, coverage := range coverages {
		references[ImageKey{Date: coverage.Image.Date, Sensor: coverage.Image.Sensor}] = ImageReference{
			ImageID:       coverage.Image.ID,
			ImageDate:     coverage.Image.Date,
			ImageSensor:   coverage.Image.Sensor,
			SeasonFieldID: coverage.SeasonField.ID,
		}
	}
	return coverages, references, nil
}

// DownloadImage downloads the zipped geotiff of the image to localPath
// (default: image_<id>_tiff.zip in the working directory).
func (c *Client) DownloadImage(ctx context.Context, polygon, imageID, indicator, localPath string) error {
	zipped, err := c.Platform.Maps.ZippedTiff(ctx, "", polygon, imageID, indicator)
	if err != nil {
		return fmt.Errorf("DownloadImage.%w", err)
	}
	if localPath == "" {
		localPath = fmt.Sprintf("image_%s_tiff.zip", strings.ReplaceAll(imageID, "|", "_"))
	}
	log.Logger(ctx).Sugar().Infof("writing to %s", localPath)
	if err := os.WriteFile(localPath, zipped, 0644); err != nil {
		return fmt.Errorf("DownloadImage.WriteFile: %w", err)
	}
	return nil
}

// DownloadImageDifferenceMap downloads the zipped geotiff of the NDVI
// difference between two in-season images to localPath.
func (c *Client) DownloadImageDifferenceMap(ctx context.Context, seasonFieldID, polygon, earliestImageID, latestImageID, localPath string) error {
	zipped, err := c.Platform.Maps.ZippedTiffDifferenceMap(ctx, seasonFieldID, polygon, earliestImageID, latestImageID)
	if err != nil {
		return fmt.Errorf("DownloadImageDifferenceMap.%w", err)
	}
	if localPath == "" {
		localPath = fmt.Sprintf("difference_%s_%s_tiff.zip",
			strings.ReplaceAll(earliestImageID, "|", "_"), strings.ReplaceAll(latestImageID, "|", "_"))
	}
	log.Logger(ctx).Sugar().Infof("writing to %s", localPath)
	if err := os.WriteFile(localPath, zipped, 0644); err != nil {
		return fmt.Errorf("DownloadImageDifferenceMap.WriteFile: %w", err)
	}
	return nil
}

// GetProduct returns the description of the base reference map of the
// indicator generated from the image over the season field.
func (c *Client) GetProduct(ctx context.Context, seasonFieldID, imageID, indicator string) ([]map[string]interface{}, error) {
	return c.Platform.Maps.Product(ctx, seasonFieldID, imageID, indicator)
}
