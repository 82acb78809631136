package geosys

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/interface/platform"
	"github.com/earthdaily/geosys-go/service/log"
	"github.com/mholt/archiver"
	"golang.org/x/sync/errgroup"
)

// DatasetImage is one image of a Dataset, extracted as geotiff files on disk
type DatasetImage struct {
	ID                string
	Date              time.Time
	Sensor            string
	SpatialResolution float64
	Bands             []string
	// Files are the geotiff files extracted from the zipped map
	Files []string
}

// Dataset is a set of indicator maps downloaded and extracted under a local
// directory, one image per date.
type Dataset struct {
	Indicator string
	Images    []DatasetImage
}

// Minimum coverage of the field for an image to enter a dataset
const datasetCoveragePercent = 80

// GetImagesAsDataset downloads the indicator maps covering the polygon (or
// season field) on the date range and extracts them under localDir. Only
// images covering at least 80% of the field are considered; when several
// cover the same date, the one with the best spatial resolution is kept.
func (c *Client) GetImagesAsDataset(ctx context.Context, seasonFieldID, polygon string, start, end time.Time, collections []common.SatelliteImageryCollection, indicator, localDir string) (*Dataset, error) {
	coverages, err := c.Platform.Maps.SatelliteCoverage(ctx, seasonFieldID, polygon, start, end, indicator, datasetCoveragePercent, collections)
	if err != nil {
		return nil, fmt.Errorf("GetImagesAsDataset.%w", err)
	}

	dataset := &Dataset{Indicator: indicator}
	if len(coverages) == 0 {
		return dataset, nil
	}

	type candidate struct {
		image platform.CoverageImage
		date  time.Time
	}
	candidates := make([]candidate, 0, len(coverages))
	for _, coverage := range coverages {
		date, err := dateparse.ParseAny(coverage.Image.Date)
		if err != nil {
			return nil, fmt.Errorf("GetImagesAsDataset: parse date of image %s: %w", coverage.Image.ID, err)
		}
		candidates = append(candidates, candidate{image: coverage.Image, date: date})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].image.SpatialResolution != candidates[j].image.SpatialResolution {
			return candidates[i].image.SpatialResolution < candidates[j].image.SpatialResolution
		}
		return candidates[i].date.Before(candidates[j].date)
	})
	// one image per date, best resolution first
	seen := map[string]bool{}
	images := make([]platform.CoverageImage, 0, len(candidates))
	dates := map[string]time.Time{}
	for _, cand := range candidates {
		day := cand.date.Format("2006-01-02")
		if seen[day] {
			continue
		}
		seen[day] = true
		images = append(images, cand.image)
		dates[cand.image.ID] = cand.date
	}

	if err := os.MkdirAll(localDir, 0755); err != nil {
		return nil, fmt.Errorf("GetImagesAsDataset.MkdirAll: %w", err)
	}

	results := make([]DatasetImage, len(images))
	wg, wctx := errgroup.WithContext(ctx)
	wg.SetLimit(4)
	for i, image := range images {
		i, image := i, image
		wg.Go(func() error {
			files, err := c.downloadDatasetImage(wctx, seasonFieldID, polygon, image.ID, indicator, localDir)
			if err != nil {
				return err
			}
			bands := []string{strings.ToUpper(indicator)}
			if strings.EqualFold(indicator, "REFLECTANCE") {
				bands = image.AvailableBands
			}
			results[i] = DatasetImage{
				ID:                image.ID,
				Date:              dates[image.ID],
				Sensor:            image.Sensor,
				SpatialResolution: image.SpatialResolution,
				Bands:             bands,
				Files:             files,
			}
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, fmt.Errorf("GetImagesAsDataset.%w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Date.Before(results[j].Date) })
	dataset.Images = results
	return dataset, nil
}

// downloadDatasetImage fetches the zipped geotiff of one image and extracts it
// under its own directory, returning the geotiff files.
func (c *Client) downloadDatasetImage(ctx context.Context, seasonFieldID, polygon, imageID, indicator, localDir string) ([]string, error) {
	zipped, err := c.Platform.Maps.ZippedTiff(ctx, seasonFieldID, polygon, imageID, indicator)
	if err != nil {
		return nil, err
	}

	name := strings.ReplaceAll(imageID, "|", "_")
	zipPath := filepath.Join(localDir, name+".tiff.zip")
	if err := os.WriteFile(zipPath, zipped, 0644); err != nil {
		return nil, fmt.Errorf("downloadDatasetImage.WriteFile: %w", err)
	}
	destDir := filepath.Join(localDir, name)
	if err := archiver.NewZip().Unarchive(zipPath, destDir); err != nil {
		return nil, fmt.Errorf("downloadDatasetImage.Unarchive: %w", err)
	}
	log.Logger(ctx).Sugar().Debugf("extracted %s to %s", zipPath, destDir)

	var files []string
	err = filepath.WalkDir(destDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (strings.HasSuffix(path, ".tif") || strings.HasSuffix(path, ".tiff")) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("downloadDatasetImage.WalkDir: %w", err)
	}
	return files, nil
}
