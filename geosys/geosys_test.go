package geosys_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/geosys"
	"github.com/earthdaily/geosys-go/interface/platform"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Season fields", func() {
	It("lists the available crops", func() {
		crops, err := client.AvailableCrops(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(crops).To(Equal([]string{"CORN", "SOYBEANS"}))
	})

	It("lists the permissions of the user", func() {
		permissions, err := client.AvailablePermissions(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(permissions).To(ContainElement("analytics:run"))
	})

	It("returns the area conversion rate of the user", func() {
		rate, err := client.AreaConversionRate(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rate).To(BeNumerically("~", 4046.85, 0.01))
	})

	It("finds the season fields contained in a geometry", func() {
		ids, err := client.SeasonFieldIDsFromGeometry(ctx, polygonWKT)
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(Equal([]string{"sf1", "sf2"}))
	})

	It("returns the detailed season fields", func() {
		fields, err := client.SeasonFields(ctx, []string{"sf1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(fields).To(HaveLen(1))
		Expect(fields[0]).To(HaveKeyWithValue("name", "Field 1"))
	})
})

var _ = Describe("Time series", func() {
	start := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 5, 31, 0, 0, 0, 0, time.UTC)

	It("serves a modis time series for a low-resolution collection", func() {
		ts, err := client.GetTimeSeries(ctx, start, end, string(common.Modis), []string{"NDVI"}, "", "sf1")
		Expect(err).NotTo(HaveOccurred())
		Expect(ts.Values).To(HaveLen(2))
		Expect(ts.Values[0].Value).To(BeNumerically("~", 0.51, 1e-9))
		Expect(ts.Weather).To(BeEmpty())
	})

	It("serves sorted weather records for a weather collection", func() {
		ts, err := client.GetTimeSeries(ctx, start, end, string(common.WeatherForecastDaily), []string{"precipitation.cumulative"}, polygonWKT, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(ts.Weather).To(HaveLen(2))
		Expect(ts.Weather[0]).To(HaveKeyWithValue("date", "2022-05-01"))
		Expect(ts.Weather[0]).To(HaveKey("Location"))
	})

	It("rejects an unknown collection", func() {
		_, err := client.GetTimeSeries(ctx, start, end, "SPOT", []string{"NDVI"}, "", "sf1")
		Expect(err).To(HaveOccurred())
	})

	It("serves a per-pixel time series with sinusoidal coordinates", func() {
		its, err := client.GetSatelliteImageTimeSeries(ctx, start, end, []common.SatelliteImageryCollection{common.Modis}, []string{"NDVI"}, "", "sf1", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(its.Pixels).To(HaveLen(1))
		Expect(its.Pixels[0].X).NotTo(BeZero())
		Expect(its.Pixels[0].Y).NotTo(BeZero())
	})

	It("rejects mixed resolution collections", func() {
		_, err := client.GetSatelliteImageTimeSeries(ctx, start, end, []common.SatelliteImageryCollection{common.Modis, common.Sentinel2}, []string{"NDVI"}, "", "sf1", "")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Dataset", func() {
	start := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 5, 31, 0, 0, 0, 0, time.UTC)

	It("keeps one image per date, best resolution first, and extracts the geotiffs", func() {
		localDir, err := os.MkdirTemp("", "dataset")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(localDir)

		dataset, err := client.GetImagesAsDataset(ctx, "sf1", "", start, end, []common.SatelliteImageryCollection{common.Sentinel2, common.Landsat8}, "NDVI", localDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(lastCoveragePercent).To(Equal("80"))
		Expect(dataset.Indicator).To(Equal("NDVI"))
		Expect(dataset.Images).To(HaveLen(1))
		Expect(dataset.Images[0].Sensor).To(Equal("SENTINEL_2"))
		Expect(dataset.Images[0].Bands).To(Equal([]string{"NDVI"}))
		Expect(dataset.Images[0].Files).To(HaveLen(1))
		Expect(filepath.Ext(dataset.Images[0].Files[0])).To(Equal(".tif"))
	})

	It("uses the available bands of the image for reflectance", func() {
		localDir, err := os.MkdirTemp("", "dataset")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(localDir)

		dataset, err := client.GetImagesAsDataset(ctx, "sf1", "", start, end, []common.SatelliteImageryCollection{common.Sentinel2}, "REFLECTANCE", localDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(dataset.Images).To(HaveLen(1))
		Expect(dataset.Images[0].Bands).To(Equal([]string{"B4", "B8"}))
	})
})

var _ = Describe("Coverage", func() {
	start := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 5, 31, 0, 0, 0, 0, time.UTC)

	It("indexes the image references by date and sensor", func() {
		coverages, references, err := client.GetSatelliteCoverageImageReferences(ctx, start, end, nil, "", "sf1", 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(coverages).To(HaveLen(2))
		ref, ok := references[geosys.ImageKey{Date: "2022-05-01T00:00:00Z", Sensor: "SENTINEL_2"}]
		Expect(ok).To(BeTrue())
		Expect(ref.ImageID).To(Equal("sentinel|2022-05-01"))
		Expect(ref.SeasonFieldID).To(Equal("sf1"))
	})

	It("downloads the zipped geotiff of an image", func() {
		localDir, err := os.MkdirTemp("", "download")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(localDir)

		localPath := filepath.Join(localDir, "image.tiff.zip")
		Expect(client.DownloadImage(ctx, polygonWKT, "sentinel|2022-05-01", "NDVI", localPath)).To(Succeed())
		info, err := os.Stat(localPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).NotTo(BeZero())
	})

	It("downloads the difference map of two images", func() {
		localDir, err := os.MkdirTemp("", "download")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(localDir)

		localPath := filepath.Join(localDir, "difference.tiff.zip")
		Expect(client.DownloadImageDifferenceMap(ctx, "sf1", "", "sentinel|2022-05-01", "sentinel|2022-05-09", localPath)).To(Succeed())
		_, err = os.Stat(localPath)
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("Analytics", func() {
	season := platform.SeasonParameters{SeasonDuration: 215, SeasonStartDay: 1, SeasonStartMonth: 4, Crop: "CORN", Year: 2022}

	It("launches the harvest processor and returns the latest metrics", func() {
		metrics, err := client.GetHarvestAnalytics(ctx, "", "sf1", season, common.HarvestInSeason)
		Expect(err).NotTo(HaveOccurred())
		Expect(metrics).To(HaveLen(1))
		Expect(metrics[0]).To(HaveKeyWithValue("date", "2022-06-12"))
		Expect(metrics[0]).To(HaveKeyWithValue("harvestDate", "2022-06-10"))
		Expect(metrics[0]).NotTo(HaveKey("Entity"))
	})

	It("resolves the municipio before launching the zarc processor", func() {
		metrics, err := client.GetZarcAnalytics(ctx, polygonWKT, "", platform.ZarcParameters{
			StartDateEmergence:    time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC),
			EndDateEmergence:      time.Date(2022, 2, 15, 0, 0, 0, 0, time.UTC),
			NbDaysSowingEmergence: 10,
			Crop:                  "CORN",
			SoilType:              common.ZarcSoilType1,
			Cycle:                 common.ZarcCycleType1,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(metrics).To(HaveLen(1))
	})

	It("fails the zarc run when no municipio covers the geometry", func() {
		_, err := client.GetZarcAnalytics(ctx, "POLYGON((0 0,0 1,1 1,1 0,0 0))", "", platform.ZarcParameters{
			StartDateEmergence:    time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC),
			EndDateEmergence:      time.Date(2022, 2, 15, 0, 0, 0, 0, time.UTC),
			NbDaysSowingEmergence: 10,
			Crop:                  "CORN",
		})
		Expect(err).To(MatchError(ContainSubstring("no municipio")))
	})

	It("returns the s3 uri of a mr time series run", func() {
		uri, err := client.GetMRTimeSeries(ctx, polygonWKT, geosys.DefaultMRTSParameters())
		Expect(err).NotTo(HaveOccurred())
		Expect(uri).To(Equal("s3://geosys-earthdaily-agro/user1/mrts/task1"))
	})

	It("reads and pushes metrics on a schema", func() {
		Expect(client.CreateAnalyticsSchema(ctx, "MY_SCHEMA", map[string]string{"value": "double"})).To(Succeed())

		metrics, err := client.GetMetrics(ctx, "", "sf1", "MY_SCHEMA", nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(metrics).To(HaveLen(2))
		Expect(metrics[0]).To(HaveKeyWithValue("date", "2022-06-01"))

		Expect(client.PushMetrics(ctx, "", "sf1", "MY_SCHEMA", []map[string]interface{}{
			{"Timestamp": "2022-06-03", "value": 0.8},
		})).To(Succeed())
	})
})

var _ = Describe("Agriquest", func() {
	It("serves the ndvi of each AMU of a block", func() {
		values, err := client.GetAgriquestNDVIBlockData(ctx, time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC), common.BlockFraDepartements, common.AllVegetation)
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(HaveLen(2))
		Expect(values[0]).To(HaveKeyWithValue("AMU", "Aisne"))
		Expect(values[0]).To(HaveKeyWithValue("NDVI", 0.61))
	})

	It("serves the weather of each AMU of a block", func() {
		start := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2022, 5, 31, 0, 0, 0, 0, time.UTC)
		values, err := client.GetAgriquestWeatherBlockData(ctx, start, end, common.BlockFraDepartements, common.CumulativePrecipitation)
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(HaveLen(1))
		Expect(values[0]).To(HaveKeyWithValue("AMU", "Aisne"))
	})
})

var _ = Describe("GIS", func() {
	It("returns the registered farm at a location", func() {
		info, err := client.FarmInfoFromLocation(ctx, "-13.03", "-55.17")
		Expect(err).NotTo(HaveOccurred())
		Expect(info).To(HaveLen(1))
		Expect(info[0]).To(HaveKeyWithValue("car_code", "BR-12345"))
	})
})
