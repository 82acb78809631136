package geosys_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/geosys"
	"github.com/earthdaily/geosys-go/interface/platform"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const polygonWKT = "POLYGON((-91.29152 40.39177,-91.29152 40.41186,-91.25662 40.41186,-91.25662 40.39177,-91.29152 40.39177))"

var server *httptest.Server
var client *geosys.Client
var ctx context.Context

// coveragePercent parameter of the last catalog-imagery request
var lastCoveragePercent string

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// tiffZip builds a zip archive holding a fake geotiff, as served by the map
// endpoints.
func tiffZip() []byte {
	buf := bytes.Buffer{}
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("image.tif")
	f.Write([]byte("II*\x00fake"))
	zw.Close()
	return buf.Bytes()
}

func newPlatformHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/master-data-management/v6/seasonfields", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			writeJSON(w, 201, map[string]string{"id": "sf1"})
		case r.URL.Query().Get("Geometry") != "":
			writeJSON(w, 200, []map[string]string{{"id": "sf1"}, {"id": "sf2"}})
		default:
			writeJSON(w, 200, []map[string]string{{"id": "sf1", "name": "Field 1"}})
		}
	})
	mux.HandleFunc("/master-data-management/v6/seasonfields/sf1", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("$fields") == "externalids" {
			writeJSON(w, 200, map[string]interface{}{"externalIds": map[string]string{"id": "uid1"}})
			return
		}
		writeJSON(w, 200, map[string]string{"id": "sf1"})
	})
	mux.HandleFunc("/master-data-management/v6/crops", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]string{{"code": "CORN"}, {"code": "SOYBEANS"}})
	})
	mux.HandleFunc("/master-data-management/v6/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("$fields") == "permissions" {
			writeJSON(w, 200, map[string]interface{}{"permissions": []string{"agriquest:read", "analytics:run"}})
			return
		}
		writeJSON(w, 200, map[string]interface{}{
			"unitProfileUnitCategories": []map[string]interface{}{{
				"unitCategory": map[string]interface{}{"id": "FIELD_SURFACE"},
				"unit":         map[string]interface{}{"id": "ACRE", "conversionRate": 4046.85},
			}},
		})
	})

	mux.HandleFunc("/vegetation-time-series/v1/season-fields/values", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []platform.Value{
			{Date: "2022-05-01", Index: "NDVI", Value: 0.51},
			{Date: "2022-05-09", Index: "NDVI", Value: 0.62},
		})
	})
	mux.HandleFunc("/vegetation-time-series/v1/season-fields/pixels/values", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]interface{}{
			{"date": "2022-05-01", "index": "NDVI", "value": 0.51, "pixel": map[string]string{"id": "mh11v4i225j4612"}},
		})
	})

	mux.HandleFunc("/field-level-maps/v5/maps/catalog-imagery", func(w http.ResponseWriter, r *http.Request) {
		lastCoveragePercent = r.URL.Query().Get("coveragePercent")
		writeJSON(w, 200, []map[string]interface{}{
			{
				"coveragePercent": 100,
				"maps":            []map[string]string{{"type": "NDVI"}},
				"image": map[string]interface{}{
					"id": "sentinel|2022-05-01", "sensor": "SENTINEL_2", "availableBands": []string{"B4", "B8"},
					"spatialResolution": 10, "date": "2022-05-01T00:00:00Z",
				},
				"seasonField": map[string]string{"id": "sf1"},
			},
			{
				"coveragePercent": 95,
				"maps":            []map[string]string{{"type": "NDVI"}},
				"image": map[string]interface{}{
					"id": "landsat|2022-05-01", "sensor": "LANDSAT_8", "availableBands": []string{"B4", "B5"},
					"spatialResolution": 30, "date": "2022-05-01T00:00:00Z",
				},
				"seasonField": map[string]string{"id": "sf1"},
			},
		})
	})
	mux.HandleFunc("/field-level-maps/v5/maps/base-reference-map/NDVI/image.tiff.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(tiffZip())
	})
	mux.HandleFunc("/field-level-maps/v5/maps/reflectance-map/TOC/image.tiff.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(tiffZip())
	})
	mux.HandleFunc("/field-level-maps/v5/maps/difference-map/DIFFERENCE_NDVI/image.tiff.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(tiffZip())
	})

	mux.HandleFunc("/Weather/v1/weather", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]interface{}{
			{"date": "2022-05-02", "precipitation": map[string]float64{"cumulative": 3.4}},
			{"date": "2022-05-01", "precipitation": map[string]float64{"cumulative": 1.2}},
		})
	})

	mux.HandleFunc("/analytics/schemas", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 201, map[string]string{"Id": "MY_SCHEMA"})
	})
	mux.HandleFunc("/analytics/metrics", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			writeJSON(w, 200, map[string]string{})
			return
		}
		writeJSON(w, 200, []map[string]interface{}{
			{"Timestamp": "2022-06-02", "value": 0.7, "Entity": map[string]string{"TypedId": "SeasonField:uid1"}},
			{"Timestamp": "2022-06-01", "value": 0.6, "Entity": map[string]string{"TypedId": "SeasonField:uid1"}},
		})
	})
	mux.HandleFunc("/analytics/metrics-latest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]interface{}{
			{"Timestamp": "2022-06-12", "harvestDate": "2022-06-10", "Entity": map[string]string{"TypedId": "SeasonField:uid1"}},
		})
	})

	mux.HandleFunc("/analytics-pipeline/v1/processors/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/launch"):
			writeJSON(w, 200, map[string]string{"taskId": "task1"})
		case strings.Contains(r.URL.Path, "/events/"):
			writeJSON(w, 200, platform.TaskEvent{TaskID: "task1", Status: "Ended", CustomerCode: "EARTHDAILY_AGRO", UserID: "user1"})
		default:
			http.NotFound(w, r)
		}
	})

	mux.HandleFunc("/agriquest/Geosys.Agriquest.CropMonitoring.WebApi/v0/api/vegetation-vigor-index/export-map/year-of-interest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, [][]interface{}{
			{"metadata"},
			{"Nom", "Valeur"},
			{"Aisne", 0.61},
			{"Somme", 0.58},
		})
	})
	mux.HandleFunc("/agriquest/Geosys.Agriquest.CropMonitoring.WebApi/v0/api/cumulative-precipitation/export-map/year-of-interest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, [][]interface{}{
			{"metadata"},
			{"Name", "Value"},
			{"Aisne", 12.5},
		})
	})

	mux.HandleFunc("/layerservices/api/v1/layers/BRAZIL_MUNICIPIOS/intersect", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "POLYGON((0 0") {
			writeJSON(w, 200, [][]map[string]interface{}{})
			return
		}
		writeJSON(w, 200, [][]map[string]interface{}{{{"properties": map[string]interface{}{"id": 4904}}}})
	})
	mux.HandleFunc("/layerservices/api/v1/layers/BR_CAR_PROPERTIES/feature", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]interface{}{{"geometry": polygonWKT, "car_code": "BR-12345"}})
	})

	return mux
}

var _ = BeforeSuite(func() {
	ctx = context.Background()
	server = httptest.NewServer(newPlatformHandler())
	platformClient := platform.NewClientForURLs(server.Client(), nil, server.URL, server.URL, common.Realtime)
	client = geosys.NewFromPlatform(platformClient, geosys.Config{Env: common.Preprod, Region: common.RegionNA})
})

var _ = AfterSuite(func() {
	server.Close()
})

func TestGeosys(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Geosys Suite")
}
