// Package platform implements the clients of the EarthDaily/Geosys platform
// APIs (master data management, vegetation time series, field level maps,
// weather, analytics fabric, agriquest, analytics pipeline and gis layers).
package platform

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/earthdaily/geosys-go/common"
)

// Client bundles the platform services behind one authenticated http client
type Client struct {
	MasterData *MasterDataManagement
	TimeSeries *VegetationTimeSeries
	Maps       *MapProduct
	Weather    *Weather
	Analytics  *AnalyticsFabric
	Agriquest  *Agriquest
	Processor  *AnalyticsProcessor
	GIS        *GIS
}

// NewClient resolves the urls of the region/environment and returns a client
// for each platform service. httpClient must inject the bearer token (see
// identity.NewClient). gisClient is used for the gis layer services whose
// certificate does not validate; if nil, httpClient is used.
func NewClient(httpClient *http.Client, gisClient *http.Client, region common.Region, env common.Env, priority common.Priority) (*Client, error) {
	apiURL, err := common.APIURL(region, env)
	if err != nil {
		return nil, fmt.Errorf("NewClient: %w", err)
	}
	gisURL, err := common.GISURL(region, env)
	if err != nil {
		return nil, fmt.Errorf("NewClient: %w", err)
	}
	return NewClientForURLs(httpClient, gisClient, apiURL, gisURL, priority), nil
}

// NewClientForURLs returns a client targeting the given base urls, for local
// emulators and tests.
func NewClientForURLs(httpClient *http.Client, gisClient *http.Client, apiURL, gisURL string, priority common.Priority) *Client {
	if gisClient == nil {
		gisClient = httpClient
	}

	return &Client{
		MasterData: &MasterDataManagement{baseURL: apiURL, client: httpClient},
		TimeSeries: &VegetationTimeSeries{baseURL: apiURL, client: httpClient},
		Maps:       &MapProduct{baseURL: apiURL, client: httpClient, priority: priority},
		Weather:    &Weather{baseURL: apiURL, client: httpClient},
		Analytics:  &AnalyticsFabric{baseURL: apiURL, client: httpClient},
		Agriquest:  &Agriquest{baseURL: apiURL, client: httpClient},
		Processor:  &AnalyticsProcessor{baseURL: apiURL, client: httpClient},
		GIS:        &GIS{baseURL: gisURL, client: gisClient},
	}
}

// NewInsecureTransport returns a transport that skips the verification of the
// server certificate.
func NewInsecureTransport() *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	return transport
}

func priorityHeaders(priority common.Priority) http.Header {
	headers := http.Header{}
	headers.Set("X-Geosys-Task-Code", priority.Header())
	return headers
}
