package common_test

import (
	"testing"

	"github.com/earthdaily/geosys-go/common"
)

func TestURLs(t *testing.T) {
	url, err := common.IdentityURL(common.RegionNA, common.Preprod)
	if err != nil {
		t.Fatalf("IdentityURL: %v", err)
	}
	if url != "https://identity.preprod.geosys-na.com/v2.1/connect/token" {
		t.Errorf("wrong identity url: %s", url)
	}

	url, err = common.APIURL(common.RegionNA, common.Prod)
	if err != nil {
		t.Fatalf("APIURL: %v", err)
	}
	if url != "https://api.geosys-na.net" {
		t.Errorf("wrong api url: %s", url)
	}

	if _, err = common.APIURL(common.Region("eu"), common.Prod); err == nil {
		t.Errorf("expected an error for an unknown region")
	}
	if _, err = common.GISURL(common.RegionNA, common.Env("staging")); err == nil {
		t.Errorf("expected an error for an unknown environment")
	}
}

func TestPriorityHeader(t *testing.T) {
	if h := common.Bulk.Header(); h != "Geosys_API_Bulk" {
		t.Errorf("wrong bulk header: %s", h)
	}
	if h := common.Realtime.Header(); h != "" {
		t.Errorf("wrong realtime header: %s", h)
	}
}

func TestSeasonFieldIDRegex(t *testing.T) {
	msg := "Season field already exists with the same parameters. Id: ajqxm3v, Sowing date: 2022-01-01"
	m := common.SeasonFieldIDRegex.FindStringSubmatch(msg)
	if len(m) != 2 || m[1] != "ajqxm3v" {
		t.Errorf("wrong match: %v", m)
	}
}

func TestCollections(t *testing.T) {
	if !common.Modis.LowResolution() || common.Modis.MidResolution() {
		t.Errorf("MODIS must be low-resolution")
	}
	if !common.Sentinel2.MidResolution() || common.Sentinel2.LowResolution() {
		t.Errorf("SENTINEL_2 must be mid-resolution")
	}
}

func TestAgriquestFranceBlocks(t *testing.T) {
	for _, b := range []common.AgriquestBlock{common.BlockFraCantons, common.BlockFraCommunes, common.BlockFraDepartements} {
		if !b.France() {
			t.Errorf("%d must be a France block", b)
		}
	}
	if common.BlockAmuChina.France() {
		t.Errorf("AMU_CHINA is not a France block")
	}
}

func TestProcessors(t *testing.T) {
	tests := []struct {
		processor common.Processor
		profile   string
		path      string
	}{
		{common.HarvestInSeason.Processor(), "inseason-harvest_default", "inseason-harvest"},
		{common.HarvestHistorical.Processor(), "historical-harvest_default", "historical-harvest"},
		{common.EmergenceInSeason.Processor(), "inseason-emergence_default", "emergence-date"},
		{common.EmergenceHistorical.Processor(), "historical-emergence_default", "historical-emergence"},
		{common.EmergenceDelay.Processor(), "inseason-emergence_default", "emergence-delay"},
		{common.MRTSProcessor, "mrts_default", "mrts"},
	}
	for _, tt := range tests {
		if tt.processor.Profile != tt.profile || tt.processor.Path != tt.path {
			t.Errorf("wrong processor %v, expected %s/%s", tt.processor, tt.profile, tt.path)
		}
	}
}
