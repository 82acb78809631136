package common

// Processor is an analytics processor of the analytics pipeline, identified by
// its api path and the code of its default parameters profile.
type Processor struct {
	Profile string
	Path    string
}

var (
	PlantedAreaProcessor          = Processor{Profile: "planted_area_default", Path: "planted_area"}
	PotentialScoreProcessor       = Processor{Profile: "potential_score_default", Path: "potential_score"}
	BrazilInSeasonCropIDProcessor = Processor{Profile: "brazil_in_season_crop_id_default", Path: "brazil_in_season_crop_id"}
	GreennessProcessor            = Processor{Profile: "greenness_default", Path: "greenness"}
	HarvestReadinessProcessor     = Processor{Profile: "harvest_readiness_default", Path: "harvest_readiness"}
	ZarcProcessor                 = Processor{Profile: "zarc_default", Path: "zarc"}
	MRTSProcessor                 = Processor{Profile: "mrts_default", Path: "mrts"}
)

// Harvest is the type of harvest analytics to compute
type Harvest string

const (
	HarvestInSeason   Harvest = "IN_SEASON"
	HarvestHistorical Harvest = "HISTORICAL"
)

// Processor returns the analytics processor computing this harvest type
func (h Harvest) Processor() Processor {
	if h == HarvestHistorical {
		return Processor{Profile: "historical-harvest_default", Path: "historical-harvest"}
	}
	return Processor{Profile: "inseason-harvest_default", Path: "inseason-harvest"}
}

// Emergence is the type of emergence analytics to compute
type Emergence string

const (
	EmergenceInSeason   Emergence = "IN_SEASON"
	EmergenceHistorical Emergence = "HISTORICAL"
	EmergenceDelay      Emergence = "DELAY"
)

// Processor returns the analytics processor computing this emergence type
func (e Emergence) Processor() Processor {
	switch e {
	case EmergenceHistorical:
		return Processor{Profile: "historical-emergence_default", Path: "historical-emergence"}
	case EmergenceDelay:
		return Processor{Profile: "inseason-emergence_default", Path: "emergence-delay"}
	default:
		return Processor{Profile: "inseason-emergence_default", Path: "emergence-date"}
	}
}

// ZarcSoilType is a soil type accepted by the zarc analytics processor
type ZarcSoilType string

const (
	ZarcSoilType1    ZarcSoilType = "1"
	ZarcSoilType2    ZarcSoilType = "2"
	ZarcSoilType3    ZarcSoilType = "3"
	ZarcSoilTypeNone ZarcSoilType = ""
)

// ZarcCycleType is a cycle type accepted by the zarc analytics processor
type ZarcCycleType string

const (
	ZarcCycleType1    ZarcCycleType = "1"
	ZarcCycleType2    ZarcCycleType = "2"
	ZarcCycleType3    ZarcCycleType = "3"
	ZarcCycleTypeNone ZarcCycleType = ""
)

// CropIdSeason is a season accepted by the brazil_in_season_crop_id processor
type CropIdSeason string

const (
	CropIdSeason1 CropIdSeason = "SEASON_1"
	CropIdSeason2 CropIdSeason = "SEASON_2"
)
