package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/service"
	"github.com/earthdaily/geosys-go/service/log"
)

// AnalyticsProcessor is the client of the analytics pipeline API, launching
// processors and polling their task events.
type AnalyticsProcessor struct {
	baseURL string
	client  *http.Client
}

// TaskEvent describes the state of an analytics processor run
type TaskEvent struct {
	TaskID       string `json:"taskId"`
	Status       string `json:"status"`
	CustomerCode string `json:"customerCode"`
	UserID       string `json:"userId"`
}

// Event returns the current event of the task
func (s *AnalyticsProcessor) Event(ctx context.Context, taskID string) (TaskEvent, error) {
	u := fmt.Sprintf("%s/%s/%s", s.baseURL, common.ProcessorEventsEndpoint, taskID)
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return TaskEvent{}, fmt.Errorf("Event.%w", err)
	}
	if !resp.OK() {
		return TaskEvent{}, fmt.Errorf("Event: %w", resp.Err())
	}
	var event TaskEvent
	if err := resp.JSON(&event); err != nil {
		return TaskEvent{}, fmt.Errorf("Event.%w", err)
	}
	return event, nil
}

// WaitForTask polls the task events until the task has ended. The wait
// between polls doubles from one second up to ten seconds, for at most fifty
// attempts.
func (s *AnalyticsProcessor) WaitForTask(ctx context.Context, taskID string) (string, error) {
	wait := time.Second
	for attempt := 0; attempt < 50; attempt++ {
		event, err := s.Event(ctx, taskID)
		if err != nil {
			return "Failed", fmt.Errorf("WaitForTask.%w", err)
		}
		switch event.Status {
		case "Ended":
			return event.Status, nil
		case "Running":
			log.Logger(ctx).Sugar().Debugf("task %s still running, retrying in %s", taskID, wait)
		default:
			return event.Status, fmt.Errorf("WaitForTask: task status: %s", event.Status)
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", fmt.Errorf("WaitForTask: %w", ctx.Err())
		}
		if wait *= 2; wait > 10*time.Second {
			wait = 10 * time.Second
		}
	}
	return "", fmt.Errorf("WaitForTask: task %s still running after 50 attempts", taskID)
}

// S3Path returns the s3 uri under which the processor stored the results of
// the task.
func (s *AnalyticsProcessor) S3Path(ctx context.Context, taskID string, processorPath string) (string, error) {
	event, err := s.Event(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("S3Path.%w", err)
	}
	customerCode := strings.ReplaceAll(strings.ToLower(event.CustomerCode), "_", "-")
	return fmt.Sprintf("s3://geosys-%s/%s/%s/%s", customerCode, event.UserID, processorPath, event.TaskID), nil
}

func (s *AnalyticsProcessor) launch(ctx context.Context, processorPath string, payload interface{}) (string, error) {
	u := fmt.Sprintf("%s/%s", s.baseURL, fmt.Sprintf(common.LaunchProcessorEndpoint, processorPath))
	resp, err := service.HTTPPost(ctx, s.client, u, payload, nil)
	if err != nil {
		return "", fmt.Errorf("launch[%s].%w", processorPath, err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("launch[%s]: %w", processorPath, resp.Err())
	}
	var task struct {
		TaskID string `json:"taskId"`
	}
	if err := resp.JSON(&task); err != nil {
		return "", fmt.Errorf("launch[%s].%w", processorPath, err)
	}
	return task.TaskID, nil
}

// MRTSParameters configures the mr time series processor
type MRTSParameters struct {
	StartDate   time.Time
	EndDate     time.Time
	Sensors     []string
	Denoiser    bool
	Smoother    string
	EOC         bool
	Aggregation string
	Index       string
	RawData     bool
}

// LaunchMRTS launches a mr time series processor run over the polygon and
// returns the task id.
func (s *AnalyticsProcessor) LaunchMRTS(ctx context.Context, polygon string, params MRTSParameters) (string, error) {
	endDate := params.EndDate
	if endDate.IsZero() {
		endDate = time.Now()
	}
	payload := map[string]interface{}{
		"parametersProfile": map[string]interface{}{
			"code":    common.MRTSProcessor.Profile,
			"version": 1,
		},
		"parameters": map[string]interface{}{
			"start_date":  params.StartDate.Format("2006-01-02"),
			"end_date":    endDate.Format("2006-01-02"),
			"sensors":     params.Sensors,
			"denoiser":    params.Denoiser,
			"smoother":    params.Smoother,
			"eoc":         params.EOC,
			"aggregation": params.Aggregation,
			"index":       params.Index,
			"raw_data":    params.RawData,
		},
		"data": []map[string]string{{"wkt": polygon}},
	}
	return s.launch(ctx, common.MRTSProcessor.Path, payload)
}

// LaunchPlantedArea launches a planted area processor run on the season field
// and returns the task id.
func (s *AnalyticsProcessor) LaunchPlantedArea(ctx context.Context, seasonFieldUID string, start, end time.Time) (string, error) {
	payload := map[string]interface{}{
		"parametersProfileCode": common.PlantedAreaProcessor.Profile,
		"data": []map[string]string{{
			"id":         seasonFieldUID + "@ID",
			"start_date": start.Format("2006-01-02"),
			"end_date":   end.Format("2006-01-02"),
		}},
	}
	return s.launch(ctx, common.PlantedAreaProcessor.Path, payload)
}

// SeasonParameters describe the growing season of a harvest or emergence
// processor run.
type SeasonParameters struct {
	SeasonDuration   int
	SeasonStartDay   int
	SeasonStartMonth int
	Crop             string
	Year             int
}

// LaunchHarvest launches a harvest processor run on the season field and
// returns the task id.
func (s *AnalyticsProcessor) LaunchHarvest(ctx context.Context, seasonFieldUID, geometry string, season SeasonParameters, harvestType common.Harvest) (string, error) {
	processor := harvestType.Processor()
	payload := map[string]interface{}{
		"parametersProfile": processor.Profile,
		"parameters": map[string]interface{}{
			"season_duration":    season.SeasonDuration,
			"season_start_day":   season.SeasonStartDay,
			"season_start_month": season.SeasonStartMonth,
		},
		"data": []map[string]interface{}{{
			"id":   "SeasonField:" + seasonFieldUID + "@ID",
			"crop": season.Crop,
			"year": season.Year,
			"geom": geometry,
		}},
	}
	return s.launch(ctx, processor.Path, payload)
}

// LaunchEmergence launches an emergence processor run on the season field and
// returns the task id.
func (s *AnalyticsProcessor) LaunchEmergence(ctx context.Context, seasonFieldUID, geometry string, season SeasonParameters, emergenceType common.Emergence) (string, error) {
	processor := emergenceType.Processor()
	parameters := map[string]interface{}{
		"season_duration":    season.SeasonDuration,
		"season_start_day":   season.SeasonStartDay,
		"season_start_month": season.SeasonStartMonth,
	}
	if emergenceType == common.EmergenceDelay {
		parameters["emergence_delay"] = true
	}
	payload := map[string]interface{}{
		"parametersProfile": processor.Profile,
		"parameters":        parameters,
		"data": []map[string]interface{}{{
			"id":   "SeasonField:" + seasonFieldUID + "@ID",
			"crop": season.Crop,
			"year": season.Year,
			"geom": geometry,
		}},
	}
	return s.launch(ctx, processor.Path, payload)
}

// LaunchPotentialScore launches a potential score processor run on the season
// field and returns the task id.
func (s *AnalyticsProcessor) LaunchPotentialScore(ctx context.Context, seasonFieldUID, geometry string, season SeasonParameters, endDate, sowingDate time.Time, nbHistoricalYears int) (string, error) {
	payload := map[string]interface{}{
		"parametersProfile": common.PotentialScoreProcessor.Profile,
		"parameters": map[string]interface{}{
			"end_date":            endDate.Format("2006-01-02"),
			"nb_historical_years": nbHistoricalYears,
			"season_duration":     season.SeasonDuration,
			"season_start_day":    season.SeasonStartDay,
			"season_start_month":  season.SeasonStartMonth,
		},
		"data": []map[string]interface{}{{
			"id":          "SeasonField:" + seasonFieldUID + "@ID",
			"crop":        season.Crop,
			"sowing_date": sowingDate.Format("2006-01-02"),
			"geom":        geometry,
		}},
	}
	return s.launch(ctx, common.PotentialScoreProcessor.Path, payload)
}

// LaunchBrazilInSeasonCropID launches a brazil in-season crop id processor
// run on the season field and returns the task id.
func (s *AnalyticsProcessor) LaunchBrazilInSeasonCropID(ctx context.Context, seasonFieldUID, geometry string, start, end time.Time, season common.CropIdSeason) (string, error) {
	payload := map[string]interface{}{
		"parametersProfile": common.BrazilInSeasonCropIDProcessor.Profile,
		"parameters": map[string]interface{}{
			"start_date": start.Format("2006-01-02"),
			"end_date":   end.Format("2006-01-02"),
			"season":     string(season),
		},
		"data": []map[string]interface{}{{
			"id":   "SeasonField:" + seasonFieldUID + "@ID",
			"geom": geometry,
		}},
	}
	return s.launch(ctx, common.BrazilInSeasonCropIDProcessor.Path, payload)
}

// LaunchGreenness launches a greenness processor run on the season field and
// returns the task id.
func (s *AnalyticsProcessor) LaunchGreenness(ctx context.Context, seasonFieldUID, geometry, crop string, start, end, sowingDate time.Time) (string, error) {
	return s.launchCropAnalytic(ctx, common.GreennessProcessor, seasonFieldUID, geometry, crop, start, end, sowingDate)
}

// LaunchHarvestReadiness launches a harvest readiness processor run on the
// season field and returns the task id.
func (s *AnalyticsProcessor) LaunchHarvestReadiness(ctx context.Context, seasonFieldUID, geometry, crop string, start, end, sowingDate time.Time) (string, error) {
	return s.launchCropAnalytic(ctx, common.HarvestReadinessProcessor, seasonFieldUID, geometry, crop, start, end, sowingDate)
}

func (s *AnalyticsProcessor) launchCropAnalytic(ctx context.Context, processor common.Processor, seasonFieldUID, geometry, crop string, start, end, sowingDate time.Time) (string, error) {
	payload := map[string]interface{}{
		"parametersProfile": processor.Profile,
		"parameters": map[string]interface{}{
			"start_date": start.Format("2006-01-02"),
			"end_date":   end.Format("2006-01-02"),
		},
		"data": []map[string]interface{}{{
			"id":          "SeasonField:" + seasonFieldUID + "@ID",
			"crop":        crop,
			"sowing_date": sowingDate.Format("2006-01-02"),
			"geom":        geometry,
		}},
	}
	return s.launch(ctx, processor.Path, payload)
}

// ZarcParameters configures the zarc processor
type ZarcParameters struct {
	StartDateEmergence    time.Time
	EndDateEmergence      time.Time
	NbDaysSowingEmergence int
	Crop                  string
	Municipio             int
	SoilType              common.ZarcSoilType
	Cycle                 common.ZarcCycleType
}

// LaunchZarc launches a zarc processor run on the season field and returns
// the task id.
func (s *AnalyticsProcessor) LaunchZarc(ctx context.Context, seasonFieldUID string, params ZarcParameters) (string, error) {
	payload := map[string]interface{}{
		"parametersProfile": common.ZarcProcessor.Profile,
		"data": []map[string]interface{}{{
			"id":                       "SeasonField:" + seasonFieldUID + "@ID",
			"start_date_emergence":     params.StartDateEmergence.Format("2006-01-02"),
			"end_date_emergence":       params.EndDateEmergence.Format("2006-01-02"),
			"crop_zarc":                params.Crop,
			"municipio_zarc":           params.Municipio,
			"nb_days_sowing_emergence": params.NbDaysSowingEmergence,
			"soil_type_zarc":           string(params.SoilType),
			"cycle_zarc":               string(params.Cycle),
		}},
	}
	return s.launch(ctx, common.ZarcProcessor.Path, payload)
}
