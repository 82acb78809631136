package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/service"
	"github.com/earthdaily/geosys-go/service/log"
)

// AnalyticsFabric is the client of the analytics fabric API, storing metrics
// attached to season fields under versioned schemas.
type AnalyticsFabric struct {
	baseURL string
	client  *http.Client
}

// Metric is one analytics fabric record, indexed by the "date" key. The other
// keys are the properties of the schema.
type Metric map[string]interface{}

// CreateSchema declares a schema in the analytics fabric. properties maps
// each property name to its datatype. Creating a schema that already exists
// is not an error.
func (s *AnalyticsFabric) CreateSchema(ctx context.Context, schemaID string, properties map[string]string) error {
	props := make([]map[string]interface{}, 0, len(properties))
	for name, datatype := range properties {
		props = append(props, map[string]interface{}{
			"Name":         name,
			"Datatype":     datatype,
			"UnitCategory": nil,
			"IsPartOfKey":  false,
			"IsOptional":   false,
		})
	}
	payload := map[string]interface{}{
		"Id":         schemaID,
		"Properties": props,
		"Metadata":   map[string]string{"OnAggregationCompleted": "Off"},
	}

	resp, err := service.HTTPPost(ctx, s.client, fmt.Sprintf("%s/%s", s.baseURL, common.AnalyticsFabricSchema), payload, nil)
	if err != nil {
		return fmt.Errorf("CreateSchema.%w", err)
	}
	switch {
	case resp.Status == 201:
		return nil
	case resp.Status == 400 && strings.Contains(string(resp.Body), "This schema already exists."):
		log.Logger(ctx).Sugar().Infof("schema %s already exists", schemaID)
		return nil
	}
	return fmt.Errorf("CreateSchema: %w", resp.Err())
}

// Metrics returns the metrics of the schema attached to the season field,
// sorted by date. start and end are optional bounds on the metric timestamp.
func (s *AnalyticsFabric) Metrics(ctx context.Context, seasonFieldUID, schemaID string, start, end *time.Time) ([]Metric, error) {
	filter := url.QueryEscape(fmt.Sprintf("Entity.TypedId=='SeasonField:%s'", seasonFieldUID))
	u := fmt.Sprintf("%s/%s?$filter=%s%s&Schema.Id=%s&$limit=None",
		s.baseURL, common.AnalyticsFabricEndpoint, filter, timestampParameters(start, end), schemaID)

	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("Metrics.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("Metrics: %w", resp.Err())
	}
	var metrics []Metric
	if err := resp.JSON(&metrics); err != nil {
		return nil, fmt.Errorf("Metrics.%w", err)
	}
	return normalizeMetrics(metrics), nil
}

// LatestMetrics returns the most recent metric of the schema attached to the
// season field.
func (s *AnalyticsFabric) LatestMetrics(ctx context.Context, seasonFieldUID, schemaID string) ([]Metric, error) {
	filter := url.QueryEscape(fmt.Sprintf("Entity.TypedId=='SeasonField:%s'", seasonFieldUID))
	u := fmt.Sprintf("%s/%s?$filter=%s&Schema.Id=%s&$limit=1&$sort=-Timestamp",
		s.baseURL, common.AnalyticsFabricLatest, filter, schemaID)

	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("LatestMetrics.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("LatestMetrics: %w", resp.Err())
	}
	var metrics []Metric
	if err := resp.JSON(&metrics); err != nil {
		return nil, fmt.Errorf("LatestMetrics.%w", err)
	}
	return normalizeMetrics(metrics), nil
}

// PushMetrics saves the values on the schema, attached to the season field
func (s *AnalyticsFabric) PushMetrics(ctx context.Context, seasonFieldUID, schemaID string, values []map[string]interface{}) error {
	payload := make([]map[string]interface{}, 0, len(values))
	for _, value := range values {
		record := map[string]interface{}{
			"Entity": map[string]string{"TypedId": fmt.Sprintf("SeasonField:%s@ID", seasonFieldUID)},
			"Schema": map[string]interface{}{"Id": schemaID, "Version": 1},
		}
		for k, v := range value {
			record[k] = v
		}
		payload = append(payload, record)
	}

	resp, err := service.HTTPPatch(ctx, s.client, fmt.Sprintf("%s/%s", s.baseURL, common.AnalyticsFabricEndpoint), payload, nil)
	if err != nil {
		return fmt.Errorf("PushMetrics.%w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("PushMetrics: %w", resp.Err())
	}
	return nil
}

func timestampParameters(start, end *time.Time) string {
	switch {
	case start == nil && end == nil:
		return ""
	case end == nil:
		return fmt.Sprintf("&Timestamp=$gte:%s", start.Format("2006-01-02"))
	case start == nil:
		return fmt.Sprintf("&Timestamp=$lte:%s", end.Format("2006-01-02"))
	default:
		return fmt.Sprintf("&Timestamp=$between:%s|%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}

// normalizeMetrics renames Timestamp to date, drops the entity reference and
// sorts by date.
func normalizeMetrics(metrics []Metric) []Metric {
	for _, m := range metrics {
		if ts, ok := m["Timestamp"]; ok {
			m["date"] = ts
			delete(m, "Timestamp")
		}
		delete(m, "Entity.TypedId")
		if entity, ok := m["Entity"]; ok {
			if e, ok := entity.(map[string]interface{}); ok {
				delete(e, "TypedId")
				if len(e) == 0 {
					delete(m, "Entity")
				}
			}
		}
	}
	sort.SliceStable(metrics, func(i, j int) bool {
		di, _ := metrics[i]["date"].(string)
		dj, _ := metrics[j]["date"].(string)
		return di < dj
	})
	return metrics
}
