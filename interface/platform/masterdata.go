package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/service"
)

// MasterDataManagement is the client of the master data management API,
// holding the referential of season fields, crops and user profiles.
type MasterDataManagement struct {
	baseURL string
	client  *http.Client
}

// Crop of the master data management referential
type Crop struct {
	Code string `json:"code"`
}

// CreateSeasonField declares a season field covering the polygon for the
// current year and returns the raw response. Most callers want
// ExtractSeasonFieldID instead.
func (s *MasterDataManagement) CreateSeasonField(ctx context.Context, polygon string) (service.HTTPResponse, error) {
	payload := map[string]interface{}{
		"Geometry":   polygon,
		"Crop":       map[string]string{"Id": "CORN"},
		"SowingDate": fmt.Sprintf("%d-01-01", time.Now().Year()),
	}
	return service.HTTPPost(ctx, s.client, fmt.Sprintf("%s/%s/seasonfields", s.baseURL, common.MasterDataManagementEndpoint), payload, nil)
}

// ExtractSeasonFieldID returns the id of the season field covering the
// polygon, creating it if needed. When the season field already exists, the
// platform answers 400 and the id is extracted from the error message.
func (s *MasterDataManagement) ExtractSeasonFieldID(ctx context.Context, polygon string) (string, error) {
	resp, err := s.CreateSeasonField(ctx, polygon)
	if err != nil {
		return "", fmt.Errorf("ExtractSeasonFieldID.%w", err)
	}

	switch {
	case resp.Status == 201:
		var created struct {
			ID string `json:"id"`
		}
		if err := resp.JSON(&created); err != nil {
			return "", fmt.Errorf("ExtractSeasonFieldID.%w", err)
		}
		return created.ID, nil

	case resp.Status == 400:
		var errResp struct {
			Errors struct {
				Body map[string][]struct {
					Message string `json:"message"`
				} `json:"body"`
			} `json:"errors"`
		}
		if err := resp.JSON(&errResp); err == nil {
			if msgs, ok := errResp.Errors.Body["sowingDate"]; ok && len(msgs) > 0 {
				if m := common.SeasonFieldIDRegex.FindStringSubmatch(msgs[0].Message); len(m) == 2 {
					return m[1], nil
				}
			}
		}
	}
	return "", fmt.Errorf("ExtractSeasonFieldID: %w", resp.Err())
}

// SeasonFieldUniqueID returns the unique id of the season field given its
// legacy id.
func (s *MasterDataManagement) SeasonFieldUniqueID(ctx context.Context, seasonFieldID string) (string, error) {
	u := fmt.Sprintf("%s/%s/seasonfields/%s?$fields=externalids", s.baseURL, common.MasterDataManagementEndpoint, seasonFieldID)
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return "", fmt.Errorf("SeasonFieldUniqueID.%w", err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("SeasonFieldUniqueID: %w", resp.Err())
	}
	var sf struct {
		ExternalIDs struct {
			ID string `json:"id"`
		} `json:"externalIds"`
	}
	if err := resp.JSON(&sf); err != nil {
		return "", fmt.Errorf("SeasonFieldUniqueID.%w", err)
	}
	return sf.ExternalIDs.ID, nil
}

// SeasonFieldExists returns whether the season field id is known
func (s *MasterDataManagement) SeasonFieldExists(ctx context.Context, seasonFieldID string) (bool, error) {
	u := fmt.Sprintf("%s/%s/seasonfields/%s", s.baseURL, common.MasterDataManagementEndpoint, seasonFieldID)
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return false, fmt.Errorf("SeasonFieldExists.%w", err)
	}
	return resp.OK(), nil
}

// AvailableCrops returns the crop codes available to the connected user
func (s *MasterDataManagement) AvailableCrops(ctx context.Context) ([]Crop, error) {
	u := fmt.Sprintf("%s/%s/crops?$fields=code&$limit=none", s.baseURL, common.MasterDataManagementEndpoint)
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("AvailableCrops.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("AvailableCrops: %w", resp.Err())
	}
	var crops []Crop
	if err := resp.JSON(&crops); err != nil {
		return nil, fmt.Errorf("AvailableCrops.%w", err)
	}
	return crops, nil
}

// Profile returns the requested fields of the profile of the connected user
func (s *MasterDataManagement) Profile(ctx context.Context, fields string) (map[string]interface{}, error) {
	u := fmt.Sprintf("%s/%s/profile?$fields=%s&$limit=none", s.baseURL, common.MasterDataManagementEndpoint, fields)
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("Profile.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("Profile: %w", resp.Err())
	}
	var profile map[string]interface{}
	if err := resp.JSON(&profile); err != nil {
		return nil, fmt.Errorf("Profile.%w", err)
	}
	return profile, nil
}

// SeasonFieldIDsInGeometry returns the ids of the season fields contained in
// the geometry.
func (s *MasterDataManagement) SeasonFieldIDsInGeometry(ctx context.Context, geometry string) ([]string, error) {
	u := fmt.Sprintf("%s/%s/seasonfields?$fields=id&$limit=none&Geometry=$intersects:%s",
		s.baseURL, common.MasterDataManagementEndpoint, url.QueryEscape(geometry))
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("SeasonFieldIDsInGeometry.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("SeasonFieldIDsInGeometry: %w", resp.Err())
	}
	var seasonFields []struct {
		ID string `json:"id"`
	}
	if err := resp.JSON(&seasonFields); err != nil {
		return nil, fmt.Errorf("SeasonFieldIDsInGeometry.%w", err)
	}
	ids := make([]string, len(seasonFields))
	for i, sf := range seasonFields {
		ids[i] = sf.ID
	}
	return ids, nil
}

// SeasonFields returns the detailed season fields matching the ids
func (s *MasterDataManagement) SeasonFields(ctx context.Context, seasonFieldIDs []string) ([]map[string]interface{}, error) {
	u := fmt.Sprintf("%s/%s/seasonfields?id=$in:%s&$limit=none",
		s.baseURL, common.MasterDataManagementEndpoint, strings.Join(seasonFieldIDs, "|"))
	resp, err := service.HTTPGet(ctx, s.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("SeasonFields.%w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("SeasonFields: %w", resp.Err())
	}
	var seasonFields []map[string]interface{}
	if err := resp.JSON(&seasonFields); err != nil {
		return nil, fmt.Errorf("SeasonFields.%w", err)
	}
	return seasonFields, nil
}
