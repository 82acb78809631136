// Package geosys is the facade client of the EarthDaily/Geosys platform,
// combining the platform services behind task-level operations.
package geosys

import (
	"context"
	"fmt"
	"net/http"

	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/interface/identity"
	"github.com/earthdaily/geosys-go/interface/platform"
	"github.com/earthdaily/geosys-go/interface/storage"
)

// Config of the facade client
type Config struct {
	Credentials identity.Credentials
	// BearerToken may be supplied instead of Credentials. It is used as-is
	// and never refreshed.
	BearerToken string
	Env         common.Env
	Region      common.Region
	Priority    common.Priority

	// AWS credentials to fetch analytics processor results. If empty, the
	// default aws credentials chain is used.
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
}

// Client is the main entrypoint to the platform capabilities
type Client struct {
	Platform *platform.Client
	cfg      Config
}

// New authenticates against the identity server and returns a facade client
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Env == "" {
		cfg.Env = common.Prod
	}
	if cfg.Region == "" {
		cfg.Region = common.RegionNA
	}
	if cfg.Priority == "" {
		cfg.Priority = common.Realtime
	}

	tokenSource := identity.StaticTokenSource(cfg.BearerToken)
	if cfg.BearerToken == "" {
		var err error
		if tokenSource, err = identity.NewTokenSource(ctx, cfg.Credentials, cfg.Region, cfg.Env); err != nil {
			return nil, fmt.Errorf("geosys.New: %w", err)
		}
	}

	httpClient := identity.NewClient(tokenSource, nil)
	gisClient := identity.NewClient(tokenSource, &http.Client{Transport: platform.NewInsecureTransport()})
	platformClient, err := platform.NewClient(httpClient, gisClient, cfg.Region, cfg.Env, cfg.Priority)
	if err != nil {
		return nil, fmt.Errorf("geosys.New: %w", err)
	}
	return NewFromPlatform(platformClient, cfg), nil
}

// NewFromPlatform wraps an existing platform client, for local emulators and
// tests.
func NewFromPlatform(platformClient *platform.Client, cfg Config) *Client {
	return &Client{Platform: platformClient, cfg: cfg}
}

// resolveSeasonFieldID returns the season field id, creating the season field
// from the polygon when no id is given.
func (c *Client) resolveSeasonFieldID(ctx context.Context, polygon, seasonFieldID string) (string, error) {
	if seasonFieldID == "" {
		if polygon == "" {
			return "", fmt.Errorf("resolveSeasonFieldID: 'seasonFieldID' and 'polygon' cannot be both empty")
		}
		id, err := c.Platform.MasterData.ExtractSeasonFieldID(ctx, polygon)
		if err != nil {
			return "", fmt.Errorf("resolveSeasonFieldID.%w", err)
		}
		return id, nil
	}
	exists, err := c.Platform.MasterData.SeasonFieldExists(ctx, seasonFieldID)
	if err != nil {
		return "", fmt.Errorf("resolveSeasonFieldID.%w", err)
	}
	if !exists {
		return "", fmt.Errorf("resolveSeasonFieldID: cannot access %s: not existing or connected user doesn't have access to it", seasonFieldID)
	}
	return seasonFieldID, nil
}

// resolveSeasonFieldUniqueID resolves the season field (creating it from the
// polygon if needed) and returns its unique id.
func (c *Client) resolveSeasonFieldUniqueID(ctx context.Context, polygon, seasonFieldID string) (string, error) {
	id, err := c.resolveSeasonFieldID(ctx, polygon, seasonFieldID)
	if err != nil {
		return "", err
	}
	uid, err := c.Platform.MasterData.SeasonFieldUniqueID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolveSeasonFieldUniqueID.%w", err)
	}
	return uid, nil
}

// AvailableCrops returns the crop codes available to the connected user
func (c *Client) AvailableCrops(ctx context.Context) ([]string, error) {
	crops, err := c.Platform.MasterData.AvailableCrops(ctx)
	if err != nil {
		return nil, fmt.Errorf("AvailableCrops.%w", err)
	}
	codes := make([]string, len(crops))
	for i, crop := range crops {
		codes[i] = crop.Code
	}
	return codes, nil
}

// AvailablePermissions returns the permission codes of the connected user
func (c *Client) AvailablePermissions(ctx context.Context) ([]string, error) {
	profile, err := c.Platform.MasterData.Profile(ctx, "permissions")
	if err != nil {
		return nil, fmt.Errorf("AvailablePermissions.%w", err)
	}
	raw, ok := profile["permissions"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("AvailablePermissions: no permissions in profile")
	}
	permissions := make([]string, 0, len(raw))
	for _, p := range raw {
		if s, ok := p.(string); ok {
			permissions = append(permissions, s)
		}
	}
	return permissions, nil
}

// AreaConversionRate returns the conversion rate to square meters of the
// user's area unit of measurement.
func (c *Client) AreaConversionRate(ctx context.Context) (float64, error) {
	profile, err := c.Platform.MasterData.Profile(ctx, "unitProfileUnitCategories")
	if err != nil {
		return 0, fmt.Errorf("AreaConversionRate.%w", err)
	}
	categories, ok := profile["unitProfileUnitCategories"].([]interface{})
	if !ok {
		return 0, fmt.Errorf("AreaConversionRate: no unit categories in profile")
	}
	for _, raw := range categories {
		category, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if unitCategory, ok := category["unitCategory"].(map[string]interface{}); !ok || unitCategory["id"] != "FIELD_SURFACE" {
			continue
		}
		if unit, ok := category["unit"].(map[string]interface{}); ok {
			if rate, ok := unit["conversionRate"].(float64); ok {
				return rate, nil
			}
		}
	}
	return 0, fmt.Errorf("AreaConversionRate: no FIELD_SURFACE unit category in profile")
}

// SeasonFieldIDsFromGeometry returns the ids of the season fields contained
// in the geometry.
func (c *Client) SeasonFieldIDsFromGeometry(ctx context.Context, geometry string) ([]string, error) {
	return c.Platform.MasterData.SeasonFieldIDsInGeometry(ctx, geometry)
}

// SeasonFields returns the detailed season fields matching the ids
func (c *Client) SeasonFields(ctx context.Context, seasonFieldIDs []string) ([]map[string]interface{}, error) {
	return c.Platform.MasterData.SeasonFields(ctx, seasonFieldIDs)
}

// FarmInfoFromLocation returns the registered farm boundary and attributes at
// the location (brazilian CAR properties layer).
func (c *Client) FarmInfoFromLocation(ctx context.Context, latitude, longitude string) ([]map[string]interface{}, error) {
	return c.Platform.GIS.FarmInfoFromLocation(ctx, latitude, longitude)
}

// resultStore returns the store downloading analytics processor results
func (c *Client) resultStore(ctx context.Context) (*storage.S3ResultStore, error) {
	return storage.NewS3ResultStore(ctx, c.cfg.AWSAccessKeyID, c.cfg.AWSSecretAccessKey, c.cfg.AWSRegion)
}
