package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/araddon/dateparse"
	"github.com/earthdaily/geosys-go/common"
	"github.com/earthdaily/geosys-go/geosys"
	"github.com/earthdaily/geosys-go/interface/identity"
	"github.com/earthdaily/geosys-go/service/log"
	"go.uber.org/zap"
)

type config struct {
	Op            string
	Polygon       string
	SeasonFieldID string
	Start         time.Time
	End           time.Time
	Collection    string
	Indicator     string
	Output        string

	ClientConfig geosys.Config
}

// flagOrEnv returns the flag value, falling back on the environment variable
func flagOrEnv(value, env string) string {
	if value != "" {
		return value
	}
	return os.Getenv(env)
}

func newAppConfig() (*config, error) {
	op := flag.String("op", "", "operation to run (crops, timeseries, coverage, download, mrts)")
	polygon := flag.String("polygon", "", "geometry of the field (wkt or geojson)")
	seasonFieldID := flag.String("season-field", "", "id of an existing season field (optional if a polygon is given)")
	start := flag.String("start", "", "start date of the requested range (e.g. 2022-05-01)")
	end := flag.String("end", "", "end date of the requested range")
	collection := flag.String("collection", string(common.Modis), "imagery or weather collection")
	indicator := flag.String("indicator", "NDVI", "index or weather field to retrieve")
	output := flag.String("output", "", "local file or directory receiving downloads")

	clientID := flag.String("client-id", "", "api client id (or API_CLIENT_ID)")
	clientSecret := flag.String("client-secret", "", "api client secret (or API_CLIENT_SECRET)")
	username := flag.String("username", "", "api username (or API_USERNAME)")
	password := flag.String("password", "", "api password (or API_PASSWORD)")
	bearer := flag.String("bearer", "", "pre-acquired bearer token (instead of credentials)")
	env := flag.String("env", string(common.Prod), "platform environment (prod, preprod)")
	region := flag.String("region", string(common.RegionNA), "platform region")
	bulk := flag.Bool("bulk", false, "route the requests to the bulk processing queue")
	flag.Parse()

	if *op == "" {
		return nil, fmt.Errorf("missing op flag")
	}

	cfg := &config{
		Op:            *op,
		Polygon:       *polygon,
		SeasonFieldID: *seasonFieldID,
		Collection:    *collection,
		Indicator:     *indicator,
		Output:        *output,
		ClientConfig: geosys.Config{
			Credentials: identity.Credentials{
				ClientID:     flagOrEnv(*clientID, "API_CLIENT_ID"),
				ClientSecret: flagOrEnv(*clientSecret, "API_CLIENT_SECRET"),
				Username:     flagOrEnv(*username, "API_USERNAME"),
				Password:     flagOrEnv(*password, "API_PASSWORD"),
			},
			BearerToken: *bearer,
			Env:         common.Env(*env),
			Region:      common.Region(*region),
		},
	}
	if *bulk {
		cfg.ClientConfig.Priority = common.Bulk
	}

	var err error
	if *start != "" {
		if cfg.Start, err = dateparse.ParseAny(*start); err != nil {
			return nil, fmt.Errorf("invalid start flag: %w", err)
		}
	}
	if *end != "" {
		if cfg.End, err = dateparse.ParseAny(*end); err != nil {
			return nil, fmt.Errorf("invalid end flag: %w", err)
		}
	} else {
		cfg.End = time.Now()
	}
	return cfg, nil
}

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		log.Fatal("error", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	cfg, err := newAppConfig()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	client, err := geosys.New(ctx, cfg.ClientConfig)
	if err != nil {
		return err
	}

	var result interface{}
	switch cfg.Op {
	case "crops":
		result, err = client.AvailableCrops(ctx)

	case "timeseries":
		result, err = client.GetTimeSeries(ctx, cfg.Start, cfg.End, cfg.Collection, []string{cfg.Indicator}, cfg.Polygon, cfg.SeasonFieldID)

	case "coverage":
		var references map[geosys.ImageKey]geosys.ImageReference
		if _, references, err = client.GetSatelliteCoverageImageReferences(ctx, cfg.Start, cfg.End, nil, cfg.Polygon, cfg.SeasonFieldID, 80); err == nil {
			list := make([]geosys.ImageReference, 0, len(references))
			for _, ref := range references {
				list = append(list, ref)
			}
			result = list
		}

	case "download":
		imageID := flag.Arg(0)
		if imageID == "" {
			return fmt.Errorf("download: missing image id argument")
		}
		if err = client.DownloadImage(ctx, cfg.Polygon, imageID, cfg.Indicator, cfg.Output); err == nil {
			return nil
		}

	case "mrts":
		params := geosys.DefaultMRTSParameters()
		if !cfg.Start.IsZero() {
			params.StartDate = cfg.Start
		}
		params.EndDate = cfg.End
		var uri string
		if uri, err = client.GetMRTimeSeries(ctx, cfg.Polygon, params); err == nil {
			log.Logger(ctx).Sugar().Infof("results stored under %s", uri)
			if cfg.Output != "" {
				result, err = client.DownloadProcessorResults(ctx, uri, cfg.Output)
			} else {
				result = uri
			}
		}

	default:
		return fmt.Errorf("unknown op: %s", cfg.Op)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
