package common

import "fmt"

// Env is the platform environment to target
type Env string

const (
	Prod    Env = "prod"
	Preprod Env = "preprod"
)

// Region is the platform region to target
type Region string

const (
	RegionNA Region = "na"
)

var identityURLs = map[Region]map[Env]string{
	RegionNA: {
		Preprod: "https://identity.preprod.geosys-na.com/v2.1/connect/token",
		Prod:    "https://identity.geosys-na.com/v2.1/connect/token",
	},
}

var apiURLs = map[Region]map[Env]string{
	RegionNA: {
		Preprod: "https://api-pp.geosys-na.net",
		Prod:    "https://api.geosys-na.net",
	},
}

var gisURLs = map[Region]map[Env]string{
	RegionNA: {
		Preprod: "https://gis-services.geosys.com",
		Prod:    "https://gis-services.geosys.com",
	},
}

// IdentityURL returns the token endpoint of the identity server for the region/environment
func IdentityURL(region Region, env Env) (string, error) {
	return lookupURL(identityURLs, region, env)
}

// APIURL returns the base url of the platform for the region/environment
func APIURL(region Region, env Env) (string, error) {
	return lookupURL(apiURLs, region, env)
}

// GISURL returns the base url of the GIS services for the region/environment
func GISURL(region Region, env Env) (string, error) {
	return lookupURL(gisURLs, region, env)
}

func lookupURL(urls map[Region]map[Env]string, region Region, env Env) (string, error) {
	envs, ok := urls[region]
	if !ok {
		return "", fmt.Errorf("unknown region: %s", region)
	}
	url, ok := envs[env]
	if !ok {
		return "", fmt.Errorf("unknown environment: %s", env)
	}
	return url, nil
}
