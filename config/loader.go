package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LoadAppConfig loads and validates the application configuration from
// config.yml, falling back to defaults for anything unset.
func LoadAppConfig() (AppConfig, error) {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return AppConfig{}, err
	}
	return ParseAppConfig(data)
}

// ParseAppConfig parses raw YAML configuration and applies defaults.
func ParseAppConfig(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// Default returns the configuration used when no config.yml is present.
func Default() AppConfig {
	var cfg AppConfig
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "fs"
	}
	if cfg.Store.Bucket == "" {
		cfg.Store.Bucket = "mobility-data-lake"
	}
	if cfg.Store.LocalPath == "" {
		cfg.Store.LocalPath = "./datalake"
	}
	if cfg.Cache.RoutesTTLMinutes == 0 {
		cfg.Cache.RoutesTTLMinutes = 60
	}
	if cfg.Cache.StationsTTLMinutes == 0 {
		cfg.Cache.StationsTTLMinutes = 1440
	}
	if cfg.Cache.SchedulesTTLMinutes == 0 {
		cfg.Cache.SchedulesTTLMinutes = 15
	}
	if cfg.Cache.APIResponsesTTLMinutes == 0 {
		cfg.Cache.APIResponsesTTLMinutes = 10
	}
	if cfg.Cache.PopularRoutesTTLMinutes == 0 {
		cfg.Cache.PopularRoutesTTLMinutes = 30
	}
	if cfg.Cache.TravelTimesTTLMinutes == 0 {
		cfg.Cache.TravelTimesTTLMinutes = 720
	}
	if cfg.Cache.MemoryCapacity == 0 {
		cfg.Cache.MemoryCapacity = 100
	}
	if cfg.Planner.TimeBucketMinutes == 0 {
		cfg.Planner.TimeBucketMinutes = 15
	}
	if cfg.Planner.WalkingCutoffKM == 0 {
		cfg.Planner.WalkingCutoffKM = 4.0
	}
	if cfg.Planner.WalkingMaxMinutes == 0 {
		cfg.Planner.WalkingMaxMinutes = 60
	}
	if cfg.Planner.AccessibilityMinimum == 0 {
		cfg.Planner.AccessibilityMinimum = 0.8
	}
	if cfg.LiveStatus.TimeoutMS == 0 {
		cfg.LiveStatus.TimeoutMS = 10000
	}
	if cfg.LiveStatus.MaxRetries == 0 {
		cfg.LiveStatus.MaxRetries = 3
	}
	if len(cfg.Matrix.HubKeywords) == 0 {
		cfg.Matrix.HubKeywords = []string{
			"La Défense", "Défense", "CNIT", "Grande Arche", "Esplanade",
		}
	}
	if cfg.Prewarm.TopN == 0 {
		cfg.Prewarm.TopN = 10
	}
	if cfg.Prewarm.MaxCombinations == 0 {
		cfg.Prewarm.MaxCombinations = 120
	}
}
