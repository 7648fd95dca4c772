package config

// StoreConfig contains durable object-store connection settings.
// Backend selects the implementation: "minio" talks to an S3-compatible
// endpoint, "fs" keeps blobs under LocalPath (tests and local runs).
type StoreConfig struct {
	Backend   string `yaml:"backend" validate:"omitempty,oneof=minio fs"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Bucket    string `yaml:"bucket" validate:"omitempty"`
	LocalPath string `yaml:"localPath"`
}

// CacheConfig contains TTLs per cache category and memory-tier sizing.
type CacheConfig struct {
	RoutesTTLMinutes        int `yaml:"routesTTLMinutes" validate:"gte=0"`
	StationsTTLMinutes      int `yaml:"stationsTTLMinutes" validate:"gte=0"`
	SchedulesTTLMinutes     int `yaml:"schedulesTTLMinutes" validate:"gte=0"`
	APIResponsesTTLMinutes  int `yaml:"apiResponsesTTLMinutes" validate:"gte=0"`
	PopularRoutesTTLMinutes int `yaml:"popularRoutesTTLMinutes" validate:"gte=0"`
	TravelTimesTTLMinutes   int `yaml:"travelTimesTTLMinutes" validate:"gte=0"`
	MemoryCapacity          int `yaml:"memoryCapacity" validate:"gte=0"`
}

// PlannerConfig contains route synthesis and ranking settings.
type PlannerConfig struct {
	TimeBucketMinutes    int     `yaml:"timeBucketMinutes" validate:"gte=0"`
	WalkingCutoffKM      float64 `yaml:"walkingCutoffKM" validate:"gte=0"`
	WalkingMaxMinutes    int     `yaml:"walkingMaxMinutes" validate:"gte=0"`
	AccessibilityMinimum float64 `yaml:"accessibilityMinimum" validate:"gte=0,lte=1"`
}

// LiveStatusConfig describes the optional GTFS-RT service-alerts feed used
// to apply disruption penalties during synthesis.
type LiveStatusConfig struct {
	ServiceAlertsURL string `yaml:"serviceAlertsURL" validate:"omitempty,url"`
	TimeoutMS        int    `yaml:"timeoutMS" validate:"gte=0"`
	MaxRetries       int    `yaml:"maxRetries" validate:"gte=0"`
}

// MatrixConfig contains travel-time matrix settings.
type MatrixConfig struct {
	HubKeywords []string `yaml:"hubKeywords"`
}

// PrewarmConfig bounds the pre-warming work done per maintenance cycle.
type PrewarmConfig struct {
	TopN            int `yaml:"topN" validate:"gte=0"`
	MaxCombinations int `yaml:"maxCombinations" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Store      StoreConfig      `yaml:"store"`
	Cache      CacheConfig      `yaml:"cache"`
	Planner    PlannerConfig    `yaml:"planner"`
	LiveStatus LiveStatusConfig `yaml:"liveStatus"`
	Matrix     MatrixConfig     `yaml:"matrix"`
	Prewarm    PrewarmConfig    `yaml:"prewarm"`
}
