package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url" validate:"required"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	QueryTimeout    time.Duration `yaml:"queryTimeout" validate:"required|min:1"`
}

type CollectorConfig struct {
	BaseURL string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Timeout time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type AnalyzerConfig struct {
	BaseURL string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Timeout time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type NotifierConfig struct {
	WebhookURL      string        `yaml:"webhookUrl" validate:"required|fullUrl"`
	Timeout         time.Duration `yaml:"timeout" validate:"required|min:1"`
	MaxAlertsPerRun int           `yaml:"maxAlertsPerRun"`
}

// SchedulerConfig drives the two standing triggers. DailyAt is a local
// wall-clock time ("15:04") interpreted in Timezone.
type SchedulerConfig struct {
	DailyAt                 string        `yaml:"dailyAt" validate:"required"`
	Timezone                string        `yaml:"timezone"`
	DailyLookbackHours      int           `yaml:"dailyLookbackHours" validate:"required|min:1"`
	MonitoringEvery         time.Duration `yaml:"monitoringEvery" validate:"required|min:1"`
	MonitoringLookbackHours int           `yaml:"monitoringLookbackHours" validate:"required|min:1"`
	MaxResults              int           `yaml:"maxResults" validate:"required|min:1"`
}

// DetectorConfig holds the dual-threshold alert policy: alert when relative
// growth exceeds RelativeThresholdPct within WindowHours, or when the
// absolute view delta exceeds AbsoluteThreshold.
type DetectorConfig struct {
	RelativeThresholdPct float64 `yaml:"relativeThresholdPct"`
	WindowHours          float64 `yaml:"windowHours"`
	AbsoluteThreshold    int64   `yaml:"absoluteThreshold"`
}

type RetryConfig struct {
	MaxRetries int           `yaml:"maxRetries"`
	BaseDelay  time.Duration `yaml:"baseDelay"`
	MaxDelay   time.Duration `yaml:"maxDelay"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Database  DatabaseConfig  `yaml:"database"`
	Collector CollectorConfig `yaml:"collector"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Notifier  NotifierConfig  `yaml:"notifier"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Detector  DetectorConfig  `yaml:"detector"`
	Retry     RetryConfig     `yaml:"retry"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}
