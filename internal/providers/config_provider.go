package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"tad/internal/structures"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "TAD_LOG_LEVEL")
	viper.BindEnv("database.url", "TAD_DATABASE_URL")
	viper.BindEnv("collector.baseUrl", "TAD_COLLECTOR_URL")
	viper.BindEnv("analyzer.baseUrl", "TAD_ANALYZER_URL")
	viper.BindEnv("notifier.webhookUrl", "TAD_WEBHOOK_URL")
	viper.BindEnv("scheduler.dailyAt", "TAD_DAILY_AT")
	viper.BindEnv("scheduler.timezone", "TAD_TIMEZONE")
	viper.BindEnv("cache.enabled", "TAD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "TAD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "TrendAnalysisDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// applyDefaults fills policy values the config file may omit. The detector
// thresholds fall back to the stock policy (50% relative growth inside a
// 4 hour window, or an absolute delta above 100k views).
func applyDefaults(conf *structures.Config) {
	if conf.Detector.RelativeThresholdPct == 0 {
		conf.Detector.RelativeThresholdPct = 50
	}
	if conf.Detector.WindowHours == 0 {
		conf.Detector.WindowHours = 4
	}
	if conf.Detector.AbsoluteThreshold == 0 {
		conf.Detector.AbsoluteThreshold = 100000
	}
	if conf.Retry.MaxRetries == 0 {
		conf.Retry.MaxRetries = 3
	}
	if conf.Retry.BaseDelay == 0 {
		conf.Retry.BaseDelay = 100 * time.Millisecond
	}
	if conf.Retry.MaxDelay == 0 {
		conf.Retry.MaxDelay = 5 * time.Second
	}
	if conf.Database.MaxOpenConns == 0 {
		conf.Database.MaxOpenConns = 10
	}
	if conf.Database.MaxIdleConns == 0 {
		conf.Database.MaxIdleConns = 2
	}
	if conf.Database.ConnMaxLifetime == 0 {
		conf.Database.ConnMaxLifetime = 5 * time.Minute
	}
	if conf.Notifier.MaxAlertsPerRun == 0 {
		conf.Notifier.MaxAlertsPerRun = 10
	}
	if conf.Scheduler.Timezone == "" {
		conf.Scheduler.Timezone = "Local"
	}
}
