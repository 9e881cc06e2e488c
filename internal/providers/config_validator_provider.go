package providers

import (
	"fmt"
	"tad/internal/structures"
	"time"

	"github.com/gookit/validate"
)

// CnfValidator checks the unmarshalled config before anything is wired up.
// Struct tags cover the shape; the schedule fields need semantic checks
// (parseable wall-clock time, loadable timezone) on top.
type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if _, err := time.Parse("15:04", cv.conf.Scheduler.DailyAt); err != nil {
		return fmt.Errorf("scheduler.dailyAt %q is not a valid HH:MM time: %w", cv.conf.Scheduler.DailyAt, err)
	}
	if _, err := time.LoadLocation(cv.conf.Scheduler.Timezone); err != nil {
		return fmt.Errorf("scheduler.timezone %q is not a valid location: %w", cv.conf.Scheduler.Timezone, err)
	}
	if cv.conf.Detector.RelativeThresholdPct < 0 {
		return fmt.Errorf("detector.relativeThresholdPct must not be negative")
	}
	if cv.conf.Detector.WindowHours <= 0 {
		return fmt.Errorf("detector.windowHours must be positive")
	}
	if cv.conf.Detector.AbsoluteThreshold < 0 {
		return fmt.Errorf("detector.absoluteThreshold must not be negative")
	}

	return nil
}
