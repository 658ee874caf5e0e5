// Package health reports the configured ceilings and runtime environment
// a run is operating under, surfaced by the `erin limits`/`erin version`
// CLI subcommands. ERIN has no HTTP liveness/readiness probes to serve
// (it is a batch CLI, not a long-running service), so the Checker/Report
// shape is pointed at limits reporting instead, with the Redis check
// made optional since Redis itself is optional for ERIN.
package health

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bigladder/erin/internal/config"
	"github.com/bigladder/erin/internal/database"
)

// Status is a three-value health scale.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check is a single named check's outcome.
type Check struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// Limits reports the ceilings configured for this run.
type Limits struct {
	MaxComponents        int `json:"max_components"`
	MaxOccurrencesPerRun int `json:"max_occurrences_per_run"`
	MaxSweepRounds       int `json:"max_sweep_rounds"`
}

// RuntimeInfo reports the Go runtime ERIN is executing under.
type RuntimeInfo struct {
	GoVersion string `json:"go_version"`
	GoOS      string `json:"go_os"`
	GoArch    string `json:"go_arch"`
	CPUCount  int    `json:"cpu_count"`
}

// Report is the full output of `erin limits`.
type Report struct {
	Status    Status      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Version   string      `json:"version"`
	Limits    Limits      `json:"limits"`
	Runtime   RuntimeInfo `json:"runtime"`
	Checks    []Check     `json:"checks"`
}

// Checker builds Reports from the run's configuration and an optional
// Redis connection (nil when the occurrence cache is not configured).
type Checker struct {
	cfg     *config.Config
	version string
	redis   *database.RedisClient
}

// NewChecker constructs a Checker. redis may be nil.
func NewChecker(cfg *config.Config, version string, redis *database.RedisClient) *Checker {
	return &Checker{cfg: cfg, version: version, redis: redis}
}

// Report runs every applicable check and returns the combined report.
func (c *Checker) Report() *Report {
	var checks []Check
	if c.redis != nil {
		checks = append(checks, c.checkRedis())
	}

	status := StatusHealthy
	for _, chk := range checks {
		if chk.Status == StatusUnhealthy {
			status = StatusUnhealthy
			break
		}
		if chk.Status == StatusDegraded && status == StatusHealthy {
			status = StatusDegraded
		}
	}

	return &Report{
		Status:    status,
		Timestamp: time.Now(),
		Version:   c.version,
		Limits: Limits{
			MaxComponents:        c.cfg.Simulation.MaxComponents,
			MaxOccurrencesPerRun: c.cfg.Simulation.MaxOccurrencesPerRun,
			MaxSweepRounds:       c.cfg.Simulation.MaxSweepRounds,
		},
		Runtime: RuntimeInfo{
			GoVersion: runtime.Version(),
			GoOS:      runtime.GOOS,
			GoArch:    runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
		},
		Checks: checks,
	}
}

func (c *Checker) checkRedis() Check {
	start := time.Now()
	chk := Check{Name: "redis"}
	if err := c.redis.Ping(); err != nil {
		chk.Status = StatusUnhealthy
		chk.Message = fmt.Sprintf("redis connection failed: %v", err)
	} else {
		chk.Status = StatusHealthy
		chk.Message = "redis connection healthy"
	}
	chk.Duration = time.Since(start)
	return chk
}
