package health

import (
	"testing"

	"github.com/bigladder/erin/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Simulation: config.SimulationConfig{
			MaxComponents:        5000,
			MaxOccurrencesPerRun: 10000,
			MaxSweepRounds:       1000,
		},
	}
}

func TestReportWithNoRedisIsHealthyWithNoChecks(t *testing.T) {
	c := NewChecker(testConfig(), "0.1.0", nil)
	report := c.Report()

	if report.Status != StatusHealthy {
		t.Errorf("Status = %v, want %v", report.Status, StatusHealthy)
	}
	if len(report.Checks) != 0 {
		t.Errorf("Checks = %v, want empty (no Redis configured)", report.Checks)
	}
	if report.Limits.MaxComponents != 5000 {
		t.Errorf("Limits.MaxComponents = %d, want 5000", report.Limits.MaxComponents)
	}
	if report.Version != "0.1.0" {
		t.Errorf("Version = %q, want %q", report.Version, "0.1.0")
	}
	if report.Runtime.CPUCount <= 0 {
		t.Error("Runtime.CPUCount should be positive")
	}
}
