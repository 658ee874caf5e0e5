package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bigladder/erin/internal/config"
	"github.com/bigladder/erin/internal/csvio"
	"github.com/bigladder/erin/internal/database"
	"github.com/bigladder/erin/internal/health"
	"github.com/bigladder/erin/internal/httpstatus"
	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/scenario"
	"github.com/spf13/cobra"
)

var (
	runEventsPath string
	runStatsPath  string
	runStepHours  float64
	runVerbose    bool
	runNoAggregate bool
	runReliability bool
	runSeed       int64
	runCache      bool
	runServe      bool
)

var runCmd = &cobra.Command{
	Use:   "run <toml_file>",
	Short: "Run every scenario in a model and write flow-events and statistics CSVs",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runEventsPath, "events", "e", "events.csv", "flow-events output CSV path")
	runCmd.Flags().StringVarP(&runStatsPath, "stats", "s", "stats.csv", "scenario statistics output CSV path")
	runCmd.Flags().Float64VarP(&runStepHours, "step-hours", "t", 0, "force uniform resampling at this step (hours)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log per-scenario/occurrence progress")
	runCmd.Flags().BoolVarP(&runNoAggregate, "no-aggregate", "n", false, "disable the appended group-aggregate row")
	runCmd.Flags().BoolVarP(&runReliability, "reliability", "r", false, "also emit a reliability.csv of per-mode event/downtime statistics")
	runCmd.Flags().Int64Var(&runSeed, "seed", defaultSeed, "distribution system seed")
	runCmd.Flags().BoolVar(&runCache, "cache", false, "read/write per-occurrence statistics through the Redis occurrence cache (requires ERIN_REDIS_HOST); cache-hit occurrences contribute no rows to events.csv")
	runCmd.Flags().BoolVar(&runServe, "serve", false, "serve an HTTP introspection endpoint (/healthz, /runs/:id) for the duration of this run")
}

func runRun(cmd *cobra.Command, args []string) error {
	path := args[0]
	lm, err := loadModel(path, runSeed)
	if err != nil {
		return err
	}
	if model.HasFatal(lm.result.Issues) {
		printIssues(lm.result.Issues)
		return fmt.Errorf("run: %s has fatal validation issues, see above", path)
	}
	printIssues(lm.result.Issues)

	horizonS := lm.doc.SimulationInfo.MaxTime
	stepS := runStepHours * 3600.0

	tags := make([]string, 0, len(lm.scenarios))
	for tag := range lm.scenarios {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	cache, closeCache, err := buildOccurrenceCache()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer closeCache()

	runID := uuid.New().String()
	var tracker *httpstatus.Tracker
	if runServe {
		tracker = httpstatus.NewTracker()
		tracker.Start(runID, len(tags))
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		checker := health.NewChecker(cfg, version, nil)
		srv := httpstatus.NewServer(checker, tracker)
		addr := cfg.Server.Addr()
		go func() {
			cliLog.Info("serving introspection endpoint on %s (run id %s)", addr, runID)
			if err := srv.Run(addr); err != nil {
				cliLog.Warning("introspection server stopped: %v", err)
			}
		}()
	}

	single := len(tags) == 1
	var runErr error
	for _, tag := range tags {
		sc := lm.scenarios[tag]
		if runVerbose {
			cliLog.Info("running scenario %q (duration=%gs, max_occurrences=%d)", tag, sc.DurationS, sc.MaxOccurrences)
		}

		var occurrences []scenario.Occurrence
		if runCache {
			keyFn := func(occIdx int) string {
				return database.OccurrenceCacheKey(path, tag, occIdx, runSeed)
			}
			occurrences, err = scenario.RunScenarioCached(lm.distributions, lm.result.Model, sc, lm.failureModes, lm.fragilityModes, lm.fragilityCurves, horizonS, cache, keyFn, time.Hour)
		} else {
			occurrences, err = scenario.RunScenario(lm.distributions, lm.result.Model, sc, lm.failureModes, lm.fragilityModes, lm.fragilityCurves, horizonS)
		}
		if err != nil {
			runErr = fmt.Errorf("run: scenario %q: %w", tag, err)
			break
		}
		if runVerbose {
			cliLog.Info("scenario %q produced %d occurrence(s)", tag, len(occurrences))
		}
		if tracker != nil {
			tracker.Advance(runID)
		}

		if stepS > 0 {
			for i := range occurrences {
				occurrences[i].Snapshots = resampleUniform(occurrences[i].Snapshots, stepS, sc.DurationS)
			}
		}

		statsRows := occurrences
		if !runNoAggregate && len(occurrences) > 0 {
			statsRows = append(append([]scenario.Occurrence{}, occurrences...), aggregateOccurrence(occurrences))
		}

		if err := writeScenarioOutput(runEventsPath, tag, single, func(w *os.File) error {
			return csvio.WriteEvents(w, lm.result.Model, tag, occurrences)
		}); err != nil {
			runErr = err
			break
		}
		if err := writeScenarioOutput(runStatsPath, tag, single, func(w *os.File) error {
			return csvio.WriteStats(w, tag, statsRows)
		}); err != nil {
			runErr = err
			break
		}
		if runReliability {
			if err := writeScenarioOutput("reliability.csv", tag, single, func(w *os.File) error {
				return writeReliabilityReport(w, tag, occurrences)
			}); err != nil {
				runErr = err
				break
			}
		}
	}

	if tracker != nil {
		tracker.Finish(runID, runErr)
	}
	if runErr != nil {
		return runErr
	}

	cliLog.Info("run complete: %d scenario(s)", len(tags))
	return nil
}

// buildOccurrenceCache constructs the occurrence-result cache run --cache
// reads/writes through: a Redis-backed cache when ERIN_REDIS_HOST is
// configured, otherwise the always-miss in-memory no-op (so --cache
// without Redis configured is a harmless no-op rather than an error).
// The returned close func disconnects the Redis client, if any.
func buildOccurrenceCache() (scenario.OccurrenceCache, func(), error) {
	noop := func() {}
	if !runCache {
		return nil, noop, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, noop, err
	}
	if !cfg.RedisConfigured() {
		cliLog.Warning("--cache requested but ERIN_REDIS_HOST is not set, using an in-memory no-op cache")
		return database.NewNoopOccurrenceCache(), noop, nil
	}
	client, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, noop, fmt.Errorf("connecting to occurrence cache: %w", err)
	}
	return database.NewRedisOccurrenceCache(client), func() { client.Close() }, nil
}

// writeScenarioOutput creates the file for one scenario's output: path
// itself when there is only one scenario in the run, otherwise
// path's basename with the scenario tag inserted before the extension
// (e.g. "stats.csv" -> "stats_base.csv"), since each of WriteEvents/
// WriteStats/writeReliabilityReport derives its own column set from a
// single scenario's occurrences and cannot be safely concatenated
// across scenarios with differing component/mode columns.
func writeScenarioOutput(path, scenarioTag string, single bool, write func(*os.File) error) error {
	out := path
	if !single {
		ext := filepath.Ext(path)
		base := strings.TrimSuffix(path, ext)
		out = fmt.Sprintf("%s_%s%s", base, scenarioTag, ext)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}
