package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/silosim/silotherm/internal/api"
	"github.com/silosim/silotherm/internal/configuration"
	"github.com/silosim/silotherm/internal/persistence"
	"github.com/silosim/silotherm/internal/scenarios"
	"github.com/silosim/silotherm/internal/statistics"
	"github.com/silosim/silotherm/internal/ui"
)

// RunStudy executes every configured scenario in warm-start order,
// persists the results and, when enabled, keeps serving them over the
// REST api and the prometheus statistics endpoint until interrupted.
func RunStudy() {
	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	if err := pers.Init(); err != nil {
		ui.Warning("Could not initialize persistence, results will not be saved: %v", err)
		pers = nil
	}

	statistics.Register(statistics.NewScenarioCollector())

	if err := RunScenarios(pers); err != nil {
		ui.Fatal("%v", err)
	}

	apiEnabled := configuration.CurrentConfig.Api.Enabled
	statisticsEnabled := configuration.CurrentConfig.Statistics.Enabled
	if !apiEnabled && !statisticsEnabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	if statisticsEnabled {
		// === Prometheus Exporter
		g.Add(func() error {
			port := configuration.CurrentConfig.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9429
			}
			addr := fmt.Sprintf(":%d", port)
			server := &http.Server{Addr: addr, Handler: promhttp.Handler()}
			ui.Info("Serving statistics on %s/metrics", addr)
			if err := server.ListenAndServe(); err != nil {
				ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
			}

			<-ctx.Done()
			ui.Info("Stopping statistics server...")
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer timeoutCancel()
			return server.Shutdown(timeoutCtx)
		}, func(err error) {
			if err != nil {
				ui.Warning("Error stopping statistics server: " + err.Error())
			} else {
				ui.Info("Statistics server stopped.")
			}
		})
	}
	if apiEnabled {
		// === REST api
		restService := api.CreateRestService()
		g.Add(func() error {
			host := configuration.CurrentConfig.Api.Host
			port := configuration.CurrentConfig.Api.Port
			if port <= 0 || port >= 65535 {
				port = 9428
			}
			addr := fmt.Sprintf("%s:%d", host, port)
			ui.Info("Serving scenario results on %s", addr)
			if err := restService.Start(addr); err != nil {
				ui.Error("Cannot start rest api endpoint (%s)", err.Error())
			}

			<-ctx.Done()
			ui.Info("Stopping rest api server...")
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer timeoutCancel()
			return restService.Shutdown(timeoutCtx)
		}, func(err error) {
			if err != nil {
				ui.Warning("Error stopping rest api server: " + err.Error())
			} else {
				ui.Info("Rest api server stopped.")
			}
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received SIGTERM signal, exiting...")
			return nil
		}, func(err error) {
			defer close(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// RunScenarios runs all configured scenarios. Warm-starting scenarios
// run after their source; validation guarantees the dependency graph
// is acyclic, so every pass over the remaining scenarios makes
// progress.
func RunScenarios(pers persistence.Persistence) error {
	remaining := make([]configuration.ScenarioConfig, len(configuration.CurrentConfig.Scenarios))
	copy(remaining, configuration.CurrentConfig.Scenarios)

	for len(remaining) > 0 {
		progressed := false
		var deferred []configuration.ScenarioConfig

		for _, scenarioConfig := range remaining {
			if len(scenarioConfig.WarmStartFrom) > 0 {
				if _, exists := scenarios.ResultMap.Get(scenarioConfig.WarmStartFrom); !exists {
					deferred = append(deferred, scenarioConfig)
					continue
				}
			}

			if err := runScenario(scenarioConfig, pers); err != nil {
				return err
			}
			progressed = true
		}

		if !progressed {
			return fmt.Errorf("unable to resolve warm-start order for scenarios: %v", scenarioIdsOf(deferred))
		}
		remaining = deferred
	}

	return nil
}

func runScenario(scenarioConfig configuration.ScenarioConfig, pers persistence.Persistence) error {
	ui.Info("Running scenario %s...", scenarioConfig.ID)

	result, err := scenarios.Run(scenarioConfig, &configuration.CurrentConfig)
	if err != nil {
		return err
	}
	scenarios.ResultMap.Set(scenarioConfig.ID, result)

	if pers != nil {
		if err := pers.SaveReport(scenarioConfig.ID, result.Report); err != nil {
			ui.Warning("Could not save report of scenario %s: %v", scenarioConfig.ID, err)
		}
		if err := pers.SaveTrajectory(scenarioConfig.ID, result.Trajectory); err != nil {
			ui.Warning("Could not save trajectory of scenario %s: %v", scenarioConfig.ID, err)
		}
	}

	return nil
}

func scenarioIdsOf(configs []configuration.ScenarioConfig) []string {
	var ids []string
	for _, scenarioConfig := range configs {
		ids = append(ids, scenarioConfig.ID)
	}
	return ids
}
