package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	lib "github.com/urban-mobility/routeplan"
	"github.com/urban-mobility/routeplan/blob"
	"github.com/urban-mobility/routeplan/config"
	"github.com/urban-mobility/routeplan/livestatus"
	"github.com/urban-mobility/routeplan/route"
	"github.com/urban-mobility/routeplan/traveltime"
)

const (
	stationsObjectKey  = "referentiel/stations.parquet"
	schedulesObjectKey = "referentiel/schedules.parquet"

	sweepInterval  = time.Hour
	reportInterval = 6 * time.Hour
	matrixInterval = 12 * time.Hour
	fullInterval   = 24 * time.Hour
)

func main() {
	mode := flag.String("mode", "oneshot", "oneshot|loop")
	tasks := flag.String("tasks", "sweep,report", "Comma-separated tasks: sweep,report,matrix,prewarm")
	flag.Parse()

	lib.InitLogging()
	cfg, err := config.LoadAppConfig()
	if err != nil {
		panic(err)
	}
	durable, err := blob.NewFromConfig(cfg.Store)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	stations, schedules := loadTables(ctx, durable)

	var status route.StatusSource = livestatus.NewTableSource(schedules)
	if cfg.LiveStatus.ServiceAlertsURL != "" {
		fetcher := livestatus.NewFetcher(
			time.Duration(cfg.LiveStatus.TimeoutMS)*time.Millisecond, cfg.LiveStatus.MaxRetries)
		alerts := livestatus.NewAlertSource(fetcher, cfg.LiveStatus.ServiceAlertsURL, schedules)
		if err := alerts.Refresh(ctx); err != nil {
			log.Printf("service alerts refresh failed: %v", err)
		}
		status = livestatus.NewCombined(livestatus.NewTableSource(schedules), alerts)
	}

	planner := lib.NewPlanner(cfg, durable, stations, schedules, status)
	estimator := traveltime.NewEstimator(planner.Store(), cfg.Matrix.HubKeywords)

	selected := map[string]bool{}
	for _, t := range strings.Split(*tasks, ",") {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" {
			selected[t] = true
		}
	}

	switch *mode {
	case "oneshot":
		runTasks(ctx, planner, estimator, stations, schedules, selected)
	case "loop":
		runLoop(ctx, planner, estimator, stations, schedules)
	default:
		panic("unknown mode")
	}
}

func loadTables(ctx context.Context, durable blob.Store) ([]route.Station, []route.ScheduleRow) {
	var stations []route.Station
	var schedules []route.ScheduleRow

	if data, err := durable.Get(ctx, stationsObjectKey); err == nil {
		if stations, err = route.ReadStationsParquet(data); err != nil {
			log.Printf("stations table unreadable: %v", err)
		}
	} else if !errors.Is(err, blob.ErrNotFound) {
		log.Printf("stations table fetch failed: %v", err)
	}
	if data, err := durable.Get(ctx, schedulesObjectKey); err == nil {
		if schedules, err = route.ReadSchedulesParquet(data); err != nil {
			log.Printf("schedules table unreadable: %v", err)
		}
	} else if !errors.Is(err, blob.ErrNotFound) {
		log.Printf("schedules table fetch failed: %v", err)
	}
	log.Printf("loaded %d stations, %d schedule rows", len(stations), len(schedules))
	return stations, schedules
}

func runTasks(ctx context.Context, planner *lib.Planner, estimator *traveltime.Estimator,
	stations []route.Station, schedules []route.ScheduleRow, selected map[string]bool) {
	if selected["sweep"] {
		removed, err := planner.Maintenance().Sweep(ctx)
		if err != nil {
			log.Printf("sweep failed: %v", err)
		} else {
			log.Printf("sweep removed %d expired entries", removed)
		}
	}
	if selected["matrix"] {
		edges, err := estimator.Build(ctx, stations, schedules)
		if err != nil {
			log.Printf("matrix build failed: %v", err)
		} else {
			log.Printf("matrix rebuilt with %d edges", edges)
		}
	}
	if selected["prewarm"] {
		matrix, _ := estimator.Load(ctx)
		report, err := lib.NewPrewarmer(planner, matrix).Run(ctx)
		if err != nil {
			log.Printf("prewarm failed: %v", err)
		} else {
			log.Printf("prewarm: %d pairs, %d checked, %d warmed (cap reached: %v)",
				report.PairsConsidered, report.Checked, report.Warmed, report.CapReached)
		}
	}
	if selected["report"] {
		report := planner.CacheStats(ctx)
		buf, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Printf("report encode failed: %v", err)
			return
		}
		fmt.Println(string(buf))

		top, err := planner.Tracker().TopN(ctx, 10)
		if err != nil {
			log.Printf("popular routes report failed: %v", err)
			return
		}
		for i, rec := range top {
			log.Printf("popular route %d: %s -> %s (%d requests)",
				i+1, rec.Origin, rec.Destination, rec.Count)
		}
	}
}

// runLoop runs the periodic cadence: hourly sweep, six-hourly report,
// twice-daily matrix rebuild, and a daily full cycle including pre-warm.
func runLoop(ctx context.Context, planner *lib.Planner, estimator *traveltime.Estimator,
	stations []route.Station, schedules []route.ScheduleRow) {
	sweep := time.NewTicker(sweepInterval)
	report := time.NewTicker(reportInterval)
	matrix := time.NewTicker(matrixInterval)
	full := time.NewTicker(fullInterval)
	defer sweep.Stop()
	defer report.Stop()
	defer matrix.Stop()
	defer full.Stop()

	runTasks(ctx, planner, estimator, stations, schedules,
		map[string]bool{"sweep": true, "matrix": true, "prewarm": true, "report": true})

	for {
		select {
		case <-sweep.C:
			runTasks(ctx, planner, estimator, stations, schedules, map[string]bool{"sweep": true})
		case <-report.C:
			runTasks(ctx, planner, estimator, stations, schedules, map[string]bool{"report": true})
		case <-matrix.C:
			runTasks(ctx, planner, estimator, stations, schedules, map[string]bool{"matrix": true})
		case <-full.C:
			runTasks(ctx, planner, estimator, stations, schedules,
				map[string]bool{"sweep": true, "matrix": true, "prewarm": true, "report": true})
		case <-ctx.Done():
			return
		}
	}
}
