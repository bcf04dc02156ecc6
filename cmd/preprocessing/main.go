package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"kmend/agriroute/pkg/concurrent"
	"kmend/agriroute/pkg/config"
	"kmend/agriroute/pkg/geocoding"
	"kmend/agriroute/pkg/kv"
	"kmend/agriroute/pkg/logger"
	"kmend/agriroute/pkg/osmparser"
	"kmend/agriroute/pkg/roadnetwork"
	"kmend/agriroute/pkg/server/rest/service"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

var (
	pairsFile  = flag.String("f", "routes.csv", "csv of start_point,end_point pairs whose road graphs get cached")
	numWorkers = flag.Int("workers", runtime.NumCPU(), "concurrent warm-up jobs")
)

type warmupResult struct {
	line int
	key  string
	err  error
}

// warm-up: geocodes every pair and stores the road graph of its box in the graph store.
func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	jobs, err := readPairs(*pairsFile)
	if err != nil {
		lg.Fatal("read pairs", zap.String("file", *pairsFile), zap.Error(err))
	}

	kvDB, err := kv.OpenKVDB(cfg.GraphDBDir, cfg.GraphCacheTTL)
	if err != nil {
		lg.Fatal("open graph store", zap.String("dir", cfg.GraphDBDir), zap.Error(err))
	}
	defer kvDB.Close()

	var source roadnetwork.RoadNetworkSource = osmparser.NewOverpassSource(cfg.OverpassURL, cfg.RoadTimeout)
	if cfg.RoadPBFFile != "" {
		source = osmparser.NewPBFSource(cfg.RoadPBFFile)
	}
	roads := roadnetwork.NewProvider(source, kvDB, cfg.GraphCacheSize, cfg.GraphCacheTTL, cfg.RoadTimeout, lg)

	svc := service.NewNavigationService(geocoding.NewResolverFromConfig(cfg, lg), roads, nil, nil, nil,
		service.Settings{
			RainfallThresholdMm: cfg.RainfallThresholdMm,
			BBoxMarginKm:        cfg.BBoxMarginKm,
			BBoxQuantumDeg:      cfg.BBoxQuantumDeg,
		}, lg)

	bar := progressbar.NewOptions(len(jobs),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/1][reset] Caching road graphs..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	ctx := context.Background()
	wp := concurrent.NewWorkerPool[concurrent.WarmupJobItem, warmupResult](*numWorkers, len(jobs))
	for _, job := range jobs {
		wp.AddJob(job)
	}
	wp.Close()
	wp.Start(func(job concurrent.WarmupJobItem) warmupResult {
		key, err := svc.Warmup(ctx, job.StartPoint, job.EndPoint)
		return warmupResult{line: job.Line, key: key, err: err}
	})
	go wp.Wait()

	failed := 0
	keys := make(map[string]struct{})
	for res := range wp.CollectResults() {
		bar.Add(1)
		if res.err != nil {
			failed++
			lg.Warn("warm-up failed", zap.Int("line", res.line), zap.Error(res.err))
			continue
		}
		keys[res.key] = struct{}{}
	}

	fmt.Printf("\n%d pairs, %d road graphs cached (%d built), %d failed\n",
		len(jobs), len(keys), roads.Builds(), failed)
}

// readPairs csv with a start_point,end_point header; blank and incomplete rows are skipped.
func readPairs(path string) ([]concurrent.WarmupJobItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var jobs []concurrent.WarmupJobItem
	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "start_point") {
			continue
		}
		if len(rec) < 2 || strings.TrimSpace(rec[0]) == "" || strings.TrimSpace(rec[1]) == "" {
			continue
		}
		jobs = append(jobs, concurrent.WarmupJobItem{
			Line:       line,
			StartPoint: strings.TrimSpace(rec[0]),
			EndPoint:   strings.TrimSpace(rec[1]),
		})
	}
	return jobs, nil
}
