// Command soundings processes one multibeam echosounder .all recording into
// a georeferenced sounding dataset, prints per-column diagnostics, and
// optionally exports the result to a sqlite database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/banshee-data/seafloor.report/internal/config"
	"github.com/banshee-data/seafloor.report/internal/sonar/pipeline"
	"github.com/banshee-data/seafloor.report/internal/sonar/soundingdb"
)

var (
	inputFile     = flag.String("file", "", "Path to the .all survey recording (required)")
	configPath    = flag.String("config", "", "Optional JSON processing config")
	dbPath        = flag.String("db", "", "Optional sqlite database to export the dataset to")
	progressEvery = flag.Int("progress", pipeline.DefaultProgressEvery, "Pings between progress log lines")
	quiet         = flag.Bool("quiet", false, "Suppress per-column summaries")
)

func main() {
	flag.Parse()

	if *inputFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	// File overrides come first; explicit flags stay authoritative for
	// anything the config file does not name.
	if *configPath != "" {
		cfg, err := config.LoadProcessingConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		if cfg.ProgressEvery != nil {
			*progressEvery = *cfg.ProgressEvery
		}
		if cfg.DBPath != nil && *dbPath == "" {
			*dbPath = *cfg.DBPath
		}
		if cfg.Quiet != nil {
			*quiet = *cfg.Quiet
		}
	}

	log.Printf("processing %s", *inputFile)

	ds, stats, err := pipeline.RunFile(*inputFile, pipeline.Config{
		ProgressEvery: *progressEvery,
	})
	if err != nil {
		log.Fatalf("processing failed: %v", err)
	}

	log.Printf("run %s: %d pings processed, %d skipped, %d soundings in %v",
		stats.RunID, stats.PingsProcessed, stats.PingsSkipped, stats.Soundings, stats.Elapsed)

	if !*quiet {
		summaries := ds.Summaries()
		names := make([]string, 0, len(summaries))
		for name := range summaries {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-12s %s\n", name, summaries[name])
		}
	}

	if *dbPath != "" {
		store, err := soundingdb.Open(*dbPath)
		if err != nil {
			log.Fatalf("open sounding db: %v", err)
		}
		defer store.Close()

		if err := store.InsertRun(*inputFile, stats, ds); err != nil {
			log.Fatalf("export dataset: %v", err)
		}
		log.Printf("exported run %s to %s", stats.RunID, *dbPath)
	}
}
