package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"legisdir/internal/config"
	"legisdir/internal/logger"
	"legisdir/internal/pipeline"
	"legisdir/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log, err := logger.New("flatten-contacts", cfg.LogEnv)
	must(err)
	defer log.Sync()

	var db *storage.DB
	if cfg.LedgerEnabled() {
		db, err = storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
	}

	svc := pipeline.NewFlattenService(db, cfg, log, os.Stdout)

	cmd := "flatten"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "flatten":
		_, err := svc.Run(context.Background())
		must(err)
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs to list")
		_ = fs.Parse(os.Args[2:])
		if db == nil {
			must(fmt.Errorf("run ledger disabled: set DB_PATH"))
		}
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s %s records=%d flattened=%d removed=%d passthrough=%d emails=%d\n",
				r.CreatedAt, r.TraceID, r.Counts.Records, r.Counts.Flattened, r.Counts.Removed, r.Counts.Passthrough, r.Counts.EmailsHoisted)
		}
	case "report":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		run := fs.String("run", "", "run trace id (defaults to the last run)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		n, err := svc.ExportRun(strings.TrimSpace(*run), *out)
		must(err)
		fmt.Printf("exported %d changes to %s\n", n, *out)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: flatten-contacts [command]")
	fmt.Println("commands:")
	fmt.Println("  flatten (default)")
	fmt.Println("  runs [--limit=20]")
	fmt.Println("  report [--run=<traceId>] --out=./out/contacts.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
