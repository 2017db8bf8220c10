// Command ingest loads bank statements and policy documents into the search
// indexes for one user. Files come either from a local directory (-dir) or,
// when no directory is given, from the configured S3 bucket. Files ending in
// .csv are treated as statements; everything else is indexed as a free-text
// document.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/fincontext/internal/buildinfo"
	"github.com/dmitrijs2005/fincontext/internal/flagx"
	"github.com/dmitrijs2005/fincontext/internal/logging"
	"github.com/dmitrijs2005/fincontext/internal/search"
	"github.com/dmitrijs2005/fincontext/internal/server/config"
	"github.com/dmitrijs2005/fincontext/internal/server/services"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()

	args := flagx.FilterArgs(os.Args[1:], []string{"-user", "-dir"})
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	user := fs.String("user", "", "username to tag ingested data with")
	dir := fs.String("dir", "", "local directory to read from (S3 bucket when empty)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("%v", err)
	}

	if *user == "" {
		log.Fatal("missing required flag: -user")
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	es := search.NewElasticClient(cfg.ElasticEndpoint, cfg.ElasticAPIKey)
	svc := services.NewIngestService(es, cfg.TransactionsIndex, cfg.DocumentsIndex, logger)

	var src services.DocumentSource
	if *dir != "" {
		src = services.NewLocalSource(*dir)
	} else {
		src = services.NewS3Source(cfg, *user)
	}

	ctx := context.Background()

	names, err := src.List(ctx)
	if err != nil {
		log.Fatalf("listing source: %v", err)
	}
	if len(names) == 0 {
		log.Println("nothing to ingest")
		return
	}

	for _, name := range names {
		if err := ingestFile(ctx, svc, src, *user, name); err != nil {
			log.Fatalf("ingesting %s: %v", name, err)
		}
	}

	log.Printf("ingested %d file(s) for %s", len(names), *user)
}

func ingestFile(ctx context.Context, svc *services.IngestService, src services.DocumentSource, user, name string) error {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	if strings.EqualFold(filepath.Ext(name), ".csv") {
		n, err := svc.IngestTransactionsCSV(ctx, user, rc)
		if err != nil {
			return err
		}
		log.Printf("%s: %d transactions", name, n)
		return nil
	}

	if err := svc.IngestPolicyDocument(ctx, user, filepath.Base(name), rc); err != nil {
		return err
	}
	log.Printf("%s: document indexed", name)
	return nil
}
