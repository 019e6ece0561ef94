package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"blogsearch/internal/app"
	"blogsearch/internal/config"
	"blogsearch/internal/domain"
	"blogsearch/internal/highlight"
	"blogsearch/internal/search"
)

// options are the command line settings of one run
type options struct {
	configPath     string
	contentDir     string
	query          string
	listHistory    bool
	listCategories bool
	record         bool
	initConfig     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config file")
	flag.StringVar(&opts.contentDir, "dir", "", "Content directory to index")
	flag.StringVar(&opts.query, "q", "", "Query to run")
	flag.BoolVar(&opts.listHistory, "history", false, "List recent searches")
	flag.BoolVar(&opts.listCategories, "categories", false, "List the categories of published articles")
	flag.BoolVar(&opts.record, "record", false, "Add the query to history when it has results")
	flag.BoolVar(&opts.initConfig, "init-config", false, "Write the default config file and exit")
	flag.Parse()

	// Log to stderr so results on stdout stay clean
	log.SetOutput(os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, opts options) error {
	configSvc := config.NewConfigService()
	if opts.initConfig {
		return writeDefaultConfig(out, configSvc, opts.configPath)
	}

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = configSvc.LoadFromPath(opts.configPath)
	} else {
		cfg, err = configSvc.Load()
	}
	if err != nil {
		return err
	}
	if opts.contentDir != "" {
		cfg.Content.Source = config.SourceFS
		cfg.Content.Dir = opts.contentDir
	}

	services, err := app.New(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer services.Close()

	worked := false
	if opts.listHistory {
		for _, term := range services.History.Items() {
			fmt.Fprintln(out, term)
		}
		worked = true
	}
	if opts.listCategories {
		if err := services.Engine.Prewarm(ctx); err != nil {
			return err
		}
		for _, c := range services.Engine.Categories() {
			fmt.Fprintln(out, c)
		}
		worked = true
	}

	if opts.query == "" {
		if worked {
			return nil
		}
		return fmt.Errorf("nothing to do: pass -q, -history or -categories")
	}

	results, err := services.Engine.Query(ctx, opts.query)
	if err != nil {
		return err
	}
	printResults(out, results, services.Engine.Limit())

	if opts.record && len(results) > 0 {
		services.History.Add(opts.query)
	}
	return nil
}

// writeDefaultConfig saves the defaults to path, or to the default location
func writeDefaultConfig(out io.Writer, configSvc config.ConfigService, path string) error {
	cfg := config.DefaultConfig()
	if path == "" {
		if err := configSvc.Save(cfg); err != nil {
			return err
		}
		path = config.DefaultPath()
	} else if err := configSvc.SaveToPath(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

// printResults writes one block per result, best first. A full page is
// flagged since more documents may match.
func printResults(out io.Writer, results []domain.SearchResult, limit int) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No results")
		return
	}
	if len(results) >= limit {
		fmt.Fprintf(out, "Showing the best %d matches\n", limit)
	}
	for i, r := range results {
		doc := r.Document
		fmt.Fprintf(out, "%d. %s  (%.3f)\n", i+1, marked(r, search.FieldTitle, doc.Title), r.Score)
		fmt.Fprintf(out, "   %s\n", doc.Path)
		if doc.Description != "" {
			fmt.Fprintf(out, "   %s\n", marked(r, search.FieldDescription, doc.Description))
		}
		for _, m := range r.Matches {
			if m.Field == search.FieldTitle || m.Field == search.FieldDescription {
				continue
			}
			fmt.Fprintf(out, "   %s: %s\n", m.Field, highlight.Highlight(m.Value, m.Ranges))
		}
	}
}

// marked highlights value when field matched it
func marked(r domain.SearchResult, field, value string) string {
	for _, m := range r.Matches {
		if m.Field == field && m.Value == value {
			return highlight.Highlight(value, m.Ranges)
		}
	}
	return value
}
