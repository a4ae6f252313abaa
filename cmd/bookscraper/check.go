package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/bookscraper/internal/models"
	"github.com/ternarybob/bookscraper/internal/worker"
)

// checkResult is the JSON shape printed per source, regardless of whether
// -source or -all was used.
type checkResult struct {
	SourceID string `json:"sourceId"`
	Name     string `json:"name"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

func runCheck(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	sourceID := fs.String("source", "", "source ID to check")
	all := fs.Bool("all", false, "check every configured source")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sourceID == "" && !*all {
		return fmt.Errorf("check requires -source or -all")
	}

	var targets []*models.SourceSpec
	if *all {
		srcs, err := a.Sources.ListSources(ctx)
		if err != nil {
			return err
		}
		targets = srcs
	} else {
		src, err := a.Sources.GetSource(ctx, *sourceID)
		if err != nil {
			return err
		}
		targets = []*models.SourceSpec{src}
	}

	task := worker.Task(func(taskCtx context.Context, source *models.SourceSpec) (any, error) {
		ok, err := a.Engine.Check(taskCtx, source)
		return ok, err
	})

	results := make([]checkResult, 0, len(targets))
	for r := range a.Pool.Run(ctx, targets, task) {
		cr := checkResult{SourceID: r.Source.ID, Name: r.Source.Name}
		if r.Err != nil {
			cr.Error = r.Err.Error()
		} else if ok, _ := r.Value.(bool); ok {
			cr.OK = true
		}
		results = append(results, cr)
	}

	return json.NewEncoder(os.Stdout).Encode(results)
}
