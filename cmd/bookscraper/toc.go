package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

func runToc(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("toc", flag.ExitOnError)
	sourceID := fs.String("source", "", "source ID")
	tocURL := fs.String("url", "", "table of contents URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sourceID == "" || *tocURL == "" {
		return fmt.Errorf("toc requires -source and -url")
	}

	src, err := a.Sources.GetSource(ctx, *sourceID)
	if err != nil {
		return err
	}

	items, err := a.Engine.TableOfContents(ctx, src, *tocURL)
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(items)
}
