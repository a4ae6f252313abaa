package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

func runSearch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	sourceID := fs.String("source", "", "source ID to search")
	key := fs.String("key", "", "search keyword")
	page := fs.Int("page", 1, "result page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sourceID == "" || *key == "" {
		return fmt.Errorf("search requires -source and -key")
	}

	src, err := a.Sources.GetSource(ctx, *sourceID)
	if err != nil {
		return err
	}

	books, err := a.Engine.Search(ctx, src, *key, *page)
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(books)
}
