package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

func runContent(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("content", flag.ExitOnError)
	sourceID := fs.String("source", "", "source ID")
	chapterURL := fs.String("url", "", "chapter URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sourceID == "" || *chapterURL == "" {
		return fmt.Errorf("content requires -source and -url")
	}

	src, err := a.Sources.GetSource(ctx, *sourceID)
	if err != nil {
		return err
	}

	chapter, err := a.Engine.ChapterContent(ctx, src, *chapterURL)
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(chapter)
}
