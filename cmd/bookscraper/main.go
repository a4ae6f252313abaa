package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/common"
)

// configPaths is a custom flag type that allows multiple -config flags,
// later files overriding earlier ones.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

func main() {
	defer common.Stop()
	common.InstallCrashHandler("logs")

	var configFiles configPaths
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
	port := flag.Int("port", 0, "Server port override")
	host := flag.String("host", "", "Server host override")
	showVersion := flag.Bool("version", false, "Print version information")

	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("bookscraper version %s\n", common.GetVersion())
		os.Exit(0)
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("bookscraper.toml"); err == nil {
			configFiles = append(configFiles, "bookscraper.toml")
		}
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	bootLogger := arbor.NewLogger()
	a, err := newApp(context.Background(), configFiles, *port, *host, bootLogger)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to initialize application")
		os.Exit(1)
	}
	defer a.Close()

	logger := common.SetupLogger(a.Config)
	a.Logger = logger
	common.PrintBanner(a.Config, logger)

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	var cmdErr error
	switch cmd {
	case "search":
		cmdErr = runSearch(ctx, a, rest)
	case "toc":
		cmdErr = runToc(ctx, a, rest)
	case "content":
		cmdErr = runContent(ctx, a, rest)
	case "check":
		cmdErr = runCheck(ctx, a, rest)
	default:
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		logger.Error().Err(cmdErr).Str("command", cmd).Msg("command failed")
		fmt.Fprintf(os.Stderr, "error: %v\n", cmdErr)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "bookscraper - book-source rule-execution engine")
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  bookscraper [-config file]... <command> [flags]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  search   -source <id> -key <term> [-page N]   search a source for books")
	fmt.Fprintln(os.Stderr, "  toc      -source <id> -url <tocUrl>           fetch a table of contents")
	fmt.Fprintln(os.Stderr, "  content  -source <id> -url <chapterUrl>       fetch chapter content")
	fmt.Fprintln(os.Stderr, "  check    -source <id> | -all                  verify a source still works")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
