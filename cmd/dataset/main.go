package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/coursedesk/course-survey-mcp/internal/dataset"
	"github.com/coursedesk/course-survey-mcp/internal/setup"
	"github.com/coursedesk/course-survey-mcp/internal/store/redisstore"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: dataset <command> [flags]

Commands:
  export  -collection <name> [-dir dataset]   dump a collection to JSON files
  import  -collection <name> -path <file|dir> upsert snapshot JSON into a collection
  get     -collection <name> -id <id>         print one document as JSON
  verify                                      check survey references against courses/users`)
	os.Exit(1)
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]

	if err := run(command, os.Args[2:]); err != nil {
		log.Error().Err(err).Str("command", command).Msg("dataset command failed")
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	_ = godotenv.Load()

	logger := log.Logger
	ctx := context.Background()

	cfg := setup.LoadConfig()
	client, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 3, &logger)
	if err != nil {
		return err
	}
	defer client.Close()

	switch command {
	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		collection := fs.String("collection", "", "collection to export")
		dir := fs.String("dir", "dataset", "output directory")
		_ = fs.Parse(args)
		if *collection == "" {
			usage()
		}
		_, err := dataset.Export(ctx, client, *collection, *dir, &logger)
		return err

	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		collection := fs.String("collection", "", "collection to import into")
		path := fs.String("path", "", "snapshot file or directory")
		_ = fs.Parse(args)
		if *collection == "" || *path == "" {
			usage()
		}
		_, err := dataset.Import(ctx, client, *collection, *path, &logger)
		return err

	case "get":
		fs := flag.NewFlagSet("get", flag.ExitOnError)
		collection := fs.String("collection", "", "collection to read from")
		id := fs.String("id", "", "document id")
		_ = fs.Parse(args)
		if *collection == "" || *id == "" {
			usage()
		}
		doc, err := client.GetByID(ctx, *collection, *id)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil

	case "verify":
		report, err := dataset.Verify(ctx, client, &logger)
		if err != nil {
			return err
		}
		fmt.Printf("Courses in surveys: %d (missing: %d)\n", report.SurveyCourseIDs, len(report.MissingCourseIDs))
		if len(report.MissingCourseIDs) > 0 {
			fmt.Println("  Missing courseIds (first 20):", head(report.MissingCourseIDs, 20))
		}
		fmt.Printf("Users in surveys: %d (missing: %d)\n", report.SurveyUserIDs, len(report.MissingUserIDs))
		if len(report.MissingUserIDs) > 0 {
			fmt.Println("  Missing userIds (first 20):", head(report.MissingUserIDs, 20))
		}
		if !report.Consistent() {
			os.Exit(1)
		}
		fmt.Println("All survey references are consistent.")
		return nil

	default:
		usage()
		return nil
	}
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
