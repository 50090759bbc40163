package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coursedesk/course-survey-mcp/internal/mcpadapter"
	"github.com/coursedesk/course-survey-mcp/internal/setup"
	"github.com/coursedesk/course-survey-mcp/internal/setup/logger"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// Load env
	_ = godotenv.Load()

	// Setup logging. Stdout carries the protocol, so logs go to stderr.
	log := logger.NewConsole(os.Getenv("LOG_LEVEL"))

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load Config
	cfg := setup.LoadConfig()

	// Wire dependencies
	deps, err := setup.Wire(ctx, cfg, &log)
	if err != nil {
		log.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	// Create MCP Server
	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			log.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		log.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "course-survey-mcp",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_all_courses",
		Description: "List every course document (capped at 1000, truncated flag set when the cap is hit)",
	}, mcpadapter.Handler(deps.Courses.ListAll, mcpadapter.EmptyArgs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_courses_by_name",
		Description: "Fuzzy search courses by courseName. Tokens are ANDed; results are ranked and truncated to topK.",
	}, mcpadapter.Handler(deps.Courses.SearchByName, mcpadapter.SearchArgs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_courses_by_description",
		Description: "Fuzzy search courses by description",
	}, mcpadapter.Handler(deps.Courses.SearchByDescription, mcpadapter.SearchArgs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_courses_by_company",
		Description: "Fuzzy search courses by targetCompany",
	}, mcpadapter.Handler(deps.Courses.SearchByCompany, mcpadapter.SearchArgs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_users_by_ids",
		Description: "Fetch users for a comma-delimited id list and report the ids that were not found",
	}, mcpadapter.Handler(deps.Users.GetByIDs, mcpadapter.UserIDsArgs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_users_by_company",
		Description: "List a company's users ordered by userName ascending (topK default 200)",
	}, mcpadapter.Handler(deps.Users.GetByCompany, mcpadapter.CompanyArgs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_surveys",
		Description: "Fetch surveys by courseId or userId (exactly one of the two)",
	}, mcpadapter.Handler(deps.Surveys.Query, mcpadapter.SurveyArgs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "hello_world",
		Description: "Connectivity check: greet by name",
	}, mcpadapter.Handler(deps.Misc.Hello, mcpadapter.HelloArgs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_current_time",
		Description: "Current UTC time in RFC 3339",
	}, mcpadapter.Handler(deps.Misc.CurrentTime, mcpadapter.EmptyArgs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_weather",
		Description: "Dummy weather report for a city",
	}, mcpadapter.Handler(deps.Misc.Weather, mcpadapter.WeatherArgs))

	return server
}
