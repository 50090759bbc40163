package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/coursedesk/course-survey-mcp/internal/config"
	"github.com/coursedesk/course-survey-mcp/internal/models"
	"github.com/coursedesk/course-survey-mcp/internal/search"
	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/coursedesk/course-survey-mcp/internal/store/redisstore"
	"github.com/coursedesk/course-survey-mcp/internal/tools"
	"github.com/rs/zerolog"
)

type Config struct {
	RedisAddr     string
	RedisPassword string
	HTTPPort      int
	LogLevel      string
}

type Dependencies struct {
	Store    store.Store
	Registry *tools.Registry
	Courses  *tools.CourseTools
	Users    *tools.UserTools
	Surveys  *tools.SurveyTools
	Misc     *tools.MiscTools
	Logger   *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		HTTPPort:      getEnvInt("PORT", 8080),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Wire constructs the store client once and injects it into every tool.
// A failed connection leaves the store nil: tools report DependencyNotReady
// per call and the process has to restart to recover, matching the
// init-once-reuse contract.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	searchCfg, err := config.LoadSearchConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load search config: %w", err)
	}

	var st store.Store
	client, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 3, logger)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Document store unavailable, tools will report DependencyNotReady")
	} else {
		st = client
	}

	var engine *search.Engine
	if st != nil {
		engine = search.NewEngine(st, models.CollectionCourses, searchCfg.EngineConfig(), logger)
	}

	courses := tools.NewCourseTools(st, engine, logger)
	users := tools.NewUserTools(st, logger)
	surveys := tools.NewSurveyTools(st, logger)
	misc := tools.NewMiscTools(logger)

	registry := tools.NewRegistry()
	registry.Register("list_all_courses", courses.ListAll)
	registry.Register("search_courses_by_name", courses.SearchByName)
	registry.Register("search_courses_by_description", courses.SearchByDescription)
	registry.Register("search_courses_by_company", courses.SearchByCompany)
	registry.Register("get_users_by_ids", users.GetByIDs)
	registry.Register("get_users_by_company", users.GetByCompany)
	registry.Register("query_surveys", surveys.Query)
	registry.Register("hello_world", misc.Hello)
	registry.Register("get_current_time", misc.CurrentTime)
	registry.Register("get_weather", misc.Weather)

	return &Dependencies{
		Store:    st,
		Registry: registry,
		Courses:  courses,
		Users:    users,
		Surveys:  surveys,
		Misc:     misc,
		Logger:   logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
