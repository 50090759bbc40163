package mcpadapter

import (
	"context"

	"github.com/coursedesk/course-survey-mcp/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool input schemas. Field names match the HTTP argument keys so callers
// can move between transports without renaming anything.

type SearchInput struct {
	SearchTerm string `json:"searchTerm" jsonschema:"text to search for"`
	TopK       int    `json:"topK,omitempty" jsonschema:"maximum number of results (default: 5)"`
}

type EmptyInput struct{}

type UserIDsInput struct {
	UserIDs string `json:"userIds" jsonschema:"comma- or newline-delimited user ids"`
}

type CompanyInput struct {
	CompanyName string `json:"companyName" jsonschema:"exact company name"`
	TopK        int    `json:"topK,omitempty" jsonschema:"maximum number of results (default: 200)"`
}

type SurveyInput struct {
	CourseID string `json:"courseId,omitempty" jsonschema:"course id to fetch surveys for"`
	UserID   string `json:"userId,omitempty" jsonschema:"user id to fetch surveys for"`
	TopK     int    `json:"topK,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

type HelloInput struct {
	Name string `json:"name,omitempty" jsonschema:"name to greet (default: World)"`
}

type WeatherInput struct {
	City string `json:"city" jsonschema:"city to report weather for"`
	Time string `json:"time,omitempty" jsonschema:"timestamp to attach (default: now, UTC)"`
}

// Handler adapts a tool entry point to the typed MCP handler signature.
// Pass the returned function to mcp.AddTool.
func Handler[In any](fn tools.Func, toArgs func(In) map[string]any) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, tools.Payload, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, tools.Payload, error) {
		return nil, fn(ctx, tools.ParseArguments(toArgs(input))), nil
	}
}

func SearchArgs(in SearchInput) map[string]any {
	m := map[string]any{"searchTerm": in.SearchTerm}
	if in.TopK > 0 {
		m["topK"] = in.TopK
	}
	return m
}

func EmptyArgs(EmptyInput) map[string]any { return map[string]any{} }

func UserIDsArgs(in UserIDsInput) map[string]any {
	return map[string]any{"userIds": in.UserIDs}
}

func CompanyArgs(in CompanyInput) map[string]any {
	m := map[string]any{"companyName": in.CompanyName}
	if in.TopK > 0 {
		m["topK"] = in.TopK
	}
	return m
}

func SurveyArgs(in SurveyInput) map[string]any {
	m := map[string]any{"courseId": in.CourseID, "userId": in.UserID}
	if in.TopK > 0 {
		m["topK"] = in.TopK
	}
	return m
}

func HelloArgs(in HelloInput) map[string]any {
	return map[string]any{"name": in.Name}
}

func WeatherArgs(in WeatherInput) map[string]any {
	return map[string]any{"city": in.City, "time": in.Time}
}
