package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/coursedesk/course-survey-mcp/internal/api/middleware"
	"github.com/coursedesk/course-survey-mcp/internal/tools"
	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Handler struct {
	registry *tools.Registry
	logger   *zerolog.Logger
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ToolListResponse struct {
	Tools []string `json:"tools"`
}

func NewHandler(registry *tools.Registry, logger *zerolog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// POST /api/v1/tools/{tool}
// Body: any of the accepted argument formats (JSON object, JSON string,
// plain string). Tool failures come back as the envelope with status 200;
// only an unknown tool name is an HTTP-level error.
func (h *Handler) InvokeTool(req *restful.Request, resp *restful.Response) {
	toolName := req.PathParameter("tool")

	body, err := io.ReadAll(req.Request.Body)
	if err != nil {
		h.logger.Error().Err(err).Str("tool", toolName).Msg("Failed to read request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	var input any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &input); err != nil {
			// Not JSON at all: treat the body as the raw string form.
			input = string(body)
		}
	}

	h.logger.Info().Str("tool", toolName).Msg("Invoking tool")

	payload, ok := h.registry.Invoke(req.Request.Context(), toolName, input)
	if !ok {
		middleware.HandleError(resp, fmt.Errorf("unknown tool: %s", toolName), http.StatusNotFound)
		return
	}

	_ = resp.WriteHeaderAndEntity(http.StatusOK, payload)
}

// GET /api/v1/tools
func (h *Handler) ListTools(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, ToolListResponse{Tools: h.registry.Names()})
}

// GET|POST /api/v1/hello
// Optional name from the query string or a JSON body. Always 200 on
// success; 500 with trace id and stack tail if anything slips through.
func (h *Handler) Hello(req *restful.Request, resp *restful.Response) {
	traceID := uuid.NewString()
	h.logger.Info().Str("traceId", traceID).Msg("Greeting requested")

	defer func() {
		if rec := recover(); rec != nil {
			stack := string(debug.Stack())
			if len(stack) > 4000 {
				stack = stack[len(stack)-4000:]
			}
			h.logger.Error().Str("traceId", traceID).Any("panic", rec).Msg("Greeting failed")
			_ = resp.WriteHeaderAndEntity(http.StatusInternalServerError, tools.Payload{
				"error":   "内部エラー",
				"traceId": traceID,
				"details": stack,
			})
		}
	}()

	name := req.QueryParameter("name")
	if name == "" {
		var body map[string]any
		if err := req.ReadEntity(&body); err == nil {
			name, _ = body["name"].(string)
		}
	}

	message := "HTTP トリガーは正常に実行されました。クエリまたは JSON ボディで name を指定すると挨拶します。"
	if name != "" {
		message = fmt.Sprintf("こんにちは、%s さん。この HTTP トリガー関数は正常に実行されました。", name)
	}

	_ = resp.WriteHeaderAndEntity(http.StatusOK, tools.Payload{
		"message": message,
		"traceId": traceID,
	})
}

// GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}
