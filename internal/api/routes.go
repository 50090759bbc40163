package api

import (
	"github.com/coursedesk/course-survey-mcp/internal/api/middleware"
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/hello").
			To(handler.Hello).
			Doc("Greeting endpoint").
			Metadata(restfulspec.KeyOpenAPITags, []string{"hello"}).
			Param(ws.QueryParameter("name", "Name to greet").DataType("string").Required(false)).
			Returns(200, "OK", nil).
			Returns(500, "Internal Server Error", nil))

	ws.
		Route(ws.POST("/hello").
			To(handler.Hello).
			Doc("Greeting endpoint (name from JSON body)").
			Metadata(restfulspec.KeyOpenAPITags, []string{"hello"}).
			Returns(200, "OK", nil).
			Returns(500, "Internal Server Error", nil))

	ws.
		Route(ws.GET("/tools").
			To(handler.ListTools).
			Doc("List registered tools").
			Metadata(restfulspec.KeyOpenAPITags, []string{"tools"}).
			Writes(ToolListResponse{}).
			Returns(200, "OK", ToolListResponse{}))

	ws.
		Route(ws.POST("/tools/{tool}").
			To(handler.InvokeTool).
			Doc("Invoke a tool by name").
			Metadata(restfulspec.KeyOpenAPITags, []string{"tools"}).
			Param(ws.PathParameter("tool", "Tool name").DataType("string")).
			Returns(200, "OK", nil).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Tool Not Found", middleware.ErrorResponse{}))

	container.Add(ws)
}
