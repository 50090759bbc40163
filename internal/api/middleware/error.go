package middleware

import (
	"github.com/emicklei/go-restful/v3"
)

// ErrorResponse is the HTTP-level error body for transport problems
// (malformed requests, unknown routes). Tool-level failures use the tool
// envelope instead and still ship with status 200.
type ErrorResponse struct {
	Error string `json:"error"`
}

func HandleError(resp *restful.Response, err error, status int) {
	_ = resp.WriteHeaderAndEntity(status, ErrorResponse{Error: err.Error()})
}
