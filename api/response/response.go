// Package response writes the JSON error bodies shared by every controller.
package response

import (
	"errors"
	"net/http"

	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/beka-birhanu/vinom-gather/service"
	"github.com/gin-gonic/gin"
)

// Error codes.
const (
	CodeInvalidArgument = "invalidArgument"
	CodeMapNotFound     = "mapNotFound"
	CodeInvalidToken    = "invalidToken"
	CodeUnknownToken    = "unknownToken"
	CodeInvalidMethod   = "invalidMethod"
	CodeBadRequest      = "badRequest"
	CodeInternal        = "internalError"
)

// ErrorBody is the body of every failed API request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error aborts the request with the given status and error body.
func Error(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, ErrorBody{Code: code, Message: message})
}

// FromError aborts the request with the status and code matching err.
func FromError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrMapNotFound):
		Error(ctx, http.StatusNotFound, CodeMapNotFound, "Map not found")
	case errors.Is(err, game.ErrUnknownToken):
		Error(ctx, http.StatusUnauthorized, CodeUnknownToken, "Player token has not been found")
	case errors.Is(err, service.ErrManualTickDisabled):
		Error(ctx, http.StatusBadRequest, CodeBadRequest, "Invalid endpoint")
	case errors.Is(err, game.ErrInvalidArgument):
		Error(ctx, http.StatusBadRequest, CodeInvalidArgument, err.Error())
	default:
		_ = ctx.Error(err)
		Error(ctx, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}
