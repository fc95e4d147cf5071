package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/auth"
	"github.com/balasutharsan1247/student-fitness-app/internal/response"
)

// HandleError logs err and writes the envelope for its kind.
func HandleError(c *gin.Context, logger internal.Logger, err error, msg string) {
	status, resp := response.FromError(err)
	log := logger.With("request_id", c.GetString("request_id"), "status", status)
	if status >= http.StatusInternalServerError {
		log.Errorw(msg, "error", err)
	} else {
		log.Warnw(msg, "error", err)
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	logger.Debugw("success", "request_id", c.GetString("request_id"), "path", c.FullPath())
	c.JSON(http.StatusOK, response.Success(data, meta))
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}) {
	logger.Infow("created", "request_id", c.GetString("request_id"), "path", c.FullPath())
	c.JSON(http.StatusCreated, response.Success(data, nil))
}

// bindJSON decodes the body into req and reports malformed input as a
// client error.
func bindJSON(c *gin.Context, app App, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		HandleError(c, app.Logger(), fmt.Errorf("%w: malformed JSON body: %v", internal.ErrInvalidInput, err), "Invalid request body")
		return false
	}
	return true
}

// currentUser is only valid on routes behind auth.AuthMiddleware.
func currentUser(c *gin.Context) *internal.User {
	user, ok := auth.CurrentUser(c)
	if !ok {
		panic("api: handler mounted without auth middleware")
	}
	return user
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
