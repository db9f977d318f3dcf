// Package controllers translates HTTP requests into service calls and maps
// service errors onto status codes.
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postly/postly/middleware"
	"github.com/postly/postly/services"
	"github.com/postly/postly/utils"
)

// currentActor builds the service Actor from the authenticated context, or
// nil when the request is anonymous.
func currentActor(ctx *gin.Context) *services.Actor {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return nil
	}

	var id uint
	switch v := value.(type) {
	case uint:
		id = v
	case int:
		id = uint(v)
	case int64:
		id = uint(v)
	case float64:
		id = uint(v)
	default:
		return nil
	}

	username, _ := ctx.Get(middleware.ContextUsernameKey)
	name, _ := username.(string)
	return &services.Actor{ID: id, Username: name}
}

// renderServiceError maps the service error taxonomy to HTTP statuses. Only
// the kind and a safe message reach the client; storage detail never does.
func renderServiceError(ctx *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("internal error on %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
		return
	}

	switch svcErr.Kind {
	case services.KindValidationFailed:
		utils.FieldErrors(ctx, http.StatusBadRequest, 40010, svcErr.Message, svcErr.Fields)
	case services.KindNotFound:
		utils.Error(ctx, http.StatusNotFound, 40401, svcErr.Message)
	case services.KindUnauthenticated:
		utils.Error(ctx, http.StatusUnauthorized, 40110, svcErr.Message)
	case services.KindUnauthorized:
		utils.Error(ctx, http.StatusForbidden, 40301, svcErr.Message)
	case services.KindDuplicateUsername:
		// The signup contract reports duplicates as a plain bad request.
		utils.FieldErrors(ctx, http.StatusBadRequest, 40011, svcErr.Message, svcErr.Fields)
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}
