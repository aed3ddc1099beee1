package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luct-portal/reporting-api/internal/middleware"
	"github.com/luct-portal/reporting-api/internal/models"
	"github.com/luct-portal/reporting-api/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext builds the workflow actor from JWT claims. Routes behind
// the JWT middleware always have claims; a missing set yields a zero actor
// whose role fails every capability check.
func actorFromContext(c *gin.Context) service.Actor {
	claims := claimsFromContext(c)
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{ID: claims.UserID, Role: claims.Role, FullName: claims.FullName}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
