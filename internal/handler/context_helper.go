package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/simdok/simdok-api/internal/middleware"
	"github.com/simdok/simdok-api/internal/models"
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

func pageParams(c *gin.Context) (int, int) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)
	return page, pageSize
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return fallback
		}
		value = value*10 + int(r-'0')
	}
	if value == 0 {
		return fallback
	}
	return value
}
