package helpers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ParseLimit reads the "limit" query parameter, falling back to
// DefaultListLimit when absent or invalid and capping at MaxListLimit.
func ParseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultListLimit)))
	if err != nil || limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// UserIDFromContext returns the authenticated account id set by the JWT middleware.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// Context keys populated by the authentication middleware
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)
