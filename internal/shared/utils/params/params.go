// Package params parses path and query values shared by all controllers.
package params

import (
	"net/http"
	"strconv"

	"bookingdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ID parses a numeric path parameter, writing a 400 when it is invalid
func ID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid "+name, nil, raw)
		return 0, false
	}
	return uint(id), true
}

// Page is a normalized page/limit pair
type Page struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize clamps page and limit to sane values
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// TotalPages returns the page count for total rows
func (p Page) TotalPages(total int64) int {
	n := p.Normalize()
	return int((total + int64(n.Limit) - 1) / int64(n.Limit))
}
