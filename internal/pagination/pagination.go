package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	DefaultSort  = "-created_at"
)

// Params are the page/limit/search/sort query parameters shared by list
// endpoints.
type Params struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

// Parse reads pagination parameters from the request query, clamping page to
// >= 1 and limit to [1, MaxLimit].
func Parse(c *gin.Context) Params {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   c.DefaultQuery("sort", DefaultSort),
	}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause converts the comma-separated sort expression ("-created_at,username")
// into a SQL ORDER BY clause. Fields not present in the allowed map are
// ignored, which also keeps user input out of the SQL text.
func (p Params) OrderClause(allowed map[string]string) string {
	var clauses []string
	for _, field := range strings.Split(p.Sort, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")

		column, ok := allowed[field]
		if !ok {
			continue
		}
		if desc {
			clauses = append(clauses, column+" DESC")
		} else {
			clauses = append(clauses, column+" ASC")
		}
	}
	return strings.Join(clauses, ", ")
}

// Meta is the pagination metadata returned alongside list results.
type Meta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewMeta(total int64, p Params) Meta {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{
		Total:       total,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalPages:  totalPages,
		HasNextPage: int64(p.Page)*int64(p.Limit) < total,
		HasPrevPage: p.Page > 1,
	}
}
