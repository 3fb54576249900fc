package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// pagination is the limit/page pair of a list request.
type pagination struct {
	Limit int
	Page  int
}

func (p pagination) Offset() int { return (p.Page - 1) * p.Limit }

// parsePagination reads ?limit= and ?page=; bad or missing values fall back
// to the defaults.
func parsePagination(c *gin.Context) pagination {
	p := pagination{Limit: defaultPageSize, Page: 1}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		p.Limit = min(n, maxPageSize)
	}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Page = n
	}
	return p
}

// newPage wraps results with the total count and absolute links to the
// neighbouring pages.
func newPage[T any](c *gin.Context, p pagination, total int64, results []T) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	page := types.Page[T]{Count: total, Results: results}
	if int64(p.Page*p.Limit) < total {
		page.Next = pageURL(c, p.Page+1)
	}
	if p.Page > 1 {
		page.Previous = pageURL(c, p.Page-1)
	}
	return page
}

func pageURL(c *gin.Context, page int) *string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
