package pagination

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultSize is the default number of items per page
const DefaultSize = 20

// MaxSize is the maximum number of items per page
const MaxSize = 100

// Params represents pagination parameters. Page is zero-based.
type Params struct {
	Page    int    `json:"page"`
	Size    int    `json:"size"`
	Offset  int    `json:"-"`
	SortBy  string `json:"sortBy"`
	SortDir string `json:"sortDir"`
	// column is the database column SortBy resolved to
	column string
}

// SortColumns maps the sortBy values a listing accepts to database columns.
type SortColumns map[string]string

// Common sort columns shared by every listing
var baseColumns = SortColumns{
	"id":        "id",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// GetParams extracts page, size, sortBy and sortDir from the query string.
// Unknown sortBy values fall back to id; they never reach SQL.
func GetParams(c *fiber.Ctx, columns SortColumns) *Params {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	size, _ := strconv.Atoi(c.Query("size", strconv.Itoa(DefaultSize)))
	return New(page, size, c.Query("sortBy", "id"), c.Query("sortDir", "asc"), columns)
}

// New builds normalized params
func New(page, size int, sortBy, sortDir string, columns SortColumns) *Params {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	sortDir = strings.ToLower(sortDir)
	if sortDir != "desc" {
		sortDir = "asc"
	}

	column, ok := columns[sortBy]
	if !ok {
		column, ok = baseColumns[sortBy]
	}
	if !ok {
		sortBy, column = "id", "id"
	}

	return &Params{
		Page:    page,
		Size:    size,
		Offset:  page * size,
		SortBy:  sortBy,
		SortDir: sortDir,
		column:  column,
	}
}

// Order returns the ORDER BY clause for GORM
func (p *Params) Order() string {
	column := p.column
	if column == "" {
		column = "id"
	}
	return column + " " + p.SortDir
}

// OrderOn qualifies the ORDER BY column with table, for queries with joins
func (p *Params) OrderOn(table string) string {
	return table + "." + p.Order()
}

// Page is one page of results
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage wraps content with paging metadata
func NewPage[T any](content []T, params *Params, total int64) *Page[T] {
	totalPages := int(total) / params.Size
	if int(total)%params.Size > 0 {
		totalPages++
	}
	if content == nil {
		content = []T{}
	}

	return &Page[T]{
		Content:       content,
		Page:          params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         params.Page == 0,
		Last:          params.Page >= totalPages-1,
	}
}

// Map converts page content while keeping the metadata
func Map[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	out := make([]R, len(p.Content))
	for i, item := range p.Content {
		out[i] = fn(item)
	}
	return &Page[R]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}
