package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/gfgm/gfgm/backend/internal/types"
)

const (
	defaultPageSize   = 10
	aiListPageSize    = 12
	maxPageSize       = 100
	defaultSortColumn = "createdAt"
)

// sortable fields exposed to clients, mapped to column names
var recipeSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"prepTime":  "prep_time",
	"cookTime":  "cook_time",
	"servings":  "servings",
	"calories":  "calories",
}

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"username":  "username",
	"email":     "email",
}

// normalizePage applies defaults and bounds, and turns sortBy/direction into
// an ORDER BY clause drawn only from the allowed columns.
func normalizePage(p types.PageRequest, defaultSize int, columns map[string]string) (types.PageRequest, string, error) {
	if p.Page < 0 {
		return p, "", types.Validationf("page must not be negative")
	}
	if p.Size == 0 {
		p.Size = defaultSize
	}
	if p.Size < 1 || p.Size > maxPageSize {
		return p, "", types.Validationf("size must be between 1 and %d", maxPageSize)
	}
	// the offset page*size must fit in an int
	if p.Page > math.MaxInt/p.Size {
		return p, "", types.Validationf("page %d is out of range", p.Page)
	}

	if p.SortBy == "" {
		p.SortBy = defaultSortColumn
	}
	column, ok := columns[p.SortBy]
	if !ok {
		return p, "", types.Validationf("cannot sort by %q", p.SortBy)
	}

	dir := strings.ToUpper(p.Direction)
	switch dir {
	case "":
		dir = "DESC"
	case "ASC", "DESC":
	default:
		return p, "", types.Validationf("direction must be ASC or DESC")
	}
	p.Direction = dir

	return p, fmt.Sprintf("%s %s, id ASC", column, dir), nil
}

// likePattern builds a case-insensitive substring pattern with LIKE wildcards escaped
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}
