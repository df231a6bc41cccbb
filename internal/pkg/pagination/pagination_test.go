package pagination_test

import (
	"testing"

	"statefin-backend/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
)

func TestNewNormalizes(t *testing.T) {
	columns := pagination.SortColumns{"nameEn": "name_en"}

	tests := []struct {
		name                  string
		page, size            int
		sortBy, sortDir       string
		wantPage, wantSize    int
		wantOffset            int
		wantOrder, wantSortBy string
	}{
		{"defaults", 0, 0, "id", "asc", 0, 20, 0, "id asc", "id"},
		{"negative page", -3, 10, "id", "asc", 0, 10, 0, "id asc", "id"},
		{"size capped", 2, 500, "id", "desc", 2, 100, 200, "id desc", "id"},
		{"mapped column", 1, 10, "nameEn", "DESC", 1, 10, 10, "name_en desc", "nameEn"},
		{"base column", 0, 10, "createdAt", "asc", 0, 10, 0, "created_at asc", "createdAt"},
		{"unknown column", 0, 10, "password; drop table users", "sideways", 0, 10, 0, "id asc", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pagination.New(tt.page, tt.size, tt.sortBy, tt.sortDir, columns)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.Size)
			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.Equal(t, tt.wantOrder, p.Order())
			assert.Equal(t, tt.wantSortBy, p.SortBy)
		})
	}
}

func TestNewPage(t *testing.T) {
	params := pagination.New(1, 2, "id", "asc", nil)
	page := pagination.NewPage([]int{3, 4}, params, 5)

	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.First)
	assert.False(t, page.Last)
	assert.Equal(t, int64(5), page.TotalElements)

	mapped := pagination.Map(page, func(i int) int { return i * 10 })
	assert.Equal(t, []int{30, 40}, mapped.Content)
	assert.Equal(t, page.TotalPages, mapped.TotalPages)

	empty := pagination.NewPage[int](nil, pagination.New(0, 20, "id", "asc", nil), 0)
	assert.NotNil(t, empty.Content)
	assert.True(t, empty.First)
	assert.True(t, empty.Last)
}
