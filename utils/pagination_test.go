package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name           string
		offset, limit  *int
		expectedOffset int
		expectedLimit  int
	}{
		{"Defaults", nil, nil, 0, pageSizeDefault},
		{"Explicit", intPtr(40), intPtr(10), 40, 10},
		{"Negative Offset", intPtr(-1), nil, 0, pageSizeDefault},
		{"Zero Limit", nil, intPtr(0), 0, pageSizeDefault},
		{"Capped Limit", nil, intPtr(1000), 0, pageSizeMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := GetPaginationParams(tt.offset, tt.limit)
			assert.Equal(t, tt.expectedOffset, offset)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	page := Paginate(items, intPtr(1), intPtr(2))
	assert.Equal(t, []string{"b", "c"}, page.Items)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 1, page.Offset)
	assert.Equal(t, 2, page.Limit)

	page = Paginate(items, intPtr(4), intPtr(10))
	assert.Equal(t, []string{"e"}, page.Items)

	page = Paginate(items, intPtr(10), nil)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(5), page.TotalCount)
}
