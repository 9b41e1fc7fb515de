package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{TotalCount: 21, Page: 2, Limit: 10, TotalPages: 3}, NewPagination(21, Filter{Page: 2, Limit: 10}))
	assert.Equal(t, 1, NewPagination(10, Filter{Page: 1, Limit: 10}).TotalPages)
	assert.Zero(t, NewPagination(0, Filter{Page: 1, Limit: 10}).TotalPages)
	assert.Zero(t, NewPagination(5, Filter{}).TotalPages)
}
