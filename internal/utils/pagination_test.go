package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePagination(t *testing.T) {
	meta := CalculatePagination(2, 25, 60)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 26, meta.From)
	assert.Equal(t, 50, meta.To)
	assert.True(t, meta.HasMore)

	last := CalculatePagination(3, 25, 60)
	assert.Equal(t, 60, last.To)
	assert.False(t, last.HasMore)

	empty := CalculatePagination(1, 25, 0)
	assert.Zero(t, empty.From)
	assert.Zero(t, empty.To)
	assert.False(t, empty.HasMore)
}

func TestGetOffset(t *testing.T) {
	assert.Equal(t, 0, GetOffset(1, 25))
	assert.Equal(t, 50, GetOffset(3, 25))
}
