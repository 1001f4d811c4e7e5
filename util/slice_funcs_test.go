package util

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceFuncs(t *testing.T) {
	xs := []int{3, 1, 4, 1, 5}

	assert.Equal(t, 1, IndexOf(xs, 1))
	assert.Equal(t, -1, IndexOf(xs, 9))
	assert.True(t, Contains(xs, 5))
	assert.False(t, Contains([]string(nil), "x"))

	assert.Equal(t, []string{"3", "1", "4", "1", "5"}, Map(xs, strconv.Itoa))
	assert.Equal(t, []int{4}, Filter(xs, func(x int) bool { return x%2 == 0 }))
	assert.Empty(t, Filter(xs, func(x int) bool { return x > 10 }))
}
