package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBatch(t *testing.T) {
	items := make([]int, 7)
	for i := range items {
		items[i] = i
	}

	batches := GenerateBatch(items, 3)
	assert.Len(t, batches, 3)
	assert.Equal(t, []int{0, 1, 2}, batches[0])
	assert.Equal(t, []int{3, 4, 5}, batches[1])
	assert.Equal(t, []int{6}, batches[2])
}

func TestGenerateBatchEmpty(t *testing.T) {
	assert.Nil(t, GenerateBatch([]int{}, 3))
}

func TestGenerateBatchInvalidSize(t *testing.T) {
	batches := GenerateBatch([]string{"a", "b"}, 0)
	assert.Len(t, batches, 1)
	assert.Equal(t, []string{"a", "b"}, batches[0])
}

func TestGenerateBatchExactMultiple(t *testing.T) {
	batches := GenerateBatch([]int{1, 2, 3, 4}, 2)
	assert.Len(t, batches, 2)
}
