package faults

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `metadata not found for "AAPL"`, NotFound("metadata", "AAPL").Error())
	assert.Equal(t, `invalid price bar for "2024-03-01": no usable close price`,
		InvalidData("price bar", "2024-03-01", "no usable close price").Error())
}

func TestMatchingThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load detail: %w", NotFound("metadata", "MSFT"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsInvalidData(err))

	err = fmt.Errorf("normalize: %w", InvalidData("price bar", "2024-03-01", "x"))
	assert.True(t, IsInvalidData(err))
	assert.False(t, IsNotFound(err))

	assert.False(t, IsNotFound(fmt.Errorf("plain transport error")))
}
