package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePageLimit(t *testing.T) {
	assert.Equal(t, 20, normalizePageLimit(0))
	assert.Equal(t, 20, normalizePageLimit(-5))
	assert.Equal(t, 1, normalizePageLimit(1))
	assert.Equal(t, 50, normalizePageLimit(50))
}
