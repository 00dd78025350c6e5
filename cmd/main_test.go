package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorsConfig(t *testing.T) {
	wildcard := corsConfig([]string{"*"})
	assert.True(t, wildcard.AllowAllOrigins)
	assert.False(t, wildcard.AllowCredentials)
	assert.NoError(t, wildcard.Validate())

	listed := corsConfig([]string{"http://localhost:3000", "https://logs.example.com"})
	assert.False(t, listed.AllowAllOrigins)
	assert.True(t, listed.AllowCredentials)
	assert.Equal(t, []string{"http://localhost:3000", "https://logs.example.com"}, listed.AllowOrigins)
	assert.NoError(t, listed.Validate())
}
