package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"jane@acme.com",
		"jane.doe+demo@acme.co.uk",
		"  padded@acme.com  ",
	}
	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}

	invalid := []string{
		"",
		"not-an-email",
		"jane@",
		"@acme.com",
		"jane@acme",
		"jane doe@acme.com",
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}
