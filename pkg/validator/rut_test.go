package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRUT(t *testing.T) {
	valid := []string{
		"12.345.678-9",
		"12.345.678-k",
		"12.345.678-K",
		"1.234.567-0",
		"12345678-9",
		"1234567-k",
	}
	for _, rut := range valid {
		assert.True(t, ValidRUT(rut), "expected %q to be valid", rut)
	}

	invalid := []string{
		"",
		"12345678",
		"12.345.678",
		"12.345.67-9",
		"123456789-0",
		"12,345,678-9",
		"abc.def.ghi-j",
	}
	for _, rut := range invalid {
		assert.False(t, ValidRUT(rut), "expected %q to be invalid", rut)
	}
}
