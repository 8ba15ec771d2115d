package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.True(t, Valid(a))
}

func TestShort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3f2a9c1e-7b4d-4c1a-9e8f-0a1b2c3d4e5f", "3f2a9c1e"},
		{"3f2a-9c1e-77", "3f2a9c1e"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Short(tt.in))
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"64f0c2", true},
		{"3f2a9c1e-7b4d-4c1a-9e8f-0a1b2c3d4e5f", true},
		{"", false},
		{".hidden", false},
		{"..", false},
		{"a/b", false},
		{`a\b`, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.in))
		})
	}
}
