package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"ACTIVE":     StatusActive,
		"active":     StatusActive,
		" Inactive ": StatusInactive,
		"INACTIVE":   StatusInactive,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "enabled", "ACTIVE!"} {
		_, err := ParseStatus(raw)
		assert.True(t, errors.Is(err, ErrUnknownStatus), raw)
	}
}
