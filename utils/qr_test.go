package utils

import (
	"bytes"
	"testing"

	"venue_manager/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInURL(t *testing.T) {
	s := config.Get()
	prev := s.PublicURL
	t.Cleanup(func() { s.PublicURL = prev })

	s.PublicURL = "https://venue.example/"
	assert.Equal(t, "https://venue.example/check-in?ref=TB-ABC+123", CheckInURL("TB-ABC 123"))
}

func TestCheckInQRCodeIsPNG(t *testing.T) {
	png, err := CheckInQRCode("TB-20260410-XYZ")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}
