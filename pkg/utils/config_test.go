package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 6, config.OTP.Length)
	assert.Equal(t, "8080", config.App.Port)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_OTPLengthBounds(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	for _, length := range []string{"3", "11"} {
		t.Setenv("OTP_LENGTH", length)
		_, err := LoadConfig()
		assert.Error(t, err, length)
	}

	for _, length := range []string{"4", "10"} {
		t.Setenv("OTP_LENGTH", length)
		_, err := LoadConfig()
		assert.NoError(t, err, length)
	}
}
