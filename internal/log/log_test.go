package log_test

import (
	"testing"

	"github.com/nikolayk812/voiceshop/internal/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantError string
	}{
		{
			name:      "debug text: ok",
			level:     "debug",
			format:    "text",
			wantLevel: logrus.DebugLevel,
		},
		{
			name:      "warn json: ok",
			level:     "warn",
			format:    "JSON",
			wantLevel: logrus.WarnLevel,
		},
		{
			name:      "unknown level: error",
			level:     "loud",
			wantError: `logrus.ParseLevel: not a valid logrus Level: "loud"`,
		},
		{
			name:      "unknown format: error",
			level:     "info",
			format:    "xml",
			wantError: "log format[xml] is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := log.Init(tt.level, tt.format)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, log.L().GetLevel())
		})
	}

	require.NoError(t, log.Init("info", "text"))
}
