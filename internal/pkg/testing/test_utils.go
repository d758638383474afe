package testing

import (
	"testing"

	"rsa_engine_service/internal/pkg/config"
	"rsa_engine_service/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

// SetupTestLogger initializes the shared console logger and returns a
// handle tagged with the test name, so output from parallel suites
// stays attributable.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelInfo,
		LogType:  config.LogTypeConsole,
	}
	require.NoError(t, logger.InitLogger(settings))

	log, err := logger.GetLogger()
	require.NoError(t, err)

	return log.WithComponent(t.Name())
}
