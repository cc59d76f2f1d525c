package parser

import (
	"os"

	"go.uber.org/zap"

	"github.com/user/ber_plotter_go/internal/logging"
)

// Locate returns primary when it exists, otherwise fallback. Using the
// fallback is logged so that path drift is visible. When neither exists the
// error is a *NotFoundError.
func Locate(primary, fallback string, logger *zap.Logger) (string, error) {
	logger = logging.OrNop(logger)

	if fileExists(primary) {
		return primary, nil
	}
	if fallback != "" && fallback != primary && fileExists(fallback) {
		logger.Info("data file found at fallback location",
			zap.String("primary", primary),
			zap.String("fallback", fallback))
		return fallback, nil
	}
	return "", &NotFoundError{Primary: primary, Fallback: fallback}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
