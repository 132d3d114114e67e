package utils

import (
	"fmt"
	"time"

	"github.com/byu-imaal/dns-cookies-pam21/utils/logger"
)

// RetryExec retries function up to retries times with a fixed delay between
// attempts. The last error is returned after all attempts fail.
func RetryExec(function func() error, retries int, delay time.Duration) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = function(); err == nil {
			return nil
		}
		if attempt < retries {
			logger.Warnf("attempt %d failed: %s; retrying in %s", attempt+1, err, delay)
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", retries+1, err)
}
