package app

import (
	"fmt"
	"strings"

	"github.com/willibrandon/tswindow/internal/query"
)

// FormatFetchError turns a failed query into a message with guidance for the
// common history source failures.
func FormatFetchError(err error) string {
	if query.IsUserError(err) {
		return fmt.Sprintf("Invalid window: %s", err)
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused"):
		return fmt.Sprintf(
			"Connection refused: PostgreSQL is not accepting connections.\n"+
				"Check storage.postgres.dsn in config.yaml.\n"+
				"Original error: %s", errMsg)
	case strings.Contains(errMsg, "authentication failed"):
		return fmt.Sprintf(
			"Authentication failed: check the credentials in storage.postgres.dsn.\n"+
				"Original error: %s", errMsg)
	case strings.Contains(errMsg, "database is locked"):
		return fmt.Sprintf(
			"SQLite database is locked by another writer; the next refresh will retry.\n"+
				"Original error: %s", errMsg)
	case strings.Contains(errMsg, "no such table"):
		return fmt.Sprintf(
			"History database has no samples table. Import a snapshot first:\n"+
				"  tswindow import <metric> <file>\n"+
				"Original error: %s", errMsg)
	case strings.Contains(errMsg, "context deadline exceeded"):
		return fmt.Sprintf("Fetch timed out.\nOriginal error: %s", errMsg)
	default:
		return fmt.Sprintf("Fetch failed: %s", errMsg)
	}
}
