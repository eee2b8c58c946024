package metrics

import (
	"strings"
	"time"

	"github.com/gocql/gocql"
)

// TrackDBOperation is a helper to track database operations.
// It records operation duration, success/failure and error class.
func TrackDBOperation(operation string, table string) func(error) {
	startTime := time.Now()
	return func(err error) {
		duration := time.Since(startTime).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			TrackDBError(err)
		}

		DatabaseOperationsTotal.WithLabelValues(operation, table, status).Inc()
		DatabaseOperationDuration.WithLabelValues(operation, table).Observe(duration)
	}
}

// TrackDBError classifies and counts a database error.
func TrackDBError(err error) {
	if err == nil {
		return
	}

	errorType := "unknown"
	switch {
	case err == gocql.ErrTimeoutNoResponse:
		errorType = "timeout"
	case err == gocql.ErrConnectionClosed:
		errorType = "connection"
	case strings.Contains(err.Error(), "timeout"):
		errorType = "timeout"
	case strings.Contains(err.Error(), "unavailable"):
		errorType = "unavailable"
	case strings.Contains(err.Error(), "query"):
		errorType = "query"
	}

	DatabaseErrorsTotal.WithLabelValues(errorType).Inc()
}
