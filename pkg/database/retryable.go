package database

import (
	"github.com/gocql/gocql"
)

// IsRetryable determines if the error is a transient storage failure worth
// retrying. Condition failures (LWT not applied) never reach here; they are
// reported through the applied flag, not an error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	switch err.(type) {
	case *gocql.RequestErrWriteTimeout,
		*gocql.RequestErrReadTimeout,
		*gocql.RequestErrUnavailable,
		*gocql.RequestErrReadFailure,
		*gocql.RequestErrWriteFailure:
		return true
	}

	if err == gocql.ErrTimeoutNoResponse || err == gocql.ErrConnectionClosed || err == gocql.ErrNoConnections {
		return true
	}

	switch err.Error() {
	case "no connections available":
		return true
	case "connection refused":
		return true
	case "connection reset by peer":
		return true
	case "i/o timeout":
		return true
	}

	return false
}
