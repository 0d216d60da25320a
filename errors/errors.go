package errors

import (
	"github.com/pingcap/errors"
)

// errors
var (
	// mailbox related errors
	ErrMailboxFull = errors.Normalize(
		"mailbox of actor %s is full",
		errors.RFCCodeText("ACTOR:ErrMailboxFull"),
	)
	ErrMailboxClosed = errors.Normalize(
		"mailbox of actor %s is closed",
		errors.RFCCodeText("ACTOR:ErrMailboxClosed"),
	)

	// signal related errors
	ErrNoAvailableSignal = errors.Normalize(
		"no available signal for actor %s, %d requests in flight",
		errors.RFCCodeText("ACTOR:ErrNoAvailableSignal"),
	)

	// config related errors
	ErrInvalidConfig = errors.Normalize(
		"invalid config, %s",
		errors.RFCCodeText("ACTOR:ErrInvalidConfig"),
	)
	ErrLoadConfig = errors.Normalize(
		"load config from %s failed",
		errors.RFCCodeText("ACTOR:ErrLoadConfig"),
	)
)

// IsRetryable reports whether err is a back-pressure error the caller may retry later.
func IsRetryable(err error) bool {
	return ErrMailboxFull.Equal(err) || ErrNoAvailableSignal.Equal(err)
}
