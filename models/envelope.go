package models

import (
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/logger"
)

// Envelope is the result shape of every conversation operation.
type Envelope[T any] struct {
	Success   bool          `json:"success"`
	Data      T             `json:"data"`
	Error     string        `json:"error,omitempty"`
	ErrorKind apiError.Kind `json:"errorKind,omitempty"`
}

func Ok[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

// Fail carries only the public message of err. The full chain is logged.
func Fail[T any](err error) Envelope[T] {
	msg := apiError.Public(err)
	if full := err.Error(); full != msg {
		logger.Warnf("%s: %s", apiError.KindOf(err), full)
	}
	return Envelope[T]{Error: msg, ErrorKind: apiError.KindOf(err)}
}
