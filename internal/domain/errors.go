package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindRPC     ErrorKind = "rpc"
	KindStore   ErrorKind = "store"
	KindDecode  ErrorKind = "decode"
	KindUnknown ErrorKind = "unknown"
)

// Error tags a failure with the pipeline stage it came from. The kind is
// meant for logs and metrics; callers outside the process only ever see a
// generic message.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func RPCError(op string, err error) error {
	return &Error{Kind: KindRPC, Op: op, Err: err}
}

func StoreError(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

func DecodeError(err error) error {
	return &Error{Kind: KindDecode, Err: err}
}

// KindOf reports the kind of the outermost tagged error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
