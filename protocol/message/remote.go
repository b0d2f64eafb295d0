package message

import (
	"fmt"

	"github.com/danmuck/lrpmp/protocol/field"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/uri"
)

// RemoteError is the error view of an ERROR message received from a peer.
type RemoteError struct {
	msg Error
}

// Err wraps m as a Go error.
func (m Error) Err() *RemoteError {
	return &RemoteError{msg: m}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %s for %s request %d", e.msg.errorURI, e.msg.requestKind, e.msg.requestID)
}

func (e *RemoteError) URI() uri.URI          { return e.msg.errorURI }
func (e *RemoteError) RequestKind() kind.Kind { return e.msg.requestKind }
func (e *RemoteError) RequestID() field.ID    { return e.msg.requestID }
func (e *RemoteError) Body() field.Body       { return e.msg.body }
func (e *RemoteError) Meta() field.Meta       { return e.msg.meta }
func (e *RemoteError) Message() Error         { return e.msg }

// Is matches another *RemoteError carrying the same error URI.
func (e *RemoteError) Is(target error) bool {
	t, ok := target.(*RemoteError)
	return ok && t.msg.errorURI == e.msg.errorURI
}

// AsRemoteError returns the error view of m when m is an ERROR message.
func AsRemoteError(m Message) (*RemoteError, bool) {
	switch e := m.(type) {
	case Error:
		return e.Err(), true
	case *Error:
		return e.Err(), true
	default:
		return nil, false
	}
}

// NewErrorFor builds the ERROR answering req.
func NewErrorFor(req kind.KnownKind, requestID field.ID, reason uri.URI, body field.Body, meta field.Meta) Error {
	return NewError(kind.Known(req), requestID, reason, body, meta)
}
