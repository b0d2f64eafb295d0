package field

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"
)

// MaxScopedID bounds generated ids so they survive float64 based decoders.
const MaxScopedID = 1<<53 - 1

// SessionIDs hands out sequential ids starting at 1. Safe for concurrent use.
type SessionIDs struct {
	next atomic.Uint64
}

func (s *SessionIDs) Next() ID {
	for {
		n := s.next.Add(1)
		if n <= MaxScopedID {
			return ID(n)
		}
		s.next.CompareAndSwap(n, 0)
	}
}

// GlobalID draws a random id in [1, MaxScopedID].
func GlobalID() ID {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8]) & MaxScopedID
	if n == 0 {
		n = 1
	}
	return ID(n)
}
