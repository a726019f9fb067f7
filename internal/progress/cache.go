package progress

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/focusbuddy/focusd/internal/storage"
)

type opKind int

const (
	opInsert opKind = iota
	opComplete
	opDelete
)

type pendingOp struct {
	id        string
	kind      opKind
	session   storage.FocusSessionRecord
	sessionID string
	endedAt   time.Time
}

// SessionCache keeps a per-user view of recent focus sessions. Writes are
// staged as pending operations applied optimistically on top of the
// last-known-good list; a commit folds the operation into the base, a
// rollback drops it, so a failed write never leaves the view partially
// applied.
type SessionCache struct {
	mu      sync.Mutex
	base    map[string][]storage.FocusSessionRecord
	primed  map[string]bool
	pending map[string][]pendingOp
}

func NewSessionCache() *SessionCache {
	return &SessionCache{
		base:    make(map[string][]storage.FocusSessionRecord),
		primed:  make(map[string]bool),
		pending: make(map[string][]pendingOp),
	}
}

// Prime installs the repository's result as the last-known-good list.
func (c *SessionCache) Prime(userID string, recs []storage.FocusSessionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.base[userID] = append([]storage.FocusSessionRecord(nil), recs...)
	c.primed[userID] = true
}

// List returns the optimistic view: base plus pending operations in the
// order they were staged. ok is false until the cache has been primed.
func (c *SessionCache) List(userID string, limit int) ([]storage.FocusSessionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.primed[userID] {
		return nil, false
	}

	view := append([]storage.FocusSessionRecord(nil), c.base[userID]...)
	for _, op := range c.pending[userID] {
		view = applyOp(view, op)
	}
	if limit > 0 && len(view) > limit {
		view = view[:limit]
	}
	return view, true
}

func (c *SessionCache) StageInsert(userID string, rec storage.FocusSessionRecord) string {
	return c.stage(userID, pendingOp{kind: opInsert, session: rec})
}

func (c *SessionCache) StageComplete(userID, sessionID string, endedAt time.Time) string {
	return c.stage(userID, pendingOp{kind: opComplete, sessionID: sessionID, endedAt: endedAt})
}

func (c *SessionCache) StageDelete(userID, sessionID string) string {
	return c.stage(userID, pendingOp{kind: opDelete, sessionID: sessionID})
}

func (c *SessionCache) stage(userID string, op pendingOp) string {
	op.id = uuid.New().String()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[userID] = append(c.pending[userID], op)
	return op.id
}

// Commit reconciles a staged operation against a successful write: it
// becomes part of the last-known-good base.
func (c *SessionCache) Commit(userID, opID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	op, ok := c.take(userID, opID)
	if !ok {
		return
	}
	if c.primed[userID] {
		c.base[userID] = applyOp(c.base[userID], op)
	}
}

// Rollback drops a staged operation after a failed write, reverting the
// view to the last-known-good state.
func (c *SessionCache) Rollback(userID, opID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.take(userID, opID)
}

func (c *SessionCache) take(userID, opID string) (pendingOp, bool) {
	ops := c.pending[userID]
	for i, op := range ops {
		if op.id == opID {
			c.pending[userID] = append(ops[:i], ops[i+1:]...)
			return op, true
		}
	}
	return pendingOp{}, false
}

func applyOp(list []storage.FocusSessionRecord, op pendingOp) []storage.FocusSessionRecord {
	switch op.kind {
	case opInsert:
		return append([]storage.FocusSessionRecord{op.session}, list...)

	case opComplete:
		for i := range list {
			if list[i].ID == op.sessionID {
				ended := op.endedAt
				list[i].Completed = true
				list[i].EndedAt = &ended
				break
			}
		}
		return list

	case opDelete:
		for i := range list {
			if list[i].ID == op.sessionID {
				return append(list[:i], list[i+1:]...)
			}
		}
		return list
	}
	return list
}
