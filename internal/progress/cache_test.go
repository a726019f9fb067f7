package progress

import (
	"testing"
	"time"

	"github.com/focusbuddy/focusd/internal/storage"
)

func cacheRecord(id string) storage.FocusSessionRecord {
	return storage.FocusSessionRecord{
		ID:              id,
		UserID:          "alice",
		SessionType:     "focus",
		DurationMinutes: 25,
	}
}

func TestCacheUnprimedReportsMiss(t *testing.T) {
	c := NewSessionCache()

	if _, ok := c.List("alice", 10); ok {
		t.Fatalf("unprimed cache reported a hit")
	}

	// Staged writes before priming must not fake a hit either.
	c.StageInsert("alice", cacheRecord("s1"))
	if _, ok := c.List("alice", 10); ok {
		t.Fatalf("staging alone primed the cache")
	}
}

func TestCachePendingInsertVisibleThenCommitted(t *testing.T) {
	c := NewSessionCache()
	c.Prime("alice", nil)

	opID := c.StageInsert("alice", cacheRecord("s1"))

	recs, ok := c.List("alice", 10)
	if !ok || len(recs) != 1 || recs[0].ID != "s1" {
		t.Fatalf("pending insert not visible: %+v", recs)
	}

	c.Commit("alice", opID)
	recs, _ = c.List("alice", 10)
	if len(recs) != 1 || recs[0].ID != "s1" {
		t.Fatalf("committed insert lost: %+v", recs)
	}
}

func TestCacheRollbackRevertsView(t *testing.T) {
	c := NewSessionCache()
	c.Prime("alice", []storage.FocusSessionRecord{cacheRecord("old")})

	opID := c.StageInsert("alice", cacheRecord("s1"))
	c.Rollback("alice", opID)

	recs, _ := c.List("alice", 10)
	if len(recs) != 1 || recs[0].ID != "old" {
		t.Fatalf("rollback left the view dirty: %+v", recs)
	}
}

func TestCacheCompleteAndDeleteOps(t *testing.T) {
	c := NewSessionCache()
	c.Prime("alice", []storage.FocusSessionRecord{cacheRecord("s1"), cacheRecord("s2")})

	ended := time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC)
	complete := c.StageComplete("alice", "s1", ended)
	remove := c.StageDelete("alice", "s2")

	recs, _ := c.List("alice", 10)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if !recs[0].Completed || recs[0].EndedAt == nil || !recs[0].EndedAt.Equal(ended) {
		t.Fatalf("complete op not applied: %+v", recs[0])
	}

	c.Commit("alice", complete)
	c.Commit("alice", remove)
	recs, _ = c.List("alice", 10)
	if len(recs) != 1 || recs[0].ID != "s1" || !recs[0].Completed {
		t.Fatalf("committed ops not folded into base: %+v", recs)
	}
}

func TestCacheIsolatesUsers(t *testing.T) {
	c := NewSessionCache()
	c.Prime("alice", []storage.FocusSessionRecord{cacheRecord("s1")})

	if _, ok := c.List("bob", 10); ok {
		t.Fatalf("priming alice primed bob")
	}
}

func TestCacheListHonorsLimit(t *testing.T) {
	c := NewSessionCache()
	c.Prime("alice", []storage.FocusSessionRecord{
		cacheRecord("s1"), cacheRecord("s2"), cacheRecord("s3"),
	})

	recs, _ := c.List("alice", 2)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
}
