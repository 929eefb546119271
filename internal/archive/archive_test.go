package archive

import (
	"testing"
)

func TestHistory_EmptyWhenNothingRecorded(t *testing.T) {
	svc := New(t.TempDir())

	items, err := svc.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty history, got %d items", len(items))
	}
}

func TestRecordAndHistory(t *testing.T) {
	svc := New(t.TempDir())

	first, err := svc.Record([]byte(`{"version":1}`), "admin", "first publish")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(first.Hash) != 7 {
		t.Errorf("expected 7-char short hash, got %q", first.Hash)
	}

	second, err := svc.Record([]byte(`{"version":2}`), "admin", "second publish")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	items, err := svc.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(items))
	}
	if items[0].Hash != second.Hash {
		t.Errorf("expected newest first, got %q then %q", items[0].Hash, items[1].Hash)
	}
	if items[0].Author != "admin" {
		t.Errorf("expected author admin, got %q", items[0].Author)
	}
	if items[1].Message != "first publish" {
		t.Errorf("expected first publish message, got %q", items[1].Message)
	}
}

func TestHistory_LimitApplies(t *testing.T) {
	svc := New(t.TempDir())
	for i := 0; i < 5; i++ {
		if _, err := svc.Record([]byte{byte('0' + i)}, "admin", "publish"); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	items, err := svc.History(3)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 items, got %d", len(items))
	}
}

func TestRecord_IdenticalPayloadStillCommits(t *testing.T) {
	svc := New(t.TempDir())
	payload := []byte(`{"same":true}`)

	if _, err := svc.Record(payload, "admin", "one"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := svc.Record(payload, "admin", "two"); err != nil {
		t.Fatalf("Record identical payload: %v", err)
	}

	items, err := svc.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected both publishes recorded, got %d", len(items))
	}
}

func TestSnapshot_ReturnsRecordedPayload(t *testing.T) {
	svc := New(t.TempDir())

	v1 := []byte(`{"siteSettings":{"phone":"111"}}`)
	v2 := []byte(`{"siteSettings":{"phone":"222"}}`)
	firstCommit, err := svc.Record(v1, "admin", "v1")
	if err != nil {
		t.Fatalf("Record v1: %v", err)
	}
	if _, err := svc.Record(v2, "admin", "v2"); err != nil {
		t.Fatalf("Record v2: %v", err)
	}

	payload, err := svc.Snapshot(firstCommit.Hash)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if string(payload) != string(v1) {
		t.Errorf("expected v1 payload, got %s", payload)
	}
}

func TestSnapshot_UnknownHash(t *testing.T) {
	svc := New(t.TempDir())
	if _, err := svc.Record([]byte("x"), "admin", "seed"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if _, err := svc.Snapshot("deadbee"); err == nil {
		t.Error("expected error for unknown hash")
	}
}
