package store

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "codepair-store-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	s, err := Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
		os.RemoveAll(tmpDir)
	})

	return s
}

func TestRecordJoinCreatesRoom(t *testing.T) {
	s := setupTestStore(t)

	s.RecordJoin("abc")
	s.RecordJoin("abc")
	s.Flush()

	info, err := s.GetRoom("abc")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if info == nil {
		t.Fatal("Room should exist after recorded joins")
	}
	if info.Joins != 2 {
		t.Errorf("Expected 2 joins, got %d", info.Joins)
	}
	if info.Edits != 0 {
		t.Errorf("Expected 0 edits, got %d", info.Edits)
	}
}

func TestRecordEdit(t *testing.T) {
	s := setupTestStore(t)

	s.RecordJoin("abc")
	s.RecordEdit("abc")
	s.RecordEdit("abc")
	s.RecordEdit("abc")
	s.Flush()

	info, err := s.GetRoom("abc")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if info.Edits != 3 {
		t.Errorf("Expected 3 edits, got %d", info.Edits)
	}
}

func TestGetRoomMissing(t *testing.T) {
	s := setupTestStore(t)

	info, err := s.GetRoom("nope")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if info != nil {
		t.Errorf("Expected nil for missing room, got %+v", info)
	}
}

func TestListRooms(t *testing.T) {
	s := setupTestStore(t)

	s.RecordJoin("one")
	s.RecordJoin("two")
	s.RecordJoin("three")
	s.Flush()

	rooms, err := s.ListRooms(10, 0)
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(rooms) != 3 {
		t.Errorf("Expected 3 rooms, got %d", len(rooms))
	}

	limited, err := s.ListRooms(2, 0)
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 rooms with limit, got %d", len(limited))
	}
}

func TestTotals(t *testing.T) {
	s := setupTestStore(t)

	s.RecordJoin("a")
	s.RecordJoin("a")
	s.RecordJoin("b")
	s.RecordEdit("a")
	s.Flush()

	rooms, joins, edits, err := s.Totals()
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if rooms != 2 || joins != 3 || edits != 1 {
		t.Errorf("Expected (2, 3, 1), got (%d, %d, %d)", rooms, joins, edits)
	}
}

func TestTotalsEmpty(t *testing.T) {
	s := setupTestStore(t)

	rooms, joins, edits, err := s.Totals()
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if rooms != 0 || joins != 0 || edits != 0 {
		t.Errorf("Expected zero totals, got (%d, %d, %d)", rooms, joins, edits)
	}
}
