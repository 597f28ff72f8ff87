package store

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists room metadata and usage counters. Document text is never
// written here; rooms live and die in memory. Writes are applied by a
// background goroutine so the hub loop never blocks on disk.
type Store struct {
	db *sql.DB

	records chan record
	flush   chan chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup
}

type RoomInfo struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	Joins      int       `json:"joins_total"`
	Edits      int       `json:"edits_total"`
}

type recordKind int

const (
	recordJoin recordKind = iota
	recordEdit
)

type record struct {
	kind   recordKind
	roomID string
}

func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:      db,
		records: make(chan record, 1024),
		flush:   make(chan chan struct{}),
		stop:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.writer()

	log.Printf("Store initialized at %s", path)
	return s, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_active DATETIME DEFAULT CURRENT_TIMESTAMP,
		joins_total INTEGER NOT NULL DEFAULT 0,
		edits_total INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_rooms_last_active ON rooms(last_active DESC);
	`

	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	close(s.stop)
	s.wg.Wait()
	return s.db.Close()
}

// RecordJoin notes a join in roomID. Never blocks; if the write queue is
// full the record is dropped, the relay matters more than the counters.
func (s *Store) RecordJoin(roomID string) {
	select {
	case s.records <- record{kind: recordJoin, roomID: roomID}:
	default:
	}
}

// RecordEdit notes a document change in roomID. Never blocks.
func (s *Store) RecordEdit(roomID string) {
	select {
	case s.records <- record{kind: recordEdit, roomID: roomID}:
	default:
	}
}

// Flush waits until every queued record has been applied.
func (s *Store) Flush() {
	done := make(chan struct{})
	select {
	case s.flush <- done:
		<-done
	case <-s.stop:
	}
}

func (s *Store) writer() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stop:
			s.drain()
			return
		case rec := <-s.records:
			s.apply(rec)
		case done := <-s.flush:
			s.drain()
			close(done)
		}
	}
}

func (s *Store) drain() {
	for {
		select {
		case rec := <-s.records:
			s.apply(rec)
		default:
			return
		}
	}
}

func (s *Store) apply(rec record) {
	var query string
	switch rec.kind {
	case recordJoin:
		query = `
		INSERT INTO rooms (id, joins_total) VALUES (?, 1)
		ON CONFLICT(id) DO UPDATE SET
			joins_total = joins_total + 1,
			last_active = CURRENT_TIMESTAMP`
	case recordEdit:
		query = `
		INSERT INTO rooms (id, edits_total) VALUES (?, 1)
		ON CONFLICT(id) DO UPDATE SET
			edits_total = edits_total + 1,
			last_active = CURRENT_TIMESTAMP`
	}

	if _, err := s.db.Exec(query, rec.roomID); err != nil {
		log.Printf("Store: failed to record activity for room %s: %v", rec.roomID, err)
	}
}

// Reads

func (s *Store) GetRoom(id string) (*RoomInfo, error) {
	row := s.db.QueryRow(
		"SELECT id, created_at, last_active, joins_total, edits_total FROM rooms WHERE id = ?",
		id,
	)

	var info RoomInfo
	err := row.Scan(&info.ID, &info.CreatedAt, &info.LastActive, &info.Joins, &info.Edits)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Store) ListRooms(limit, offset int) ([]RoomInfo, error) {
	rows, err := s.db.Query(
		"SELECT id, created_at, last_active, joins_total, edits_total FROM rooms ORDER BY last_active DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []RoomInfo
	for rows.Next() {
		var info RoomInfo
		if err := rows.Scan(&info.ID, &info.CreatedAt, &info.LastActive, &info.Joins, &info.Edits); err != nil {
			return nil, err
		}
		rooms = append(rooms, info)
	}
	return rooms, rows.Err()
}

// Totals returns lifetime room, join and edit counts.
func (s *Store) Totals() (rooms, joins, edits int, err error) {
	err = s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(joins_total), 0), COALESCE(SUM(edits_total), 0) FROM rooms",
	).Scan(&rooms, &joins, &edits)
	return
}
