package checklist

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"volunteerhub/internal/providers/caspio"
)

type fetchCall struct {
	table string
	query caspio.Query
}

type createCall struct {
	table string
	rows  any
}

type updateCall struct {
	table  string
	where  string
	fields any
}

type attachCall struct {
	table    string
	recordID int64
	field    string
	files    []caspio.File
}

// fakeStore routes calls through injectable functions and records every call
// it sees. The mutex matters: category fetches run concurrently.
type fakeStore struct {
	mu sync.Mutex

	fetchFn  func(table string, q caspio.Query) ([]json.RawMessage, error)
	createFn func(table string, rows any) ([]json.RawMessage, error)
	updateFn func(table, where string, fields any) (int, error)
	attachFn func(table string, recordID int64, field string, files []caspio.File) error

	fetches  []fetchCall
	creates  []createCall
	updates  []updateCall
	attaches []attachCall
}

func (s *fakeStore) Fetch(_ context.Context, table string, q caspio.Query) ([]json.RawMessage, error) {
	s.mu.Lock()
	s.fetches = append(s.fetches, fetchCall{table: table, query: q})
	s.mu.Unlock()
	if s.fetchFn == nil {
		return nil, nil
	}
	return s.fetchFn(table, q)
}

func (s *fakeStore) Create(_ context.Context, table string, rows any) ([]json.RawMessage, error) {
	s.mu.Lock()
	s.creates = append(s.creates, createCall{table: table, rows: rows})
	s.mu.Unlock()
	if s.createFn == nil {
		return nil, nil
	}
	return s.createFn(table, rows)
}

func (s *fakeStore) Update(_ context.Context, table string, where string, fields any) (int, error) {
	s.mu.Lock()
	s.updates = append(s.updates, updateCall{table: table, where: where, fields: fields})
	s.mu.Unlock()
	if s.updateFn == nil {
		return 0, nil
	}
	return s.updateFn(table, where, fields)
}

func (s *fakeStore) Attach(_ context.Context, table string, recordID int64, field string, files []caspio.File) error {
	s.mu.Lock()
	s.attaches = append(s.attaches, attachCall{table: table, recordID: recordID, field: field, files: files})
	s.mu.Unlock()
	if s.attachFn == nil {
		return nil
	}
	return s.attachFn(table, recordID, field, files)
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fetches) + len(s.creates) + len(s.updates) + len(s.attaches)
}

// mustRows marshals records into the raw row form a Fetch returns.
func mustRows[T any](t *testing.T, recs ...T) []json.RawMessage {
	t.Helper()
	rows := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		raw, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshal row: %v", err)
		}
		rows = append(rows, raw)
	}
	return rows
}
