// Package history persists transcripts so past dictations can be
// reviewed and re-copied after the fact.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Entry is a single stored transcript.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store keeps entries in a badger database. Keys are nanosecond
// timestamps so a reverse iteration yields newest-first order.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return &Store{db: db}, nil
}

// Append stores a transcript and returns the created entry.
func (s *Store) Append(text, language, mode string) (Entry, error) {
	e := Entry{
		ID:        uuid.NewString(),
		Text:      text,
		Language:  language,
		Mode:      mode,
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("encode history entry: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFor(e.CreatedAt, e.ID), data)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("store history entry: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid() && len(entries) < limit; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var e Entry
				if err := json.Unmarshal(val, &e); err != nil {
					return fmt.Errorf("decode history entry: %w", err)
				}
				entries = append(entries, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear removes every stored entry.
func (s *Store) Clear() error {
	return s.db.DropAll()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func keyFor(at time.Time, id string) []byte {
	return fmt.Appendf(nil, "%020d/%s", at.UnixNano(), id)
}
