// Package journal persists an append-only audit trail of accepted
// transactions in a WAL. The ledger never reads it back to restore state;
// it exists so a completed run can be audited record by record.
package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gowal"

	"github.com/corefin/payproc/internal/domain"
)

const (
	DefaultDir   = "./wal/audit"
	segmentLimit = 1000
	maxSegments  = 10

	recordKeyPrefix = "txn_"
)

// Record is one accepted transaction as written to the audit trail.
type Record struct {
	ID     string          `json:"id"`
	RunID  string          `json:"run_id"`
	Kind   string          `json:"kind"`
	Client domain.ClientID `json:"client"`
	Tx     domain.TxID     `json:"tx"`
	Amount decimal.Decimal `json:"amount"`
	Time   time.Time       `json:"time"`
}

// NewRecord builds an audit record for an accepted transaction.
func NewRecord(runID string, t domain.Transaction) Record {
	return Record{
		ID:     uuid.New().String(),
		RunID:  runID,
		Kind:   t.Kind.String(),
		Client: t.Client,
		Tx:     t.Tx,
		Amount: t.Amount,
		Time:   time.Now().UTC(),
	}
}

// IndexedRecord bundles a record with its WAL index.
type IndexedRecord struct {
	Index  uint64
	Record Record
}

// Store writes audit records to a WAL.
type Store struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewStore initializes a WAL-backed audit store.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "audit_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init audit WAL")
	}

	return &Store{wal: wal}, nil
}

// Append writes the record to the WAL.
func (s *Store) Append(record Record) error {
	if s == nil || s.wal == nil {
		return errors.New("audit store is not initialized")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal audit record")
	}

	key := fmt.Sprintf("%s%d_%d", recordKeyPrefix, record.Client, record.Tx)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// RecordsAfter returns all audit records written after the provided WAL index.
func (s *Store) RecordsAfter(index uint64) ([]IndexedRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("audit store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]IndexedRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(key, recordKeyPrefix) {
			continue
		}

		var record Record
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, errors.Wrap(err, "decode audit record")
		}
		records = append(records, IndexedRecord{Index: idx, Record: record})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *Store) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *Store) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("audit store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
