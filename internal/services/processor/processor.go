// Package processor drives the ledger: it streams decoded transactions
// into one ledger instance, records per-row outcomes, and exposes the
// resulting snapshots.
package processor

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/corefin/payproc/internal/csvio"
	"github.com/corefin/payproc/internal/domain"
	"github.com/corefin/payproc/internal/ledger"
	"github.com/corefin/payproc/internal/storage/journal"
)

var (
	processedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payproc_transactions_processed_total",
		Help: "Transactions accepted by the ledger, labeled by type",
	}, []string{"type"})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payproc_transactions_rejected_total",
		Help: "Transactions rejected by the ledger, labeled by reason",
	}, []string{"reason"})

	skippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payproc_rows_skipped_total",
		Help: "Input rows dropped before reaching the ledger",
	})
)

// Journal is the audit sink for accepted transactions.
type Journal interface {
	Append(journal.Record) error
}

// Stats summarizes one processing run.
type Stats struct {
	Processed uint64
	Rejected  uint64
	Skipped   uint64
}

// Processor feeds an ordered transaction stream into a ledger. A mutex
// guards the ledger only so the optional HTTP surface can read snapshots
// while a run is in flight; the stream itself stays strictly sequential.
type Processor struct {
	mu      sync.RWMutex
	ledger  *ledger.Ledger
	logger  *zap.Logger
	journal Journal
	runID   string
}

// New creates a processor over a fresh ledger. The journal is optional.
func New(logger *zap.Logger, j Journal) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		ledger:  ledger.New(),
		logger:  logger,
		journal: j,
		runID:   uuid.New().String(),
	}
}

// RunID identifies this processing run in logs and audit records.
func (p *Processor) RunID() string {
	return p.runID
}

// Run consumes rows from the reader until EOF. Malformed rows are skipped
// and rejected transactions are dropped; neither aborts the stream. Only a
// context cancellation stops the run early.
func (p *Processor) Run(ctx context.Context, r *csvio.Reader) (Stats, error) {
	var stats Stats

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		t, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.Skipped++
			skippedTotal.Inc()
			p.logger.Debug("skipping malformed row",
				zap.String("run_id", p.runID),
				zap.Error(err))
			continue
		}

		if p.Apply(t) {
			stats.Processed++
		} else {
			stats.Rejected++
		}
	}

	p.logger.Info("run complete",
		zap.String("run_id", p.runID),
		zap.Uint64("processed", stats.Processed),
		zap.Uint64("rejected", stats.Rejected),
		zap.Uint64("skipped", stats.Skipped))

	return stats, nil
}

// Apply submits one transaction to the ledger and reports acceptance.
func (p *Processor) Apply(t domain.Transaction) bool {
	p.mu.Lock()
	err := p.ledger.ProcessTransaction(t)
	p.mu.Unlock()

	if err != nil {
		rejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		p.logger.Debug("transaction rejected",
			zap.String("run_id", p.runID),
			zap.String("transaction", t.String()),
			zap.Error(err))
		return false
	}

	processedTotal.WithLabelValues(t.Kind.String()).Inc()

	if p.journal != nil {
		if err := p.journal.Append(journal.NewRecord(p.runID, t)); err != nil {
			// The audit trail must not fail the stream.
			p.logger.Warn("failed to journal transaction",
				zap.String("run_id", p.runID),
				zap.String("transaction", t.String()),
				zap.Error(err))
		}
	}

	return true
}

// Snapshots returns the current balance of every known client.
func (p *Processor) Snapshots() []domain.BalanceSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Snapshots()
}

// SnapshotFor returns the balance of a single client, if known.
func (p *Processor) SnapshotFor(client domain.ClientID) (domain.BalanceSnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Snapshot(client)
}

// rejectReason maps a ledger failure onto a bounded metric label set.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrDuplicateTransaction):
		return "duplicate"
	case errors.Is(err, ledger.ErrMissingTransaction):
		return "missing_tx"
	case errors.Is(err, ledger.ErrNoInitialDeposit):
		return "no_account"
	case errors.Is(err, domain.ErrUnexpectedTxStatus):
		return "bad_status"
	case errors.Is(err, ledger.ErrFrozenAccount):
		return "frozen"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ledger.ErrAccountLocked):
		return "locked"
	case errors.Is(err, ledger.ErrMultiHold):
		return "multi_hold"
	case errors.Is(err, ledger.ErrNoHold):
		return "no_hold"
	default:
		return "other"
	}
}
