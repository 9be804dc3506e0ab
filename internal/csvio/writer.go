package csvio

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/corefin/payproc/internal/domain"
)

// outputHeader is the column order of the balances report.
var outputHeader = []string{"client", "available", "held", "total", "locked"}

// WriteSnapshots renders the balances report as CSV. The ledger guarantees
// no client ordering, so rows are sorted by client id here to keep the
// output deterministic.
func WriteSnapshots(w io.Writer, snapshots []domain.BalanceSnapshot) error {
	sorted := make([]domain.BalanceSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Client < sorted[j].Client })

	cw := csv.NewWriter(w)
	if err := cw.Write(outputHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, s := range sorted {
		record := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			s.Available.String(),
			s.Held.String(),
			s.Total.String(),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write balance row for client %d", s.Client)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv output")
}
