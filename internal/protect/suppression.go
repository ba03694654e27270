package protect

import (
	"context"
	"fmt"
	"strings"

	"inferguard/internal/domain"
)

// CellSuppression masks aggregate rows backed by too few individuals. A row
// is suppressible when its count column (the first column whose name
// contains "count", case-insensitive) holds a numeric value below the
// minimum cell size: the count becomes nil and every other cell is replaced
// with the suppression marker. Rows without a numeric count pass through.
type CellSuppression struct {
	exec        domain.Executor
	minCellSize int
	marker      string
}

func NewCellSuppression(exec domain.Executor, minCellSize int, marker string) *CellSuppression {
	return &CellSuppression{exec: exec, minCellSize: minCellSize, marker: marker}
}

var _ Strategy = (*CellSuppression)(nil)

func (s *CellSuppression) Kind() domain.StrategyKind { return domain.StrategyCellSuppression }

func (s *CellSuppression) Evaluate(ctx context.Context, q domain.Query, ident domain.Identity) *domain.Outcome {
	baseDescriptor := fmt.Sprintf("min_cell_size=%d", s.minCellSize)

	rs, err := s.exec.Execute(ctx, q, ident)
	if err != nil {
		return domain.BlockedOutcome(s.Kind(), err.Error(), baseDescriptor)
	}
	if rs.RowCount() == 0 {
		return domain.AllowedOutcome(s.Kind(), rs, baseDescriptor)
	}

	// Column order comes from the query, so the first match is stable
	// across rows.
	countCol := ""
	for _, col := range rs.Columns {
		if strings.Contains(strings.ToLower(col), "count") {
			countCol = col
			break
		}
	}

	suppressed := 0
	rows := make([]domain.Row, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		n, ok := row.Number(countCol)
		if countCol == "" || !ok || n >= float64(s.minCellSize) {
			rows = append(rows, row)
			continue
		}
		masked := make(domain.Row, len(row))
		for key := range row {
			if key == countCol {
				masked[key] = nil
			} else {
				masked[key] = s.marker
			}
		}
		rows = append(rows, masked)
		suppressed++
	}

	out := &domain.ResultSet{Columns: rs.Columns, Rows: rows}
	descriptor := fmt.Sprintf("%s, suppressed=%d", baseDescriptor, suppressed)
	return domain.AllowedOutcome(s.Kind(), out, descriptor)
}
