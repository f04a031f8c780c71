package history

import (
	"fmt"

	"github.com/studiowebux/moviecli/internal/types"
)

// Stats aggregates the journal per operation. A call counts as failed when
// it carries a transport error or a non-2xx status.
func (m *Manager) Stats(profileName string) ([]types.OperationStats, error) {
	rows, err := m.db.Query(`
		SELECT operation,
		       COUNT(*),
		       SUM(CASE WHEN error IS NOT NULL OR status < 200 OR status >= 300 THEN 1 ELSE 0 END),
		       AVG(duration_ms),
		       MIN(duration_ms),
		       MAX(duration_ms),
		       MAX(timestamp)
		FROM calls
		WHERE ? = '' OR profile_name = ?
		GROUP BY operation
		ORDER BY operation`,
		profileName, profileName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var stats []types.OperationStats
	for rows.Next() {
		var s types.OperationStats
		var operation, lastCalled string

		err := rows.Scan(
			&operation,
			&s.TotalCalls,
			&s.FailedCalls,
			&s.AvgDurationMs,
			&s.MinDurationMs,
			&s.MaxDurationMs,
			&lastCalled,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}

		s.Operation = types.Operation(operation)
		s.LastCalled = parseTimestamp(lastCalled)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// SuccessRate returns the share of successful calls in percent
func SuccessRate(s types.OperationStats) float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.TotalCalls-s.FailedCalls) / float64(s.TotalCalls) * 100
}
