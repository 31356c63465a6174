package dataset

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "cvepi/internal/errors"
)

// Consolidate performs the outer join of all loaded sources on
// (year, department, sex). Every valid input row lands in exactly one
// consolidated row; indicators a row never reported stay absent.
//
// A second observation for the same (year, department, sex, indicator)
// violates the uniqueness invariant and fails the load.
func Consolidate(ctx context.Context, logger *slog.Logger, results []LoadResult) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	table := NewTable()

	for _, result := range results {
		table.Dropped += result.Dropped

		for _, obs := range result.Observations {
			province, ok := ProvinceFor(obs.Department)
			if !ok {
				// The loader already rejects unknown codes; this guards
				// observations constructed by other callers.
				return nil, apperrors.NewUnknownDepartmentError(obs.Department)
			}

			key := Key{Year: obs.Year, Department: obs.Department, Sex: obs.Sex}
			row := table.rows[key]
			if row == nil {
				row = &Row{
					Year:       obs.Year,
					Department: obs.Department,
					Province:   province,
					Sex:        obs.Sex,
					Values:     make(map[Indicator]float64, len(Indicators)),
				}
				table.rows[key] = row
			}

			if _, exists := row.Values[obs.Indicator]; exists {
				return nil, apperrors.NewSchemaViolationError(
					fmt.Sprintf("duplicate observation for %s %d/%s/%s",
						obs.Indicator, obs.Year, obs.Department, obs.Sex), nil)
			}
			row.Values[obs.Indicator] = obs.Value
		}
	}

	logger.InfoContext(ctx, "consolidated table built",
		slog.Int("rows", table.Len()),
		slog.Int("dropped_input_rows", table.Dropped))

	return table, nil
}
