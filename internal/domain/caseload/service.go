// Package caseload builds the practitioner dashboard: every coached
// consultant's adherence rate over a recent window, worst first.
package caseload

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vitacoach/vitacoach/internal/domain/consultant"
	"github.com/vitacoach/vitacoach/internal/domain/observance"
)

// Directory lists the practitioner's consultants.
type Directory interface {
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*consultant.Consultant, int, error)
}

// RateSource computes adherence for a single consultant.
type RateSource interface {
	HasActiveItems(ctx context.Context, consultantID uuid.UUID) (bool, error)
	CalculateRates(ctx context.Context, consultantID uuid.UUID, days int) (*observance.Summary, error)
}

// ConsultantRate is one dashboard row.
type ConsultantRate struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Rate int       `json:"rate"`
}

// Dashboard summarizes a practitioner's caseload. Consultants are ordered by
// rate ascending so the ones needing attention come first.
type Dashboard struct {
	AvgRate     int              `json:"avgRate"`
	Consultants []ConsultantRate `json:"consultants"`
}

// fetching the full directory in one page; caseloads are tens, not thousands
const directoryPageSize = 500

type Service struct {
	directory Directory
	rates     RateSource
	log       zerolog.Logger
}

func NewService(directory Directory, rates RateSource, log zerolog.Logger) *Service {
	return &Service{directory: directory, rates: rates, log: log}
}

// Dashboard computes the adherence summary for everyone the practitioner
// coaches. Consultants with no active regimen are skipped, never shown as 0%.
// Per-consultant computations are independent and run concurrently.
func (s *Service) Dashboard(ctx context.Context, practitionerID uuid.UUID, days int) (*Dashboard, error) {
	roster, _, err := s.directory.ListByPractitioner(ctx, practitionerID, directoryPageSize, 0)
	if err != nil {
		return nil, err
	}

	results := make([]*ConsultantRate, len(roster))
	var firstErr error
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, c := range roster {
		wg.Add(1)
		go func(i int, c *consultant.Consultant) {
			defer wg.Done()

			// A failed probe skips the consultant rather than failing the
			// whole dashboard; partial data beats no dashboard.
			active, err := s.rates.HasActiveItems(ctx, c.ID)
			if err != nil {
				s.log.Warn().Err(err).Str("consultant_id", c.ID.String()).
					Msg("caseload probe failed, skipping consultant")
				return
			}
			if !active {
				return
			}

			summary, err := s.rates.CalculateRates(ctx, c.ID, days)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			results[i] = &ConsultantRate{ID: c.ID, Name: c.FullName(), Rate: summary.GlobalRate}
			mu.Unlock()
		}(i, c)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	rows := make([]ConsultantRate, 0, len(roster))
	sum := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		rows = append(rows, *r)
		sum += r.Rate
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rate < rows[j].Rate })

	avg := 0
	if len(rows) > 0 {
		avg = int(math.Round(float64(sum) / float64(len(rows))))
	}
	return &Dashboard{AvgRate: avg, Consultants: rows}, nil
}
