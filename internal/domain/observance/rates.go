package observance

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
)

// CalculateRates computes the consultant's adherence summary over the last
// `days` calendar days.
//
// Each active item gets a 0-100 rate according to its frequency kind; item
// rates are averaged per category, and the global rate is the item-count
// weighted mean of category rates. Averaging per category first keeps a pile
// of binary as_needed items from drowning out the rest of the regimen.
func (s *Service) CalculateRates(ctx context.Context, consultantID uuid.UUID, days int) (*Summary, error) {
	end := s.today()
	start := end.AddDate(0, 0, -days)
	period := Period{Start: start.Format(DateLayout), End: end.Format(DateLayout)}

	items, err := s.items.List(ctx, consultantID, nil, true)
	if err != nil {
		return nil, err
	}
	// An empty regimen has zero adherence by definition, not NaN.
	if len(items) == 0 {
		return &Summary{GlobalRate: 0, Categories: []CategoryRate{}, Period: period}, nil
	}

	done, err := s.logs.CountDoneInRange(ctx, consultantID, start, end)
	if err != nil {
		return nil, err
	}

	// Group item rates by category, preserving first-seen category order so
	// that equal rates sort deterministically below.
	var order []string
	byCategory := make(map[string][]float64)
	for _, it := range items {
		rate := itemRate(it, done[it.ID], days)
		if _, seen := byCategory[it.Category]; !seen {
			order = append(order, it.Category)
		}
		byCategory[it.Category] = append(byCategory[it.Category], rate)
	}

	categories := make([]CategoryRate, 0, len(order))
	weightedSum, totalItems := 0, 0
	for _, cat := range order {
		rates := byCategory[cat]
		sum := 0.0
		for _, r := range rates {
			sum += r
		}
		cr := CategoryRate{
			Category:  cat,
			Rate:      int(math.Round(sum / float64(len(rates)))),
			ItemCount: len(rates),
		}
		categories = append(categories, cr)
		weightedSum += cr.Rate * cr.ItemCount
		totalItems += cr.ItemCount
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Rate > categories[j].Rate
	})

	return &Summary{
		GlobalRate: int(math.Round(float64(weightedSum) / float64(totalItems))),
		Categories: categories,
		Period:     period,
	}, nil
}

// itemRate scores one item in [0, 100] for a window of `days` days given its
// done-log count.
func itemRate(it *Item, doneCount, days int) float64 {
	switch it.Frequency {
	case FrequencyWeekly:
		// A missing or non-positive target scores zero rather than
		// dividing by it.
		if it.WeeklyTarget == nil || *it.WeeklyTarget < 1 {
			return 0
		}
		weeks := int(math.Ceil(float64(days) / 7))
		if weeks < 1 {
			weeks = 1
		}
		target := *it.WeeklyTarget * weeks
		return math.Min(100, float64(doneCount)/float64(target)*100)

	case FrequencyAsNeeded:
		// No cadence to measure against: any completion counts in full.
		if doneCount > 0 {
			return 100
		}
		return 0

	default: // daily
		if days <= 0 {
			return 0
		}
		return math.Min(100, float64(doneCount)/float64(days)*100)
	}
}
