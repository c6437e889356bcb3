package exam

import (
	"context"
	"log/slog"

	"github.com/dangwonlab/dangwon/internal/model"
)

// RegenerateFunc asks the question generator for extra candidates scoped to
// the given units. Distribute calls it at most once, covering all missing
// units in a single request.
type RegenerateFunc func(ctx context.Context, missing []model.UnitRef, count int) ([]model.GeneratedQuestion, error)

// Distribute selects exactly questionCount questions from the candidate pool
// such that every required unit is represented at least once. Units with no
// candidates trigger one regeneration round; if any unit still has zero
// candidates afterwards, or the exact target cannot be met, Distribute fails
// with ErrInsufficientQuestions. No partial result is ever returned.
func Distribute(ctx context.Context, pool []model.GeneratedQuestion, units []model.UnitRef, questionCount int, regen RegenerateFunc) ([]model.GeneratedQuestion, error) {
	byUnit := make(map[int64][]model.GeneratedQuestion, len(units))
	required := make(map[int64]bool, len(units))
	for _, u := range units {
		required[u.ID] = true
	}
	for _, q := range pool {
		if required[q.UnitID] {
			byUnit[q.UnitID] = append(byUnit[q.UnitID], q)
		}
	}

	// One question per required unit first, so coverage is guaranteed
	// before any slot is spent on fill.
	selected := make([]model.GeneratedQuestion, 0, questionCount)
	var missing []model.UnitRef
	for _, u := range units {
		if qs := byUnit[u.ID]; len(qs) > 0 {
			selected = append(selected, qs[0])
			byUnit[u.ID] = qs[1:]
		} else {
			missing = append(missing, u)
		}
	}

	if len(missing) > 0 && regen != nil {
		want := 3 * len(missing)
		if want < 3 {
			want = 3
		}
		extra, err := regen(ctx, missing, want)
		if err != nil {
			slog.Warn("regeneration for missing units failed", "units", len(missing), "error", err)
		}
		for _, q := range extra {
			if required[q.UnitID] {
				byUnit[q.UnitID] = append(byUnit[q.UnitID], q)
			}
		}

		still := missing[:0]
		for _, u := range missing {
			if qs := byUnit[u.ID]; len(qs) > 0 {
				selected = append(selected, qs[0])
				byUnit[u.ID] = qs[1:]
			} else {
				still = append(still, u)
			}
		}
		missing = still
	}

	if len(missing) > 0 {
		return nil, ErrInsufficientQuestions
	}

	// Round-robin draw across the units' remaining pools until the exact
	// target is reached.
	for len(selected) < questionCount {
		drew := false
		for _, u := range units {
			if len(selected) == questionCount {
				break
			}
			if qs := byUnit[u.ID]; len(qs) > 0 {
				selected = append(selected, qs[0])
				byUnit[u.ID] = qs[1:]
				drew = true
			}
		}
		if !drew {
			return nil, ErrInsufficientQuestions
		}
	}

	return selected, nil
}
