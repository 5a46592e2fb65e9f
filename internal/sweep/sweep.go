package sweep

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	vet "github.com/jamesainslie/go-dqvet"
	"github.com/jamesainslie/go-dqvet/metric"
	"github.com/jamesainslie/go-dqvet/segments"
	"github.com/jamesainslie/go-dqvet/triggers"
)

// ErrBadRange indicates a padding range that yields no candidates.
var ErrBadRange = errors.New("sweep: invalid padding range")

// Result holds the score for one padding.
type Result struct {
	Padding segments.Padding
	Score   Score
	After   int // triggers surviving the padded flag
}

// Paddings generates symmetric paddings from min to max inclusive with the
// given step.
func Paddings(min, max, step float64) ([]segments.Padding, error) {
	if step <= 0 || max < min {
		return nil, fmt.Errorf("%w: min=%g max=%g step=%g", ErrBadRange, min, max, step)
	}
	var out []segments.Padding
	// index-based so rounding does not accumulate
	for i := 0; ; i++ {
		p := min + float64(i)*step
		if p > max+step*1e-9 {
			break
		}
		out = append(out, segments.Padding{Before: p, After: p})
	}
	return out, nil
}

// Sweep pads flag by each candidate, evaluates it against trigs and returns
// results sorted by weighted score, best first. Ties keep candidate order.
func Sweep(ctx context.Context, ev *vet.Evaluator, flag *segments.Flag, trigs *triggers.Set, paddings []segments.Padding, cfg Config) ([]Result, error) {
	if flag == nil {
		return nil, vet.ErrNilFlag
	}
	if trigs == nil {
		return nil, metric.ErrNoTriggers
	}

	results := make([]Result, len(paddings))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}

	for i, p := range paddings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, after, err := ev.Evaluate(flag.Pad(p.Before, p.After), trigs, scoreMetrics, nil)
			if err != nil {
				return fmt.Errorf("padding %s: %w", p, err)
			}
			score, err := ComputeScore(res, cfg)
			if err != nil {
				return fmt.Errorf("padding %s: %w", p, err)
			}
			results[i] = Result{Padding: p, Score: score, After: after.Len()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score.Weighted > results[j].Score.Weighted
	})
	return results, nil
}
