// Package variant builds several schedules for the same match and ranks them.
package variant

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/roster"
	"github.com/derekprior/lineup/internal/schedule"
	"github.com/derekprior/lineup/internal/strategy"
)

// MaxVariants bounds n so a request cannot ask for unbounded work.
const MaxVariants = 24

// Options returns the build options for variant i: strategies cycle and
// keeper order flips every full cycle.
func Options(i int) []schedule.Option {
	names := strategy.Names()
	opts := []schedule.Option{schedule.WithStrategy(names[i%len(names)])}
	if (i/len(names))%2 == 1 {
		opts = append(opts, schedule.WithKeeperSwap())
	}
	return opts
}

// GenerateVariants builds n variants concurrently and returns them best
// first: lowest minutes standard deviation, then highest team strength, then
// generation order. Any failed build fails the whole call. extra is applied
// to every build after the variant's own options.
func GenerateVariants(ctx context.Context, players []roster.Player, cfg *config.Config, n int,
	extra ...schedule.Option) ([]*schedule.Schedule, error) {
	if n < 1 || n > MaxVariants {
		return nil, &schedule.ValidationError{
			Field:  "variants",
			Reason: fmt.Sprintf("must be between 1 and %d, got %d", MaxVariants, n),
		}
	}

	results := make([]*schedule.Schedule, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opts := append(Options(i), extra...)
			s, err := schedule.Build(players, cfg, opts...)
			if err != nil {
				return fmt.Errorf("variant %d: %w", i, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Rank(results)
	return results, nil
}

// Rank sorts schedules best first. The sort is stable, so equal schedules
// keep their generation order.
func Rank(schedules []*schedule.Schedule) {
	sort.SliceStable(schedules, func(i, j int) bool {
		a, b := schedules[i].Metrics, schedules[j].Metrics
		if a.FairnessStdDev != b.FairnessStdDev {
			return a.FairnessStdDev < b.FairnessStdDev
		}
		return a.AverageTeamStrength > b.AverageTeamStrength
	})
}
