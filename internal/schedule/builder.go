package schedule

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/formation"
	"github.com/derekprior/lineup/internal/ledger"
	"github.com/derekprior/lineup/internal/roster"
	"github.com/derekprior/lineup/internal/strategy"
)

// Option customizes a Build.
type Option func(*options)

type options struct {
	log         *logrus.Entry
	strategy    string
	swapKeepers bool
}

// WithLogger sends stage diagnostics to log at Debug level.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// WithStrategy overrides the configured assignment strategy.
func WithStrategy(name string) Option {
	return func(o *options) { o.strategy = name }
}

// WithKeeperSwap puts the second keeper in goal for the first half.
func WithKeeperSwap() Option {
	return func(o *options) { o.swapKeepers = true }
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Build plans a match for players under cfg.
//
// The pipeline runs validate, plan minutes, build periods, derive
// substitutions, compute metrics and finalize, in that order. The first
// failing stage aborts the build and no schedule is returned.
func Build(players []roster.Player, cfg *config.Config, opts ...Option) (*Schedule, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = discardLogger()
	}

	b := &builder{players: players, cfg: cfg, opts: o}
	stages := []struct {
		name string
		run  func() error
	}{
		{"validate", b.validate},
		{"plan_minutes", b.planMinutes},
		{"build_periods", b.buildPeriods},
		{"derive_substitutions", b.deriveSubstitutions},
		{"compute_metrics", b.computeMetrics},
		{"finalize", b.finalize},
	}
	for _, st := range stages {
		b.log().WithField("stage", st.name).Debug("stage started")
		if err := st.run(); err != nil {
			b.log().WithField("stage", st.name).WithError(err).Debug("stage failed")
			return nil, err
		}
	}
	return b.sched, nil
}

type builder struct {
	players []roster.Player
	cfg     *config.Config
	opts    options

	id        string
	tmpl      formation.Template
	strat     strategy.Strategy
	available []roster.Player

	// keepers[0] is in goal for the first half, keepers[1] for the second.
	keepers [2]string
	rotate  bool

	ledger  *ledger.Ledger
	periods []Period
	subs    []Substitution
	minutes []PlayerMinutes
	metrics Metrics
	sched   *Schedule
}

func (b *builder) log() *logrus.Entry {
	if b.id == "" {
		return b.opts.log
	}
	return b.opts.log.WithField("schedule_id", b.id)
}

func (b *builder) strategyName() string {
	if b.opts.strategy != "" {
		return b.opts.strategy
	}
	return b.cfg.Strategy
}

func (b *builder) validate() error {
	if b.cfg == nil {
		return &ValidationError{Field: "config", Reason: "missing"}
	}
	if err := b.cfg.Validate(); err != nil {
		return &ValidationError{Field: "config", Reason: err.Error()}
	}
	if err := roster.Validate(b.players); err != nil {
		return &ValidationError{Field: "roster", Reason: err.Error()}
	}

	strat, err := strategy.Get(b.strategyName())
	if err != nil {
		return &ValidationError{Field: "strategy", Reason: err.Error()}
	}
	b.strat = strat
	b.tmpl = b.cfg.Template()
	b.available = roster.Available(b.players)

	if required := b.tmpl.Size() + 1; len(b.available) < required {
		return &InsufficientRosterError{Available: len(b.available), Required: required}
	}
	if len(roster.Keepers(b.available)) == 0 {
		return &NoGoalkeeperError{Available: len(b.available)}
	}
	for _, p := range b.available {
		if p.TargetMinutes > b.cfg.Match.TotalMinutes {
			return &ValidationError{
				Field:  "roster",
				Reason: fmt.Sprintf("player %q: target_minutes %d exceeds the %d minute match", p.Name, p.TargetMinutes, b.cfg.Match.TotalMinutes),
			}
		}
	}

	id, err := Fingerprint(b.available, b.cfg, b.strat.Name(), b.opts.swapKeepers)
	if err != nil {
		return fmt.Errorf("fingerprinting schedule: %w", err)
	}
	b.id = id
	return nil
}

func (b *builder) planMinutes() error {
	// Nobody has played before kick-off, so keepers tie on minutes and
	// roster order decides.
	keepers := roster.Keepers(b.available)
	if b.opts.swapKeepers && len(keepers) >= 2 {
		keepers[0], keepers[1] = keepers[1], keepers[0]
	}

	b.rotate = b.cfg.Keepers.Rotate && len(keepers) >= 2
	b.keepers = [2]string{keepers[0].Name, keepers[0].Name}
	if b.rotate {
		b.keepers[1] = keepers[1].Name
	}

	count, dur := b.cfg.PeriodCount(), b.cfg.Match.PeriodMinutes
	budget := ledger.FieldBudget(count, b.tmpl.Size(), dur)
	members := b.available
	if b.rotate {
		// Rotating keepers play the field in their other half, so their goal
		// minutes go through the ledger too.
		budget += count * dur
	} else {
		members = without(b.available, b.keepers[0])
	}
	b.ledger = ledger.Plan(members, budget)

	// A rotating keeper's half in goal is settled as it is played. Booking
	// it now stops the keeper being ranked as if those minutes were missing.
	if b.rotate {
		for _, p := range SplitMatch(b.cfg) {
			if err := b.ledger.Commit(b.keepers[p.Half-1], p.Duration()); err != nil {
				return &InconsistencyError{Where: b.keepers[p.Half-1], Reason: err.Error()}
			}
		}
	}

	b.log().WithFields(logrus.Fields{
		"members":  b.ledger.Len(),
		"budget":   budget,
		"keepers":  b.keepers,
		"rotating": b.rotate,
	}).Debug("minutes planned")
	return nil
}

func (b *builder) buildPeriods() error {
	for _, p := range SplitMatch(b.cfg) {
		p.Goalkeeper = b.keepers[p.Half-1]
		eligible := without(b.available, p.Goalkeeper)

		lineup, bench, err := AssignPeriod(b.tmpl, eligible, b.ledger, b.strat, b.cfg.MinimumMinutes)
		if err != nil {
			var ue *UnfillablePositionError
			if errors.As(err, &ue) {
				ue.Period = p.Number
			}
			return err
		}
		p.Lineup = lineup
		p.Bench = bench

		b.ledger.Update(lineup.Players(), p.Duration())
		if b.ledger.Has(p.Goalkeeper) {
			if err := b.ledger.Settle(p.Goalkeeper, p.Duration()); err != nil {
				return &InconsistencyError{Where: p.Goalkeeper, Reason: err.Error()}
			}
		}
		b.periods = append(b.periods, p)

		b.log().WithFields(logrus.Fields{
			"period": p.Number,
			"keeper": p.Goalkeeper,
			"bench":  len(bench),
		}).Debug("period assigned")
	}
	return nil
}

func (b *builder) deriveSubstitutions() error {
	subs, err := Derive(b.periods, b.ledger, b.cfg)
	if err != nil {
		return err
	}
	b.subs = subs

	halves := HalfMinutes(b.periods, subs)
	counted := CountMinutes(b.periods, subs)
	for _, e := range b.ledger.Entries() {
		if e.Committed != 0 {
			return &InconsistencyError{Where: e.Name, Reason: fmt.Sprintf("%d committed minutes never played", e.Committed)}
		}
		if counted[e.Name] != e.Actual {
			return &InconsistencyError{
				Where:  e.Name,
				Reason: fmt.Sprintf("substitutions give %d minutes, ledger has %d", counted[e.Name], e.Actual),
			}
		}
	}

	b.minutes = make([]PlayerMinutes, 0, len(b.available))
	for _, p := range b.available {
		h := halves[p.Name]
		pm := PlayerMinutes{Name: p.Name, Minutes: counted[p.Name], FirstHalf: h[0], SecondHalf: h[1]}
		if e, ok := b.ledger.Entry(p.Name); ok {
			pm.Target = e.Target
		} else {
			// The fixed keeper is outside the ledger and plays every minute.
			pm.Target = pm.Minutes
		}
		b.minutes = append(b.minutes, pm)
	}

	b.log().WithField("substitutions", len(subs)).Debug("substitutions derived")
	return nil
}

func (b *builder) computeMetrics() error {
	b.metrics = ComputeMetrics(b.available, b.periods, b.minutes)

	// The ledger holds exactly the players the spread is measured over, so
	// both must agree.
	if lo, hi := b.ledger.Spread(); hi-lo != b.metrics.MinutesVariance {
		return &InconsistencyError{
			Where:  "metrics",
			Reason: fmt.Sprintf("minutes spread %d, ledger spread %d", b.metrics.MinutesVariance, hi-lo),
		}
	}
	b.metrics.Fair = b.ledger.IsFair(b.cfg.FairnessThreshold)
	return nil
}

func (b *builder) finalize() error {
	s := &Schedule{
		ID:            b.id,
		Strategy:      b.strat.Name(),
		Periods:       b.periods,
		Substitutions: b.subs,
		Minutes:       b.minutes,
		Metrics:       b.metrics,
	}
	if s.Substitutions == nil {
		s.Substitutions = []Substitution{}
	}
	if err := Verify(s); err != nil {
		return err
	}
	b.sched = s

	b.log().WithFields(logrus.Fields{
		"strategy": s.Strategy,
		"strength": s.Metrics.AverageTeamStrength,
		"std_dev":  s.Metrics.FairnessStdDev,
		"spread":   s.Metrics.MinutesVariance,
		"fair":     s.Metrics.Fair,
		"periods":  len(s.Periods),
		"subs":     len(s.Substitutions),
	}).Debug("schedule finalized")
	return nil
}

func without(players []roster.Player, name string) []roster.Player {
	out := make([]roster.Player, 0, len(players))
	for _, p := range players {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}
