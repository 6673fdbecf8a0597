package engine

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/dtesn/internal/membrane"
)

// Evolution strategies selectable through Config.Strategy.
const (
	StrategySynchronous  = "synchronous"
	StrategyAsynchronous = "asynchronous"
)

// Config controls one engine instance.
type Config struct {
	// Strategy selects the cycle implementation; empty means synchronous.
	Strategy string

	// Workers bounds the scan parallelism of the asynchronous strategy.
	// Zero means runtime.NumCPU().
	Workers int

	// Seed drives rule selection inside probabilistic priority groups.
	// Runs with equal seeds and equal inputs select identically.
	Seed int64

	// CycleBudget is the real-time allowance per cycle used for the
	// performance score. Zero means DefaultCycleBudget.
	CycleBudget time.Duration
}

// DefaultCycleBudget mirrors the 10us membrane-evolution timing
// constraint of the reference architecture, scaled to a realistic
// software cycle.
const DefaultCycleBudget = 10 * time.Millisecond

func (c *Config) validate() error {
	switch c.Strategy {
	case "", StrategySynchronous, StrategyAsynchronous:
	default:
		return fmt.Errorf("strategy %q: %w", c.Strategy, ErrUnknownStrategy)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d: %w", c.Workers, ErrBadConfig)
	}
	if c.CycleBudget < 0 {
		return fmt.Errorf("cycle budget %s: %w", c.CycleBudget, ErrBadConfig)
	}
	if c.Strategy == "" {
		c.Strategy = StrategySynchronous
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.CycleBudget == 0 {
		c.CycleBudget = DefaultCycleBudget
	}
	return nil
}

// Engine runs evolution cycles over a hierarchy. It is not safe for
// concurrent use; the asynchronous strategy parallelizes internally.
type Engine struct {
	cfg Config
	rng *rand.Rand
	log *zap.Logger
}

// New validates cfg and returns a ready engine. Logging is off until
// WithLogger is called.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		log: zap.NewNop(),
	}, nil
}

// WithLogger attaches a logger and returns the engine for chaining.
func (e *Engine) WithLogger(log *zap.Logger) *Engine {
	if log != nil {
		e.log = log
	}
	return e
}

// Evolve runs up to cycles evolution cycles on h, stopping early when the
// hierarchy halts (a cycle in which no rule fires) or ctx is cancelled. A
// hierarchy that is already halted is terminal: Evolve returns zero
// metrics and no error.
func (e *Engine) Evolve(ctx context.Context, h *membrane.Hierarchy, cycles int) (Metrics, error) {
	if cycles <= 0 {
		return Metrics{}, fmt.Errorf("cycles %d: %w", cycles, ErrBadConfig)
	}
	if h.Halted() {
		return Metrics{}, nil
	}

	start := time.Now()
	var m Metrics

	for i := 0; i < cycles; i++ {
		select {
		case <-ctx.Done():
			return m, ctx.Err()
		default:
		}

		applied, err := e.cycle(h)
		if err != nil {
			return Metrics{}, err
		}

		m.Cycles++
		m.RulesApplied += applied
		h.RecordApplications(applied)

		e.log.Debug("evolution cycle complete",
			zap.String("hierarchy", h.Name()),
			zap.Int("cycle", i),
			zap.Int64("rules_applied", applied),
		)

		if applied == 0 {
			h.SetHalted(true)
			e.log.Info("hierarchy halted",
				zap.String("hierarchy", h.Name()),
				zap.Int64("total_applications", h.RuleApplications()),
			)
			break
		}
	}

	m.Elapsed = time.Since(start)
	budget := e.cfg.CycleBudget * time.Duration(m.Cycles)
	m.PerformanceScore, m.BudgetExceeded = scoreAgainstBudget(budget, m.Elapsed)
	return m, nil
}

func (e *Engine) cycle(h *membrane.Hierarchy) (int64, error) {
	if err := validateRules(h); err != nil {
		return 0, err
	}
	switch e.cfg.Strategy {
	case StrategyAsynchronous:
		return e.cycleAsync(h)
	default:
		return e.cycleSync(h)
	}
}
