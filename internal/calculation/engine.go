package calculation

import (
	"fmt"

	"github.com/finsim/household-forecast/internal/domain"
)

// Engine runs household projections. A run is one synchronous pass over an
// immutable plan; identical plans produce identical results, so completed
// runs are memoized by plan fingerprint.
type Engine struct {
	Logger Logger
	cache  map[string]*domain.SimulationResult
}

// NewEngine creates a projection engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{
		Logger: NopLogger{},
		cache:  make(map[string]*domain.SimulationResult),
	}
}

// SetLogger sets the engine logger. A nil logger restores the no-op default.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Run projects a plan from its start month to the life-expectancy horizon
// and returns the complete result. The engine assumes validated input (the
// config boundary rejects malformed plans) and never aborts mid-run: asset
// depletion is reported in the summary, not returned as an error.
func (e *Engine) Run(plan *domain.Plan) (*domain.SimulationResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is required")
	}

	fp, err := Fingerprint(plan)
	if err == nil {
		if cached, ok := e.cache[fp]; ok {
			e.Logger.Debugf("returning memoized result for fingerprint %s", fp[:12])
			return cached, nil
		}
	} else {
		e.Logger.Warnf("plan fingerprint failed, skipping memoization: %v", err)
	}

	result := e.project(plan)

	if err == nil {
		e.cache[fp] = result
	}
	return result, nil
}
