// Package simulation runs property scenarios through the acquisition engine
// and the regime comparator.
package simulation

import (
	"context"
	"fmt"

	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/iwvelando/property-yield/internal/config"
	"github.com/iwvelando/property-yield/internal/regime"
	"github.com/iwvelando/property-yield/pkg/loans"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result holds every figure computed for one scenario.
type Result struct {
	Name        string              `json:"name"`
	Property    acquisition.Inputs  `json:"property"`
	Entity      regime.Inputs       `json:"entity"`
	Acquisition acquisition.Results `json:"acquisition"`
	Regimes     regime.Outcome      `json:"regimes"`
	Schedule    []loans.YearSummary `json:"schedule,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// Selected returns the regime results the entity asked to display.
func (r Result) Selected() []regime.Result {
	return r.Regimes.Selected(r.Entity.Regime)
}

// Evaluate computes one scenario. The name defaults to the property title.
func Evaluate(logger *zap.Logger, name string, property acquisition.Inputs, entity regime.Inputs) Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	if name == "" {
		name = property.Title
	}

	results := acquisition.Compute(property)
	outcome := regime.Compare(property, results, entity)

	generator := loans.NewAmortizationScheduleGenerator(logger)
	schedule := generator.GenerateSchedule(results.LoanAmount, property.InterestRate, property.LoanDurationYears)

	logger.Debug(fmt.Sprintf("evaluated scenario %s", name),
		zap.String("op", "simulation.Evaluate"),
		zap.Float64("grossYield", results.GrossYield),
		zap.Float64("maxNetSellerPrice", results.MaxNetSellerPrice),
		zap.String("bestRegime", string(outcome.Comparison.BestRegime)),
	)

	return Result{
		Name:        name,
		Property:    property,
		Entity:      entity,
		Acquisition: results,
		Regimes:     outcome,
		Schedule:    loans.SummarizeByYear(schedule),
		Warnings:    config.ValidateInputs(fmt.Sprintf("Scenario '%s'", name), property, entity),
	}
}

// RunScenarios evaluates every active scenario of conf concurrently. Results
// keep the order of the configuration file.
func RunScenarios(ctx context.Context, logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	active := conf.ActiveScenarios()
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "simulation.RunScenarios"),
			)
		}
	}

	results := make([]Result, len(active))
	g, gctx := errgroup.WithContext(ctx)
	for i, scenario := range active {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}
			results[i] = Evaluate(logger, scenario.Name, scenario.Inputs(), conf.ResolveEntity(scenario))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("computed %d scenarios", len(results)),
		zap.String("op", "simulation.RunScenarios"),
	)
	return results, nil
}
