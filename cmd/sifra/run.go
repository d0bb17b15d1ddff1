package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zeehio/sifra/pkg/fragility"
	"github.com/zeehio/sifra/pkg/model"
	"github.com/zeehio/sifra/pkg/scenario"
	"github.com/zeehio/sifra/pkg/sim"
	"github.com/zeehio/sifra/pkg/validation"
)

type simulateOptions struct {
	plans   bool
	workers int
	seed    int64
}

// project bundles everything loaded from one project directory along with
// the combined validation report.
type project struct {
	Facility *model.Facility
	Tables   fragility.Set
	Scenario *scenario.Scenario
	Report   *validation.Report
}

// loadProject loads the facility, fragility tables and scenario from a
// project directory and runs every validation stage. Trials never run on
// an invalid project.
func loadProject(projectPath string) (*project, error) {
	fac, err := model.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading facility: %w", err)
	}
	tables, err := fragility.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading fragility tables: %w", err)
	}
	sc, err := scenario.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}

	report := model.Validate(fac)
	report.Merge(tables.Validate())
	report.Merge(tables.ValidateModel(fac))
	report.Merge(sc.Validate())

	return &project{Facility: fac, Tables: tables, Scenario: sc, Report: report}, nil
}

func simulate(ctx context.Context, p *project, opts simulateOptions) (*sim.Result, error) {
	if !p.Report.Valid {
		printValidationReport(p.Report)
		return nil, fmt.Errorf("project has validation errors")
	}
	if opts.workers > 0 {
		p.Scenario.Workers = opts.workers
	}
	if opts.seed != 0 {
		p.Scenario.Seed = opts.seed
	}

	engine := sim.New(p.Facility, p.Tables, p.Scenario)
	engine.KeepPlans = opts.plans
	return engine.Run(ctx)
}

func runSimulate(ctx context.Context, projectPath string, opts simulateOptions) error {
	p, err := loadProject(projectPath)
	if err != nil {
		return err
	}
	result, err := simulate(ctx, p, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runValidate(projectPath string) error {
	p, err := loadProject(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(p.Report)

	if !p.Report.Valid {
		os.Exit(1)
	}
	return nil
}
