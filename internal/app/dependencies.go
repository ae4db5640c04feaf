// Package app wires configuration, storage and the flex calculator.
package app

import (
	"fmt"

	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/internal/clock"
	"github.com/solinor/solinor-invoice-checking-sub000/internal/config"
	"github.com/solinor/solinor-invoice-checking-sub000/store/sqlite"
)

// Dependencies holds the services shared by the server and the CLI.
type Dependencies struct {
	Config     config.Application
	Store      *sqlite.Store
	Calculator *flex.Calculator
	Reporter   *flex.Reporter
	Clock      clock.Clock
}

// NewDependencies opens the store and builds the calculator. Callers own
// the returned store and must Close it.
func NewDependencies(cfg config.Application) (*Dependencies, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid flex settings: %w", err)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	clk := clock.System{}
	holidays := flex.NewHolidayLookup(store, flex.NewTTLHolidayCache(cfg.Flex.HolidayCacheTTL))
	calc := flex.NewCalculator(store, holidays, settings, clk)

	return &Dependencies{
		Config:     cfg,
		Store:      store,
		Calculator: calc,
		Reporter:   flex.NewReporter(calc, cfg.Flex.Concurrency),
		Clock:      clk,
	}, nil
}

func (d *Dependencies) Close() error {
	return d.Store.Close()
}
