package flex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
	"golang.org/x/sync/errgroup"
)

// ReportLine is one active person's saldo in the batch report.
type ReportLine struct {
	PersonID generic.PersonID
	Email    string
	Balance  generic.Amount
}

// Report is the company-wide saldo listing.
type Report struct {
	Lines    []ReportLine // ascending by balance
	Inactive int
	// Warnings name the people whose calculation failed.
	Warnings []string
}

// Reporter evaluates every person in parallel.
type Reporter struct {
	Calculator  *Calculator
	Concurrency int
}

func NewReporter(calc *Calculator, concurrency int) *Reporter {
	return &Reporter{Calculator: calc, Concurrency: concurrency}
}

// Report evaluates all non-archived people. A failed person becomes a
// warning, an inactive one is skipped. Store errors abort the run.
func (r *Reporter) Report(ctx context.Context, opts Options) (*Report, error) {
	people, err := r.Calculator.Source.People(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load people: %w", err)
	}

	var (
		mu     sync.Mutex
		report = &Report{}
	)
	g, ctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for _, person := range people {
		if person.Archived {
			continue
		}
		g.Go(func() error {
			outcome, err := r.Calculator.Evaluate(ctx, person.ID, opts)
			if err != nil {
				return fmt.Errorf("flex saldo for %s: %w", person.ID, err)
			}

			mu.Lock()
			defer mu.Unlock()
			switch outcome.Status {
			case StatusFailed:
				log.Warnf("Unable to calculate the report for %s: %v", person.Email, outcome.Err)
				report.Warnings = append(report.Warnings, fmt.Sprintf("Unable to calculate the report for %s: %v", person.Email, outcome.Err))
			case StatusInactive:
				report.Inactive++
			default:
				report.Lines = append(report.Lines, ReportLine{
					PersonID: person.ID,
					Email:    person.Email,
					Balance:  outcome.Result.FinalBalance,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Lines, func(i, j int) bool {
		a, b := report.Lines[i], report.Lines[j]
		if !a.Balance.Equal(b.Balance) {
			return a.Balance.LessThan(b.Balance)
		}
		return a.Email < b.Email
	})
	sort.Strings(report.Warnings)
	log.Infof("Flex saldo report: %d active, %d inactive, %d failed", len(report.Lines), report.Inactive, len(report.Warnings))
	return report, nil
}
