// Command flexctl runs flex saldo batch jobs from the command line.
//
//	flexctl report                 saldo of every active person, lowest first
//	flexctl check                  contract data issues
//	flexctl saldo <person-id>      calculation log and balance of one person
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
	"github.com/solinor/solinor-invoice-checking-sub000/internal/app"
	"github.com/solinor/solinor-invoice-checking-sub000/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		asOf       string
		deps       *app.Dependencies
	)

	root := &cobra.Command{
		Use:           "flexctl",
		Short:         "Flex saldo batch tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.ConfigureLogging()
			deps, err = app.NewDependencies(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if deps == nil {
				return nil
			}
			return deps.Close()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/application.yaml", "YAML config path")
	root.PersistentFlags().StringVar(&asOf, "as-of", "", "last day to count (YYYY-MM-DD, default yesterday)")

	options := func() (flex.Options, error) {
		if asOf == "" {
			return flex.Options{}, nil
		}
		day, err := generic.ParseDate(asOf)
		if err != nil {
			return flex.Options{}, fmt.Errorf("--as-of: %w", err)
		}
		return flex.Options{AsOf: day}, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "report",
			Short: "Report flex saldo for everyone",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, err := options()
				if err != nil {
					return err
				}
				return runReport(cmd.Context(), cmd.OutOrStdout(), deps.Reporter, opts)
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Check contract information",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCheck(cmd.Context(), cmd.OutOrStdout(), deps.Store)
			},
		},
		&cobra.Command{
			Use:   "saldo <person-id>",
			Short: "Show the flex calculation of one person",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, err := options()
				if err != nil {
					return err
				}
				return runSaldo(cmd.Context(), cmd.OutOrStdout(), deps.Calculator, generic.PersonID(args[0]), opts)
			},
		},
	)
	return root
}

func runReport(ctx context.Context, w io.Writer, reporter *flex.Reporter, opts flex.Options) error {
	report, err := reporter.Report(ctx, opts)
	if err != nil {
		return err
	}
	for _, warning := range report.Warnings {
		fmt.Fprintln(w, warning)
	}
	for _, line := range report.Lines {
		fmt.Fprintf(w, "%s - %sh\n", line.Email, line.Balance)
	}
	return nil
}

func runCheck(ctx context.Context, w io.Writer, source flex.Source) error {
	issues, err := flex.CheckIntegrity(ctx, source)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues with flex hour contracts were found.")
		return nil
	}
	fmt.Fprintln(w, "Following errors with flex hour contracts were found:")
	for _, issue := range issues {
		fmt.Fprintf(w, "- %s\n", issue.Message)
	}
	log.Infof("Found %d issues", len(issues))
	return nil
}

func runSaldo(ctx context.Context, w io.Writer, calc *flex.Calculator, personID generic.PersonID, opts flex.Options) error {
	outcome, err := calc.Evaluate(ctx, personID, opts)
	if err != nil {
		return err
	}
	if outcome.Status == flex.StatusFailed {
		return fmt.Errorf("unable to calculate flex saldo for %s: %w", personID, outcome.Err)
	}

	r := outcome.Result
	for _, e := range r.Events {
		fmt.Fprintf(w, "%s  %s\n", e.Date, e.Message)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	fmt.Fprintf(w, "\n%s %s..%s (%s)\n", personID, r.Window.Start, r.Window.End, outcome.Status)
	fmt.Fprintf(w, "Flex hours: %sh\n", r.FlexBalance)
	fmt.Fprintf(w, "KIKY: %sh logged, %sh deducted over %d months, saldo %sh\n",
		r.KIKY.Hours, r.KIKY.Deduction, r.KIKY.EligibleMonths, r.KIKY.Saldo)
	fmt.Fprintf(w, "Final balance: %sh\n", r.FinalBalance)
	return nil
}
