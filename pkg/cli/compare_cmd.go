package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"inferguard/internal/domain"
)

func newCompareCmd(flags *rootFlags) *cobra.Command {
	var strategies strategySet
	cmd := &cobra.Command{
		Use:   "compare <query> [param...]",
		Short: "Run one query under every protection strategy side by side",
		Long: `Run the query under every registered protection strategy and show
each strategy's verdict next to the unprotected result. Positional
parameters bind to ? placeholders in order; numeric-looking parameters
are passed as numbers. Use --strategies to evaluate a subset.`,
		Example: `  # Aggregate over a small department, protected and unprotected
  inferguard compare "SELECT AVG(salary) FROM employees WHERE department = ?" Sales

  # Only the two strategies under discussion
  inferguard compare --strategies min_size,cell_suppression "SELECT COUNT(*) FROM employees"

  # JSON for scripting
  inferguard compare "SELECT COUNT(*) FROM employees" -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			q := domain.NewQuery(args[0], coerceParams(args[1:])...)

			var outcomes []*domain.Outcome
			if len(strategies.kinds) > 0 {
				// A requested subset runs sequentially in the order given.
				for _, kind := range strategies.kinds {
					out, err := rt.app.Services.Comparator.EvaluateOne(cmd.Context(), kind, q, rt.ident)
					if err != nil {
						return err
					}
					outcomes = append(outcomes, out)
				}
			} else {
				byKind := rt.app.Services.Comparator.Compare(cmd.Context(), q, rt.ident)
				for _, kind := range rt.app.Services.Comparator.Kinds() {
					if out, ok := byKind[kind]; ok {
						outcomes = append(outcomes, out)
					}
				}
			}

			if flags.json() {
				return printJSON(cmd.OutOrStdout(), outcomes)
			}
			return renderOutcomeTable(cmd.OutOrStdout(), outcomes)
		},
	}
	cmd.Flags().Var(&strategies, "strategies", "comma-separated strategies to evaluate instead of all")
	return cmd
}

func newEvaluateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <strategy> <query> [param...]",
		Short: "Run one query under a single protection strategy",
		Example: `  # See what cell suppression does to a grouped aggregate
  inferguard evaluate cell_suppression "SELECT department, AVG(salary) FROM employees GROUP BY department"

  # Strategies: no_protection, min_size, differential_privacy, overlap_control, cell_suppression
  inferguard evaluate min_size "SELECT salary FROM employees WHERE name = ?" "Bob Smith"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			kind := domain.StrategyKind(args[0])
			q := domain.NewQuery(args[1], coerceParams(args[2:])...)
			out, err := rt.app.Services.Comparator.EvaluateOne(cmd.Context(), kind, q, rt.ident)
			if err != nil {
				return err
			}

			if flags.json() {
				return printJSON(cmd.OutOrStdout(), out)
			}
			return renderOutcome(cmd.OutOrStdout(), out)
		},
	}
}

// renderOutcomeTable prints one verdict row per strategy.
func renderOutcomeTable(w io.Writer, outcomes []*domain.Outcome) error {
	rows := make([][]string, 0, len(outcomes))
	for _, out := range outcomes {
		verdict := "allowed"
		detail := fmt.Sprintf("%d row(s)", out.Result.RowCount())
		if out.Blocked {
			verdict = "BLOCKED"
			detail = out.BlockReason
		}
		rows = append(rows, []string{string(out.Strategy), verdict, detail, out.Protection})
	}
	return printTable(w, []string{"STRATEGY", "VERDICT", "DETAIL", "PROTECTION"}, rows)
}

// renderOutcome prints a single strategy's verdict with its full result set.
func renderOutcome(w io.Writer, out *domain.Outcome) error {
	fmt.Fprintf(w, "Strategy:   %s\n", out.Strategy)
	if out.Blocked {
		fmt.Fprintln(w, "Verdict:    BLOCKED")
		fmt.Fprintf(w, "Reason:     %s\n", out.BlockReason)
	} else {
		fmt.Fprintln(w, "Verdict:    allowed")
	}
	if out.Protection != "" {
		fmt.Fprintf(w, "Protection: %s\n", out.Protection)
	}
	if out.Blocked {
		return nil
	}
	fmt.Fprintln(w)
	return renderResultSet(w, out.Result)
}
