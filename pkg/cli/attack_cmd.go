package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"inferguard/internal/domain"
)

func newAttackCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "attack <kind>",
		Short:     "Run a single inference attack against the store",
		ValidArgs: []string{"differencing", "tracker", "sum", "linear", "linear_system"},
		Example: `  # Recover one salary by subtracting two aggregates
  inferguard attack differencing

  # Solve per-employee salaries from overlapping group sums
  inferguard attack linear -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			kind := domain.AttackKind(args[0])
			if args[0] == "linear" {
				kind = domain.AttackLinearSystem
			}
			result, err := rt.app.Services.Suite.RunOne(cmd.Context(), kind, rt.ident)
			if err != nil {
				return err
			}

			if flags.json() {
				return printJSON(cmd.OutOrStdout(), result)
			}
			return renderAttackResult(cmd.OutOrStdout(), result)
		},
	}
}

func newSuiteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "suite",
		Short: "Run the full inference attack suite",
		Long: `Run every inference attack in order against the configured store and
report which of them recovered protected values. Against an unprotected
store all attacks are expected to succeed; the suite is the regression
check that the protection strategies actually close the channels the
attacks exploit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			suite := rt.app.Services.Suite.Run(cmd.Context(), rt.ident)

			if flags.json() {
				return printJSON(cmd.OutOrStdout(), suite)
			}
			return renderSuiteResult(cmd.OutOrStdout(), suite)
		},
	}
}

// renderAttackResult prints one attack's verdict with the values it recovered.
func renderAttackResult(w io.Writer, result *domain.AttackResult) error {
	fmt.Fprintf(w, "Attack:  %s\n", result.Attack)
	fmt.Fprintf(w, "Target:  %s\n", result.Target)
	fmt.Fprintf(w, "Success: %s\n", yesNo(result.Success))
	fmt.Fprintf(w, "Queries: %d\n", result.QueriesUsed)
	if result.Reason != "" {
		fmt.Fprintf(w, "Reason:  %s\n", result.Reason)
	}
	if len(result.Inferred) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	rows := make([][]string, 0, len(result.Inferred))
	for _, key := range sortedKeys(result.Inferred) {
		row := []string{key, formatValue(result.Inferred[key]), "", ""}
		if actual, ok := result.Actual[key]; ok {
			row[2] = formatValue(actual)
		}
		if errPct, ok := result.ErrorMetrics[key]; ok {
			row[3] = fmt.Sprintf("%.2f%%", errPct)
		}
		rows = append(rows, row)
	}
	return printTable(w, []string{"SUBJECT", "INFERRED", "ACTUAL", "ERROR"}, rows)
}

// renderSuiteResult prints one row per attack plus a success tally.
func renderSuiteResult(w io.Writer, suite *domain.SuiteResult) error {
	rows := make([][]string, 0, len(suite.Results))
	for _, result := range suite.Results {
		detail := result.Reason
		if detail == "" && len(result.Inferred) > 0 {
			key := sortedKeys(result.Inferred)[0]
			detail = fmt.Sprintf("%s = %s", key, formatValue(result.Inferred[key]))
		}
		rows = append(rows, []string{
			string(result.Attack),
			result.Target,
			yesNo(result.Success),
			fmt.Sprintf("%d", result.QueriesUsed),
			detail,
		})
	}
	if err := printTable(w, []string{"ATTACK", "TARGET", "SUCCESS", "QUERIES", "DETAIL"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d/%d attacks succeeded (run %s)\n", suite.Successes, suite.Total, suite.RunID)
	return err
}
