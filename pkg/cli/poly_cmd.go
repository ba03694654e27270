package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"inferguard/internal/poly"
)

func newPolyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "poly",
		Short: "Walk the polyinstantiation demo across clearance levels",
		Long: `Show what each clearance level sees for the scenario's target employee
in the polyinstantiated employees_secure table, then mount a differencing
attack from every vantage to check whether the cover stories hold. A
vantage counts as protected when the inferred salary misses the true one
by more than the tolerance.`,
		Example: `  inferguard poly
  inferguard poly -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			report, err := rt.app.Services.Poly.Run(cmd.Context(), rt.ident)
			if err != nil {
				return err
			}

			if flags.json() {
				return printJSON(cmd.OutOrStdout(), report)
			}
			return renderPolyReport(cmd.OutOrStdout(), report)
		},
	}
}

func renderPolyReport(w io.Writer, report *poly.Report) error {
	fmt.Fprintf(w, "Target:      %s (%s)\n", report.Target, report.Group)
	fmt.Fprintf(w, "True salary: %s\n\n", formatValue(report.Truth["salary"]))

	vantages := make([][]string, 0, len(report.Vantages))
	for _, v := range report.Vantages {
		salary := "-"
		if v.Visible {
			salary = formatValue(v.Record["salary"])
		}
		vantages = append(vantages, []string{
			fmt.Sprintf("%d", v.Level),
			yesNo(v.Visible),
			salary,
		})
	}
	if err := printTable(w, []string{"LEVEL", "VISIBLE", "SALARY SEEN"}, vantages); err != nil {
		return err
	}

	fmt.Fprintln(w)
	checks := make([][]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		inferred, errPct := "-", "-"
		if c.Success {
			inferred = fmt.Sprintf("%.2f", c.Inferred)
			errPct = fmt.Sprintf("%.1f%%", c.ErrorPct)
		} else if c.Reason != "" {
			inferred = c.Reason
		}
		checks = append(checks, []string{
			fmt.Sprintf("%d", c.Level),
			inferred,
			errPct,
			yesNo(c.Protected),
		})
	}
	return printTable(w, []string{"LEVEL", "INFERRED", "ERROR", "PROTECTED"}, checks)
}
