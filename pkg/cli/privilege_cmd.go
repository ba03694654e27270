package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"inferguard/internal/privilege"
)

func newPrivilegeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "privilege",
		Short: "Probe every scenario role against its allowed queries",
		Long: `Run each role's probe queries under that role's own store credentials
and print the resulting access matrix. Denials come from the store's own
grants, so against an engine without per-user permissions the matrix
shows everything allowed.`,
		Example: `  inferguard privilege
  inferguard privilege -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			matrix := rt.app.Services.Privilege.Run(cmd.Context())

			if flags.json() {
				return printJSON(cmd.OutOrStdout(), matrix)
			}
			return renderPrivilegeMatrix(cmd.OutOrStdout(), matrix)
		},
	}
}

func renderPrivilegeMatrix(w io.Writer, matrix *privilege.Matrix) error {
	rows := make([][]string, 0, len(matrix.Roles))
	for _, role := range matrix.Roles {
		for _, result := range role.Results {
			detail := fmt.Sprintf("%d record(s)", result.Records)
			if !result.Allowed {
				detail = result.Error
			}
			rows = append(rows, []string{
				role.Role,
				result.Probe,
				yesNo(result.Allowed),
				detail,
			})
		}
	}
	if err := printTable(w, []string{"ROLE", "PROBE", "ALLOWED", "DETAIL"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, role := range matrix.Roles {
		fmt.Fprintf(w, "%s (%s): %d allowed, %d denied\n", role.Role, role.User, role.Allowed, role.Denied)
	}
	return nil
}
