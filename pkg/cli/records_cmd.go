package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"inferguard/internal/domain"
)

const recordTimeLayout = "2006-01-02 15:04:05"

func newAuditCmd(flags *rootFlags) *cobra.Command {
	var (
		principal string
		blocked   string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit records, newest first",
		Example: `  # Everything the gateway recorded for one caller
  inferguard audit --principal analyst

  # Only blocked executions
  inferguard audit --blocked true --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.AuditFilter{Limit: limit}
			if principal != "" {
				filter.Caller = &principal
			}
			if blocked != "" {
				b, err := strconv.ParseBool(blocked)
				if err != nil {
					return domain.ErrValidation("invalid --blocked value %q: use true or false", blocked)
				}
				filter.Blocked = &b
			}

			rt, err := openRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			records, err := rt.app.Audit.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("list audit records: %w", err)
			}

			if flags.json() {
				return printJSON(cmd.OutOrStdout(), records)
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				detail := fmt.Sprintf("%d row(s)", rec.ResultCount)
				if rec.WasBlocked && rec.BlockReason != nil {
					detail = *rec.BlockReason
				}
				rows = append(rows, []string{
					rec.CreatedAt.Format(recordTimeLayout),
					rec.Caller,
					yesNo(rec.WasBlocked),
					detail,
					truncate(rec.QueryText, 60),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"TIME", "CALLER", "BLOCKED", "DETAIL", "QUERY"}, rows)
		},
	}
	cmd.Flags().StringVar(&principal, "principal", "", "filter by recorded caller")
	cmd.Flags().StringVar(&blocked, "blocked", "", "filter by blocked verdict (true or false)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum records to return")
	return cmd
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var (
		principal string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a caller's query history, newest first",
		Long: `List the per-caller query log that Overlap Control consults. Without
--principal the history of the invoking caller is shown.`,
		Example: `  inferguard history
  inferguard history --principal analyst --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			caller := principal
			if caller == "" {
				caller = rt.ident.Caller
			}
			entries, err := rt.app.History.Recent(cmd.Context(), caller, limit)
			if err != nil {
				return fmt.Errorf("list history for %q: %w", caller, err)
			}

			if flags.json() {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.CreatedAt.Format(recordTimeLayout),
					shortHash(entry.QueryHash),
					truncate(entry.QueryText, 70),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"TIME", "HASH", "QUERY"}, rows)
		},
	}
	cmd.Flags().StringVar(&principal, "principal", "", "caller whose history to list (defaults to --caller)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to return")
	return cmd
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
