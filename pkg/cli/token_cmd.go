package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"inferguard/internal/config"
	"inferguard/internal/middleware"
)

func newTokenCmd(flags *rootFlags) *cobra.Command {
	var (
		subject string
		secret  string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an HS256 bearer token for the API",
		Long: `Mint a signed JWT accepted by the server in hs256 auth mode. Without
--secret the signing secret comes from JWT_SECRET; without --subject the
token subject defaults to --caller. The command never touches the store.`,
		Example: `  inferguard token --subject analyst
  inferguard token --subject probe --ttl 15m -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if secret == "" {
				secret = cfg.Auth.JWTSecret
			}
			if subject == "" {
				subject = flags.caller
			}
			token, err := middleware.MintHS256(secret, subject, int64(ttl.Seconds()))
			if err != nil {
				return err
			}

			if flags.json() {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"token":      token,
					"subject":    subject,
					"expires_in": int64(ttl.Seconds()),
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject claim (defaults to --caller)")
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
