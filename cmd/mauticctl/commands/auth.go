package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/natserract/mautic/pkg/mautic"
	"github.com/spf13/cobra"
)

func NewAuthorizeURLCommand(app *App) *cobra.Command {
	var (
		redirectURL string
		state       string
	)

	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the OAuth2 authorization URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.Session()
			if err != nil {
				return err
			}
			oauthSession, ok := session.(*mautic.OAuth2Session)
			if !ok {
				return ErrNotOAuth2
			}
			if state == "" {
				state = uuid.NewString()
			}
			fmt.Fprintf(app.Out, "%s\nstate: %s\n", oauthSession.AuthCodeURL(redirectURL, state), state)
			return nil
		},
	}

	cmd.Flags().StringVar(&redirectURL, "redirect-url", "", "registered redirect URI")
	cmd.Flags().StringVar(&state, "state", "", "state value (random when empty)")
	_ = cmd.MarkFlagRequired("redirect-url")

	return cmd
}
