package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "catwatch/internal/jwt_token"
	"catwatch/internal/platform/config"
	id "catwatch/pkg/domain"
)

func newTokenCommand() *cobra.Command {
	v := config.New()
	var (
		owner string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for an owner (development only)",
		Example: `
catwatch token --owner 3f0a0d4e-2a43-4a55-9c57-1b1b5c1c2f1e
catwatch token --ttl 1h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			ownerID := id.NewOwnerID()
			if owner != "" {
				if ownerID, err = id.ParseOwnerID(owner); err != nil {
					return fmt.Errorf("owner: %w", err)
				}
			}
			token, err := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, tokenIssuer).GenerateAccessToken(ownerID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "owner %s\n", ownerID)
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner id; a new one is generated when empty")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
