package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orgwise/orgchart-service/internal/auth"
	"github.com/orgwise/orgchart-service/internal/config"
)

type tokenOutput struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	Access    string    `json:"access"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		access  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
			token, expiresAt, err := tokens.GenerateToken(subject, auth.Access(access))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tokenOutput{Token: token, Subject: subject, Access: access, ExpiresAt: expiresAt})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Caller name recorded as the change actor (required)")
	cmd.Flags().StringVar(&access, "access", string(auth.AccessViewer), "Access level: viewer or editor")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
