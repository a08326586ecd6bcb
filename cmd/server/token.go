package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/auth"
)

var (
	tokenClient string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for an API client",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.AuthEnabled() {
			return eris.New("auth.jwt_secret is not configured")
		}

		ttl := cfg.Auth.TokenTTL
		if tokenTTL > 0 {
			ttl = tokenTTL
		}

		token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, ttl).GenerateToken(tokenClient)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenClient, "client", "", "client id embedded in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default from config)")
	_ = tokenCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(tokenCmd)
}
