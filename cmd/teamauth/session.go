// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/holomush/teamauth/internal/team"
)

// registerConfig holds flags for the register command.
type registerConfig struct {
	name            string
	number          string
	email           string
	password        string
	confirmPassword string
	description     string
	location        string
	foundedYear     int
	website         string
}

// request builds the registration payload. Optional fields are sent only
// when set.
func (cfg *registerConfig) request(cmd *cobra.Command) team.RegistrationRequest {
	req := team.RegistrationRequest{
		TeamName:        cfg.name,
		ContactEmail:    cfg.email,
		Password:        cfg.password,
		ConfirmPassword: cfg.confirmPassword,
	}
	if req.ConfirmPassword == "" && !cmd.Flags().Changed("confirm-password") {
		req.ConfirmPassword = cfg.password
	}
	req.TeamNumber = optional(cmd, "number", cfg.number)
	req.Description = optional(cmd, "description", cfg.description)
	req.Location = optional(cmd, "location", cfg.location)
	req.Website = optional(cmd, "website", cfg.website)
	if cmd.Flags().Changed("founded-year") {
		year := cfg.foundedYear
		req.FoundedYear = &year
	}
	return req
}

// optional returns &value when the flag was set on the command line.
func optional(cmd *cobra.Command, flag, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}

func newRegisterCmd() *cobra.Command {
	cfg := &registerConfig{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new team and sign it in",
		Long: `Register a new team with the Team API. On success the team is signed in
and the session token is saved to the credential store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.restore(ctx); err != nil {
					return err
				}
				res := a.facade.Register(ctx, cfg.request(cmd))
				if !res.Success {
					return res.Err
				}
				cmd.Printf("Registered and signed in as %s\n", res.Data.TeamName)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.name, "name", "", "team name")
	cmd.Flags().StringVar(&cfg.number, "number", "", "team number")
	cmd.Flags().StringVar(&cfg.email, "email", "", "contact email")
	cmd.Flags().StringVar(&cfg.password, "password", "", "password")
	cmd.Flags().StringVar(&cfg.confirmPassword, "confirm-password", "", "password confirmation (default: --password)")
	cmd.Flags().StringVar(&cfg.description, "description", "", "team description")
	cmd.Flags().StringVar(&cfg.location, "location", "", "team location")
	cmd.Flags().IntVar(&cfg.foundedYear, "founded-year", 0, "year the team was founded")
	cmd.Flags().StringVar(&cfg.website, "website", "", "team website")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// loginConfig holds flags for the login command.
type loginConfig struct {
	email    string
	password string
}

func newLoginCmd() *cobra.Command {
	cfg := &loginConfig{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign a team in",
		Long:  `Sign a team in with its contact email and password and save the session token.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.restore(ctx); err != nil {
					return err
				}
				res := a.facade.Login(ctx, team.Credentials{Email: cfg.email, Password: cfg.password})
				if !res.Success {
					return res.Err
				}
				cmd.Printf("Signed in as %s\n", res.Data.TeamName)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "", "contact email")
	cmd.Flags().StringVar(&cfg.password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved token",
		Long:  `Sign out locally. The saved session token is removed from the credential store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				a.facade.Logout()
				cmd.Println("Signed out")
				return nil
			})
		},
	}
}

// StatusOutput is the JSON form of the status command.
type StatusOutput struct {
	State         string        `json:"state"`
	Authenticated bool          `json:"authenticated"`
	Profile       *team.Profile `json:"profile,omitempty"`
	Token         *TokenStatus  `json:"token,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// TokenStatus describes the saved token's informational claims.
type TokenStatus struct {
	TeamID    string     `json:"team_id,omitempty"`
	TeamName  string     `json:"team_name,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

func newStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the restored session",
		Long: `Restore the saved session and show the signed-in team along with the
token's claims. A token the server rejects is cleared.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.restore(ctx); err != nil {
					return err
				}
				out := buildStatus(a)
				if cfg.jsonOutput {
					return printJSON(cmd.OutOrStdout(), out)
				}
				printStatus(cmd, out)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func buildStatus(a *app) StatusOutput {
	snap := a.facade.Snapshot()
	out := StatusOutput{
		State:         snap.State.String(),
		Authenticated: snap.IsAuthenticated(),
		Profile:       snap.Profile,
		Error:         team.MessageOf(snap.Err),
	}
	if !out.Authenticated {
		return out
	}
	token, ok := a.store.Load()
	if !ok {
		return out
	}
	claims, err := token.Claims()
	if err != nil {
		a.logger.Debug("token claims unavailable", "error", err.Error())
		return out
	}
	out.Token = &TokenStatus{TeamID: claims.TeamID, TeamName: claims.TeamName}
	if exp := claims.Expiry(); !exp.IsZero() {
		out.Token.ExpiresAt = &exp
	}
	return out
}

func printStatus(cmd *cobra.Command, out StatusOutput) {
	if !out.Authenticated {
		cmd.Println("Not signed in")
		if out.Error != "" {
			cmd.Printf("Last error: %s\n", out.Error)
		}
		return
	}
	cmd.Printf("Signed in as %s (%s)\n", out.Profile.TeamName, out.Profile.ID)
	if out.Token != nil && out.Token.ExpiresAt != nil {
		cmd.Printf("Token expires %s (in %s)\n",
			out.Token.ExpiresAt.Local().Format(time.DateTime),
			formatRemaining(time.Until(*out.Token.ExpiresAt)))
	}
}
