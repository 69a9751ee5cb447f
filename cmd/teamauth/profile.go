// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/teamauth/internal/team"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the signed-in team's profile",
	}
	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileUpdateCmd())
	return cmd
}

// profileShowConfig holds flags for profile show.
type profileShowConfig struct {
	jsonOutput bool
	refresh    bool
}

func newProfileShowCmd() *cobra.Command {
	cfg := &profileShowConfig{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in team's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}
				profile := a.facade.Profile()
				if cfg.refresh {
					res := a.facade.RefreshProfile(ctx)
					if !res.Success {
						return res.Err
					}
					profile = res.Data
				}
				if cfg.jsonOutput {
					return printJSON(cmd.OutOrStdout(), profile)
				}
				cmd.Print(formatProfile(profile))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output the profile as JSON")
	cmd.Flags().BoolVar(&cfg.refresh, "refresh", false, "fetch the profile again after restoring")

	return cmd
}

// profileUpdateConfig holds flags for profile update.
type profileUpdateConfig struct {
	name        string
	number      string
	description string
	logoFile    string
	location    string
	foundedYear int
	website     string
	instagram   string
	linkedin    string
	twitter     string
	youtube     string
}

// update builds a partial update from the flags the user set.
func (cfg *profileUpdateConfig) update(cmd *cobra.Command, current *team.Profile) (team.ProfileUpdate, error) {
	upd := team.ProfileUpdate{
		TeamName:    optional(cmd, "name", cfg.name),
		TeamNumber:  optional(cmd, "number", cfg.number),
		Description: optional(cmd, "description", cfg.description),
		Location:    optional(cmd, "location", cfg.location),
		Website:     optional(cmd, "website", cfg.website),
	}
	if cmd.Flags().Changed("founded-year") {
		year := cfg.foundedYear
		upd.FoundedYear = &year
	}
	if cfg.logoFile != "" {
		logo, err := dataURL(cfg.logoFile)
		if err != nil {
			return upd, err
		}
		upd.LogoData = &logo
	}

	social := current.SocialMedia
	changed := false
	for _, link := range []struct {
		flag  string
		value string
		field **string
	}{
		{"instagram", cfg.instagram, &social.Instagram},
		{"linkedin", cfg.linkedin, &social.LinkedIn},
		{"twitter", cfg.twitter, &social.Twitter},
		{"youtube", cfg.youtube, &social.YouTube},
	} {
		if v := optional(cmd, link.flag, link.value); v != nil {
			*link.field = v
			changed = true
		}
	}
	if changed {
		upd.SocialMedia = &social
	}
	return upd, nil
}

// dataURL reads path and encodes it as a base64 data URL.
func dataURL(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return "", oops.Code("FILE_READ_FAILED").With("path", path).Wrap(err)
	}
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func newProfileUpdateCmd() *cobra.Command {
	cfg := &profileUpdateConfig{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change fields of the signed-in team's profile",
		Long: `Change fields of the signed-in team's profile. Only the flags given are
sent; every other field keeps its current value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}
				upd, err := cfg.update(cmd, a.facade.Profile())
				if err != nil {
					return err
				}
				if upd.IsEmpty() {
					cmd.Println("Nothing to update")
					return nil
				}
				res := a.facade.UpdateProfile(ctx, upd)
				if !res.Success {
					return res.Err
				}
				cmd.Println("Profile updated")
				cmd.Print(formatProfile(res.Data))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.name, "name", "", "team name")
	cmd.Flags().StringVar(&cfg.number, "number", "", "team number")
	cmd.Flags().StringVar(&cfg.description, "description", "", "team description")
	cmd.Flags().StringVar(&cfg.logoFile, "logo-file", "", "image file to upload as the team logo")
	cmd.Flags().StringVar(&cfg.location, "location", "", "team location")
	cmd.Flags().IntVar(&cfg.foundedYear, "founded-year", 0, "year the team was founded")
	cmd.Flags().StringVar(&cfg.website, "website", "", "team website")
	cmd.Flags().StringVar(&cfg.instagram, "instagram", "", "Instagram link")
	cmd.Flags().StringVar(&cfg.linkedin, "linkedin", "", "LinkedIn link")
	cmd.Flags().StringVar(&cfg.twitter, "twitter", "", "Twitter link")
	cmd.Flags().StringVar(&cfg.youtube, "youtube", "", "YouTube link")

	return cmd
}
