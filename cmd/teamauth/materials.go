// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"encoding/base64"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/teamauth/internal/team"
)

func newMaterialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "Manage the signed-in team's materials",
	}
	cmd.AddCommand(newMaterialsListCmd())
	cmd.AddCommand(newMaterialsUploadCmd())
	cmd.AddCommand(newMaterialsDeleteCmd())
	return cmd
}

// materialsListConfig holds flags for materials list.
type materialsListConfig struct {
	filter     string
	jsonOutput bool
}

func newMaterialsListCmd() *cobra.Command {
	cfg := &materialsListConfig{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List materials, newest first",
		Long: `List the signed-in team's materials, newest first. --filter takes a glob
matched against file names and titles, for example "*.pdf".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}
				res := a.facade.ListMaterials(ctx, cfg.filter)
				if !res.Success {
					return res.Err
				}
				if cfg.jsonOutput {
					return printJSON(cmd.OutOrStdout(), res.Data)
				}
				cmd.Print(formatMaterials(res.Data))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.filter, "filter", "", "glob matched against file name and title")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output materials as JSON")

	return cmd
}

// materialsUploadConfig holds flags for materials upload.
type materialsUploadConfig struct {
	title        string
	description  string
	materialType string
	mimeType     string
	public       bool
	tags         []string
}

// upload reads path and builds the upload payload.
func (cfg *materialsUploadConfig) upload(cmd *cobra.Command, path string) (team.MaterialUpload, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return team.MaterialUpload{}, oops.Code("FILE_READ_FAILED").With("path", path).Wrap(err)
	}

	name := filepath.Base(path)
	title := cfg.title
	if title == "" {
		title = name
	}
	mimeType := cfg.mimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(name))
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	tags := cfg.tags
	if tags == nil {
		tags = []string{}
	}

	return team.MaterialUpload{
		Title:        title,
		Description:  optional(cmd, "description", cfg.description),
		MaterialType: team.MaterialType(cfg.materialType),
		FileData:     base64.StdEncoding.EncodeToString(data),
		FileName:     name,
		MimeType:     mimeType,
		IsPublic:     cfg.public,
		Tags:         tags,
	}, nil
}

func newMaterialsUploadCmd() *cobra.Command {
	cfg := &materialsUploadConfig{}

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file as a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, err := cfg.upload(cmd, args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}
				res := a.facade.UploadMaterial(ctx, upload)
				if !res.Success {
					return res.Err
				}
				cmd.Printf("Uploaded %s (%s, %s)\n", res.Data.Title, res.Data.ID, formatSize(res.Data.FileSize))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.title, "title", "", "material title (default: file name)")
	cmd.Flags().StringVar(&cfg.description, "description", "", "material description")
	cmd.Flags().StringVar(&cfg.materialType, "type", string(team.MaterialDocument),
		"material type (document, video, image, presentation, code, other)")
	cmd.Flags().StringVar(&cfg.mimeType, "mime-type", "", "MIME type (default: from the file)")
	cmd.Flags().BoolVar(&cfg.public, "public", false, "make the material public")
	cmd.Flags().StringSliceVar(&cfg.tags, "tag", nil, "tag to attach (repeatable)")

	return cmd
}

func newMaterialsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}
				if err := resultErr(a.facade.DeleteMaterial(ctx, args[0])); err != nil {
					return err
				}
				cmd.Printf("Deleted material %s\n", args[0])
				return nil
			})
		},
	}
}
