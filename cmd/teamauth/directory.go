// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/holomush/teamauth/internal/team"
)

// contactConfig holds flags for the contact command.
type contactConfig struct {
	fromName  string
	fromEmail string
	subject   string
	message   string
	courseID  string
}

func newContactCmd() *cobra.Command {
	cfg := &contactConfig{}

	cmd := &cobra.Command{
		Use:   "contact <team-id>",
		Short: "Send a message to a team",
		Long:  `Send a message to a team through its public contact form. No sign-in is needed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				req := team.ContactRequest{
					FromName:  cfg.fromName,
					FromEmail: cfg.fromEmail,
					Subject:   cfg.subject,
					Message:   cfg.message,
					CourseID:  optional(cmd, "course-id", cfg.courseID),
				}
				if err := resultErr(a.facade.ContactTeam(ctx, args[0], req)); err != nil {
					return err
				}
				cmd.Println("Message sent")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.fromName, "from-name", "", "your name")
	cmd.Flags().StringVar(&cfg.fromEmail, "from-email", "", "your email")
	cmd.Flags().StringVar(&cfg.subject, "subject", "", "message subject")
	cmd.Flags().StringVar(&cfg.message, "message", "", "message body")
	cmd.Flags().StringVar(&cfg.courseID, "course-id", "", "course the message refers to")
	for _, name := range []string{"from-name", "from-email", "subject", "message"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Read messages sent to the signed-in team",
	}
	cmd.AddCommand(newMessagesListCmd())
	cmd.AddCommand(newMessagesReadCmd())
	return cmd
}

// messagesListConfig holds flags for messages list.
type messagesListConfig struct {
	unread     bool
	jsonOutput bool
}

func newMessagesListCmd() *cobra.Command {
	cfg := &messagesListConfig{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}
				res := a.facade.ListMessages(ctx)
				if !res.Success {
					return res.Err
				}
				messages := res.Data
				if cfg.unread {
					messages = unreadOnly(messages)
				}
				if cfg.jsonOutput {
					return printJSON(cmd.OutOrStdout(), messages)
				}
				cmd.Print(formatMessages(messages))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&cfg.unread, "unread", false, "only show unread messages")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output messages as JSON")

	return cmd
}

func unreadOnly(messages []team.Message) []team.Message {
	out := make([]team.Message, 0, len(messages))
	for _, m := range messages {
		if !m.IsRead {
			out = append(out, m)
		}
	}
	return out
}

func newMessagesReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}
				if err := resultErr(a.facade.MarkMessageRead(ctx, args[0])); err != nil {
					return err
				}
				cmd.Printf("Marked message %s as read\n", args[0])
				return nil
			})
		},
	}
}

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Look up other teams",
	}
	cmd.AddCommand(newTeamShowCmd())
	return cmd
}

// teamShowConfig holds flags for team show.
type teamShowConfig struct {
	jsonOutput bool
}

func newTeamShowCmd() *cobra.Command {
	cfg := &teamShowConfig{}

	cmd := &cobra.Command{
		Use:   "show <team-id>",
		Short: "Show a team's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				res := a.facade.PublicProfile(ctx, args[0])
				if !res.Success {
					return res.Err
				}
				if cfg.jsonOutput {
					return printJSON(cmd.OutOrStdout(), res.Data)
				}
				cmd.Print(formatProfile(res.Data))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output the profile as JSON")

	return cmd
}
