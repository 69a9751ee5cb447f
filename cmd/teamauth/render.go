// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/holomush/teamauth/internal/team"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// formatProfile formats a profile as aligned key/value lines.
func formatProfile(p *team.Profile) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	founded := "-"
	if p.FoundedYear != nil {
		founded = strconv.Itoa(*p.FoundedYear)
	}
	email := p.ContactEmail
	if email == "" {
		email = "-"
	}

	_, _ = fmt.Fprintf(w, "ID:\t%s\n", p.ID)
	_, _ = fmt.Fprintf(w, "Name:\t%s\n", p.TeamName)
	_, _ = fmt.Fprintf(w, "Number:\t%s\n", deref(p.TeamNumber))
	_, _ = fmt.Fprintf(w, "Email:\t%s\n", email)
	_, _ = fmt.Fprintf(w, "Location:\t%s\n", deref(p.Location))
	_, _ = fmt.Fprintf(w, "Founded:\t%s\n", founded)
	_, _ = fmt.Fprintf(w, "Website:\t%s\n", deref(p.Website))
	_, _ = fmt.Fprintf(w, "Description:\t%s\n", deref(p.Description))

	social := p.SocialMedia
	for _, link := range []struct {
		name string
		url  *string
	}{
		{"Instagram", social.Instagram},
		{"LinkedIn", social.LinkedIn},
		{"Twitter", social.Twitter},
		{"YouTube", social.YouTube},
	} {
		if link.url != nil && *link.url != "" {
			_, _ = fmt.Fprintf(w, "%s:\t%s\n", link.name, *link.url)
		}
	}

	_ = w.Flush()
	return b.String()
}

// formatMaterials formats materials as a table.
func formatMaterials(materials []team.Material) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ID\tTITLE\tTYPE\tFILE\tSIZE\tPUBLIC\tCREATED")
	for _, m := range materials {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			m.ID, m.Title, m.MaterialType, m.FileName, formatSize(m.FileSize), m.IsPublic,
			m.CreatedAt.Local().Format(time.DateTime))
	}

	_ = w.Flush()
	return b.String()
}

// formatMessages formats messages as a table. Unread ones are starred.
func formatMessages(messages []team.Message) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "\tID\tFROM\tSUBJECT\tRECEIVED")
	for _, m := range messages {
		mark := "*"
		if m.IsRead {
			mark = ""
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s <%s>\t%s\t%s\n",
			mark, m.ID, m.FromName, m.FromEmail, m.Subject, m.CreatedAt.Local().Format(time.DateTime))
	}

	_ = w.Flush()
	return b.String()
}

// formatSize formats a byte count with a binary unit.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatRemaining formats the time left until expiry.
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	seconds := int64(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
