package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

type reflectionMeta struct {
	Date                string `yaml:"date"`
	User                string `yaml:"user"`
	IntentionalityScore *int   `yaml:"intentionality_score,omitempty"`
	UpdatedAt           string `yaml:"updated_at"`
}

// ReflectionDocument renders a daily reflection as Markdown with YAML
// front matter. Empty sections are written with a placeholder so every
// document has the same outline.
func ReflectionDocument(r *model.Reflection, username string) ([]byte, error) {
	meta, err := yaml.Marshal(reflectionMeta{
		Date:                r.Date.String(),
		User:                username,
		IntentionalityScore: r.IntentionalityScore,
		UpdatedAt:           r.UpdatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# Daily review %s\n", r.Date)

	if r.IntentionalityScore != nil {
		fmt.Fprintf(&buf, "\nIntentionality: **%d/10**\n", *r.IntentionalityScore)
	}

	section(&buf, "Accomplishments", r.Accomplishments)
	section(&buf, "What worked", r.WhatWorked)
	section(&buf, "What didn't work", r.WhatDidntWork)
	section(&buf, "Intentions for tomorrow", r.IntentionsTomorrow)

	return buf.Bytes(), nil
}

func section(buf *bytes.Buffer, title, body string) {
	fmt.Fprintf(buf, "\n## %s\n\n", title)
	body = strings.TrimSpace(body)
	if body == "" {
		body = "_Nothing recorded._"
	}
	buf.WriteString(body)
	buf.WriteString("\n")
}

// ReflectionPath is where a user's reflection for a day is archived.
func ReflectionPath(userID string, date model.Date) string {
	return fmt.Sprintf("%s/%04d/%s.md", userID, date.Year, date)
}
