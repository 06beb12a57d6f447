package markdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

func TestParse(t *testing.T) {
	html, err := NewParser().Parse([]byte("## Plan\n\n- [x] walk\n- [ ] read"))
	require.NoError(t, err)
	assert.Contains(t, string(html), `<h2 id="plan">Plan</h2>`)
	assert.Contains(t, string(html), `checkbox`)
}

func TestReflectionDocumentRoundTrip(t *testing.T) {
	score := 7
	r := &model.Reflection{
		Date:                model.NewDate(2025, time.March, 4),
		IntentionalityScore: &score,
		Accomplishments:     "Shipped the weekly report",
		WhatWorked:          "Morning focus block",
		IntentionsTomorrow:  "Start *early*",
		UpdatedAt:           time.Date(2025, time.March, 4, 21, 30, 0, 0, time.UTC),
	}

	doc, err := ReflectionDocument(r, "alice")
	require.NoError(t, err)
	assert.Contains(t, string(doc), "# Daily review 2025-03-04")
	assert.Contains(t, string(doc), "## What didn't work\n\n_Nothing recorded._")

	html, meta, err := NewParser().ParseWithFrontmatter(doc)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-04", meta["date"])
	assert.Equal(t, "alice", meta["user"])
	assert.Equal(t, 7, meta["intentionality_score"])
	assert.Equal(t, "2025-03-04T21:30:00Z", meta["updated_at"])

	out := string(html)
	assert.NotContains(t, out, "intentionality_score")
	assert.Contains(t, out, "<strong>7/10</strong>")
	assert.Contains(t, out, "Start <em>early</em>")
}

func TestReflectionDocumentWithoutScore(t *testing.T) {
	doc, err := ReflectionDocument(&model.Reflection{Date: model.NewDate(2025, time.January, 9)}, "bob")
	require.NoError(t, err)

	_, meta, err := NewParser().ParseWithFrontmatter(doc)
	require.NoError(t, err)
	assert.NotContains(t, meta, "intentionality_score")
	assert.NotContains(t, string(doc), "Intentionality:")
}

func TestReflectionPath(t *testing.T) {
	assert.Equal(t, "u1/2025/2025-03-04.md", ReflectionPath("u1", model.NewDate(2025, time.March, 4)))
}
