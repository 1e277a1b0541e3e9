package generator

import (
	"strings"
	"text/template"

	"repurposer/internal/models"
)

const systemPrompt = `You are a content writer for Brightdock, a company that teaches people how to create AI-generated images and videos. Your job is to transform technical research papers into engaging, accessible blog posts.

## Your Writing Style:
- **Tone:** Educational but conversational, enthusiastic about AI possibilities
- **Audience:** Creators, artists, and enthusiasts learning AI image/video tools
- **Avoid:** Overly academic jargon, hype without substance, clickbait
- **Include:** Practical examples, relatable analogies, actionable insights
- **Perspective:** "We're exploring this together" - guide, not lecturer

## Important Guidelines:
1. Make complex concepts accessible without dumbing them down
2. Always connect research to practical applications for creators
3. Use analogies that relate to art, photography, or video production
4. Highlight what's genuinely exciting without overpromising
5. Include specific, actionable takeaways readers can use`

var blogTemplate = template.Must(template.New("blog").Parse(`Based on the following research paper, write a blog post for Brightdock's audience.

## Research Paper Details:
**Title:** {{.Title}}
**Authors:** {{.Authors}}
**Source:** {{.Source}}
**URL:** {{.URL}}

**Abstract/Summary:**
{{.Summary}}

---

## Your Task:
Create a blog post (800-1200 words) with the following structure:

# [Create an engaging title that would appeal to AI creators]

**Meta Description:** [Write a 150-160 character SEO summary]

**Target Keywords:** [List 3-5 relevant keywords]

---

## Introduction
[Hook the reader - why this matters for AI creators. 2-3 paragraphs]

## What the Research Shows
[Summarize the key findings in accessible language. 3-4 paragraphs]

## Practical Applications
[How can Brightdock students/users apply this? 2-3 paragraphs]

## Key Takeaways
- [Actionable insight 1]
- [Actionable insight 2]
- [Actionable insight 3]

## What's Next
[Forward-looking conclusion. 1-2 paragraphs]

---

**Source:** [{{.Title}}]({{.URL}})
**Generated:** {{.Date}}

Write the complete blog post now:`))

type promptData struct {
	Title   string
	Authors string
	Source  string
	URL     string
	Summary string
	Date    string
}

// FormatAuthors joins at most MaxAuthors names with ", " and appends
// " et al." when the list is longer. A trailing et al. marker stored by the
// fetcher counts as an extra entry.
func FormatAuthors(authors []string) string {
	if len(authors) <= models.MaxAuthors {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:models.MaxAuthors], ", ") + " et al."
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func renderPrompt(a models.Article, date string) (string, error) {
	var b strings.Builder
	err := blogTemplate.Execute(&b, promptData{
		Title:   orDefault(a.Title, "Untitled"),
		Authors: FormatAuthors(a.Authors),
		Source:  orDefault(a.Source, "Unknown"),
		URL:     a.URL,
		Summary: orDefault(a.Summary, "No summary available"),
		Date:    date,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
