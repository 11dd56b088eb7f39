// Package heuristic implements the local provider that tailors a résumé from
// keyword frequencies in the job description. It never fails.
package heuristic

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/spigell/resume-tailor/internal/ai"
)

const (
	providerName = "heuristic"
	topTokens    = 5
	minTokenLen  = 4

	experienceBullet = "Tailored this résumé automatically from keywords in the job description."
)

// vocabulary holds the domain terms searched for in descriptions, in the
// order they are reported.
var vocabulary = []string{
	"Selenium", "Java", "Python", "API", "REST", "Postman", "Jenkins", "CI/CD",
	"Cypress", "Playwright", "TestNG", "JUnit", "Cucumber", "Appium", "SQL",
	"Git", "Docker", "Kubernetes", "AWS", "Jira", "Agile", "Automation", "JMeter",
}

var stopWords = map[string]struct{}{
	"with": {}, "that": {}, "this": {}, "from": {}, "have": {}, "will": {},
	"your": {}, "their": {}, "they": {}, "them": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "about": {}, "into": {}, "than": {},
	"then": {}, "there": {}, "these": {}, "those": {}, "were": {}, "been": {},
	"being": {}, "also": {}, "such": {}, "must": {}, "should": {}, "would": {},
	"could": {}, "able": {}, "work": {}, "working": {}, "experience": {},
	"years": {}, "team": {}, "role": {}, "looking": {}, "skills": {},
	"strong": {}, "good": {}, "knowledge": {}, "including": {}, "across": {},
}

// Provider is the terminal provider of every chain.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return providerName }

func (p *Provider) Generate(_ context.Context, req ai.Request) ai.Outcome {
	skills := Skills(req.JobDescription)

	return ai.Succeeded(ai.TailorUpdate{
		Summary:           fmt.Sprintf("Tailored for %s — highlights: %s", strings.TrimSpace(req.JobTitle), strings.Join(skills, ", ")),
		Skills:            skills,
		ExperienceUpdates: []string{experienceBullet},
	})
}

// Skills returns the vocabulary terms found in the description followed by
// its most frequent tokens, without duplicates and capped at ai.MaxEntries.
func Skills(description string) []string {
	lowered := strings.ToLower(description)

	skills := make([]string, 0, ai.MaxEntries)
	seen := make(map[string]struct{})
	add := func(skill string) {
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok || len(skills) >= ai.MaxEntries {
			return
		}
		seen[key] = struct{}{}
		skills = append(skills, skill)
	}

	for _, term := range vocabulary {
		if strings.Contains(lowered, strings.ToLower(term)) {
			add(term)
		}
	}
	for _, token := range TopTokens(description, topTokens) {
		add(token)
	}

	return skills
}

// TopTokens returns up to n of the most frequent description tokens. Ties are
// ordered by first occurrence.
func TopTokens(description string, n int) []string {
	type stat struct {
		token string
		count int
		first int
	}

	stats := make(map[string]*stat)
	order := 0
	for _, field := range strings.Fields(strings.ToLower(description)) {
		token := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(token)) < minTokenLen {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if s, ok := stats[token]; ok {
			s.count++
			continue
		}
		stats[token] = &stat{token: token, count: 1, first: order}
		order++
	}

	ranked := make([]*stat, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	tokens := make([]string, 0, len(ranked))
	for _, s := range ranked {
		tokens = append(tokens, s.token)
	}
	return tokens
}
