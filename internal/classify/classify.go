// Package classify keeps articles that mention policing and labels them with a coarse category.
package classify

import (
	"log/slog"
	"strings"

	"github.com/crucial707/district-digest/internal/models"
)

// Keywords an article must mention (in title or description) to be kept.
var Keywords = []string{
	"crime", "police", "arrest", "theft", "robbery", "assault",
	"public noise", "disturbance", "investigation",
}

// Rule assigns Category when Match is found in the lower-cased text.
type Rule struct {
	Match    string
	Category models.Category
}

// Rules are evaluated in order; the first match wins.
var Rules = []Rule{
	{Match: "theft", Category: models.CategoryTheft},
	{Match: "noise", Category: models.CategoryPublicNoise},
}

// Default is the category when no rule matches.
const Default = models.CategoryCrime

func text(a models.Article) string {
	return strings.ToLower(a.Title + " " + a.Description)
}

// Relevant reports whether the lower-cased text mentions any policing keyword.
func Relevant(content string) bool {
	for _, kw := range Keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}

// Categorize applies Rules to the lower-cased text.
func Categorize(content string) models.Category {
	for _, r := range Rules {
		if strings.Contains(content, r.Match) {
			return r.Category
		}
	}
	return Default
}

// Classify drops irrelevant articles and labels the rest, preserving input order.
// A panic while classifying is logged and yields an empty result.
func Classify(articles []models.Article, district string) (out []models.ClassifiedArticle) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("classifying articles failed", "district", district, "panic", rec)
			out = []models.ClassifiedArticle{}
		}
	}()

	out = make([]models.ClassifiedArticle, 0, len(articles))
	for _, a := range articles {
		content := text(a)
		if !Relevant(content) {
			continue
		}
		out = append(out, models.ClassifiedArticle{
			Article:  a,
			Category: Categorize(content),
			District: district,
		})
	}
	return out
}
