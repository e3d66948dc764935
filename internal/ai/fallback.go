package ai

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var narrativeTemplates = map[string]string{
	"handicraft": "Once upon a time, a skilled artisan carefully crafted this beautiful piece. %s This creation tells a story of tradition, patience, and the artisan's dedication to preserving cultural heritage. Each detail reflects hours of meticulous work and a deep connection to ancient techniques passed down through generations.",
	"jewelry":    "In the heart of a bustling marketplace, this exquisite piece was born. %s The artisan's hands moved with precision, creating something that would become a treasured heirloom. This piece carries the essence of elegance and the promise of countless special moments to come.",
	"textile":    "From thread to treasure, this textile piece weaves its own story. %s The artisan's loom sang a song of creativity as each thread was carefully placed, creating patterns that speak of culture, tradition, and artistic vision. This piece is more than fabric - it's a canvas of human expression.",
	"pottery":    "From clay to creation, this pottery piece holds ancient wisdom. %s The artisan's hands shaped not just clay, but dreams and aspirations. Each curve and line tells of the earth's gifts transformed by human skill into something both functional and beautiful.",
	"woodwork":   "From forest to furniture, this wooden piece carries nature's spirit. %s The artisan's tools carved away the unnecessary, revealing the wood's hidden beauty. This creation bridges the gap between nature and human craftsmanship, creating something that will age gracefully with time.",
}

const defaultNarrative = "This remarkable piece tells a unique story. %s Crafted with care and passion, it represents the artisan's dedication to their craft and the beauty that emerges when skill meets creativity."

// FallbackNarrative fills the category template with the description verbatim.
func FallbackNarrative(description, category, authorName string) string {
	tmpl, ok := narrativeTemplates[category]
	if !ok {
		tmpl = defaultNarrative
	}
	story := strings.Replace(tmpl, "%s", description, 1)
	if authorName != "" {
		story = "Crafted by the skilled hands of " + authorName + ", " + lowerFirst(story)
	}
	return story
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

var languageNames = map[string]string{
	"hi": "Hindi",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"zh": "Chinese",
	"ja": "Japanese",
	"ar": "Arabic",
	"pt": "Portuguese",
}

// LanguageName maps a code to its display name; unknown codes are returned as is.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// FallbackTranslate does not translate. It marks the text with the intended language.
func FallbackTranslate(text, target string) string {
	return fmt.Sprintf("[Translated to %s] %s", LanguageName(target), text)
}

type Suggestion struct {
	ProductID int64   `json:"product_id"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
}

// FallbackSuggestions is a fixed list that ignores its input.
func FallbackSuggestions() []Suggestion {
	return []Suggestion{
		{ProductID: 1, Score: 0.95, Reason: "Matches your jewelry preferences"},
		{ProductID: 2, Score: 0.88, Reason: "Similar to products you've viewed"},
		{ProductID: 3, Score: 0.82, Reason: "Popular in your region"},
		{ProductID: 4, Score: 0.78, Reason: "New artisan with great reviews"},
		{ProductID: 5, Score: 0.75, Reason: "Trending in your category"},
		{ProductID: 6, Score: 0.72, Reason: "Matches your style preferences"},
	}
}
