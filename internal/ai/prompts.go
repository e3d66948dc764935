package ai

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ariefcatur/go-artisan-market/internal/market"
)

const narrativeSystem = "You write product stories for an online marketplace of handmade goods."

func narrativePrompt(description, category, authorName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a compelling, creative story for a handmade %s product with the following description:\n", category)
	fmt.Fprintf(&b, "%q\n\n", description)
	b.WriteString("The story should:\n")
	b.WriteString("- Be engaging and emotional\n")
	b.WriteString("- Highlight the craftsmanship and tradition\n")
	b.WriteString("- Be 2-3 paragraphs long\n")
	b.WriteString("- Include cultural elements if appropriate\n")
	b.WriteString("- Make the product feel special and unique\n")
	if authorName != "" {
		fmt.Fprintf(&b, "\nCrafted by: %s\n", authorName)
	}
	b.WriteString("\nStory:")
	return b.String()
}

const suggestSystem = `You rank marketplace products for a buyer. Reply with a JSON array only, ` +
	`each element {"product_id": <int>, "score": <0..1>, "reason": "<short reason>"}, best first.`

func suggestPrompt(buyerID int64, preferences string, history []market.ViewedProduct) string {
	h, _ := json.Marshal(history)
	return fmt.Sprintf("Based on the following user data, provide product recommendations:\n"+
		"User ID: %d\nPreferences: %s\nInteraction History: %s\n\n"+
		"Recommend products that match the user's interests and preferences.\n"+
		"Focus on categories and styles that align with their behavior.", buyerID, preferences, h)
}

// parseSuggestions accepts a bare JSON array, optionally wrapped in a markdown code fence.
func parseSuggestions(text string) ([]Suggestion, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out []Suggestion
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	valid := out[:0]
	for _, s := range out {
		if s.ProductID > 0 {
			valid = append(valid, s)
		}
	}
	return valid, nil
}
