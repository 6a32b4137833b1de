package kickstarters

import "strings"

// Placeholder is replaced by the business name when a question is rendered.
const Placeholder = "[Business Name]"

// Item is one kickstarter question in the catalog.
type Item struct {
	ID        string   `json:"id" db:"id"`
	Question  string   `json:"question" db:"question"`
	Category  Category `json:"category" db:"category"`
	IsDefault bool     `json:"is_default" db:"is_default"`
}

// Render substitutes every placeholder in the item's question with businessName,
// exactly as given. A question without a placeholder is returned unchanged. An
// empty business name leaves the placeholder in place so the preview still
// reads sensibly.
func Render(item Item, businessName string) string {
	if businessName == "" || !strings.Contains(item.Question, Placeholder) {
		return item.Question
	}
	return strings.ReplaceAll(item.Question, Placeholder, businessName)
}
