// Package trivia provides question sources for quizzes: the Open Trivia DB
// HTTP API and an LLM-backed generator, plus the category catalog.
package trivia

import (
	"slices"
	"strconv"
)

// Category is a question bank category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AllCategories labels the absence of a category filter.
const AllCategories = "All Categories"

// DefaultCategories is used when the category list cannot be fetched.
var DefaultCategories = []Category{
	{ID: 9, Name: "General Knowledge"},
	{ID: 17, Name: "Science & Nature"},
	{ID: 18, Name: "Computers"},
	{ID: 23, Name: "History"},
	{ID: 21, Name: "Sports"},
	{ID: 22, Name: "Geography"},
	{ID: 11, Name: "Film"},
	{ID: 12, Name: "Music"},
}

// Catalog is an ordered list of categories.
type Catalog []Category

// DefaultCatalog returns a copy of DefaultCategories.
func DefaultCatalog() Catalog {
	return slices.Clone(DefaultCategories)
}

// Name returns the display name for id. nil means all categories. Unknown
// ids fall back to the built-in names, then to "Category N".
func (c Catalog) Name(id *int) string {
	if id == nil {
		return AllCategories
	}
	for _, cat := range c {
		if cat.ID == *id {
			return cat.Name
		}
	}
	for _, cat := range DefaultCategories {
		if cat.ID == *id {
			return cat.Name
		}
	}
	return "Category " + strconv.Itoa(*id)
}

// Next returns the category after current, cycling through "all" (nil).
// step is +1 or -1.
func (c Catalog) Next(current *int, step int) *int {
	if len(c) == 0 {
		return nil
	}
	// Position 0 is "all", 1..len(c) are the categories.
	pos := 0
	if current != nil {
		for i, cat := range c {
			if cat.ID == *current {
				pos = i + 1
				break
			}
		}
	}
	n := len(c) + 1
	pos = ((pos+step)%n + n) % n
	if pos == 0 {
		return nil
	}
	id := c[pos-1].ID
	return &id
}
