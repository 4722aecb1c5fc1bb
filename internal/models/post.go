package models

import (
	"fmt"
	"time"
)

// Category sentinels. AllCategories is the "no filter" value used by listing
// queries and is never stored on a post. FallbackCategory receives the posts
// of any category that gets deleted.
const (
	AllCategories    = "Todos"
	FallbackCategory = "Outros"
)

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	ReadTime  string    `json:"read_time"`
	CreatedAt time.Time `json:"created_at"`
}

// PostPatch carries a partial update. Nil fields are left untouched.
// ID and CreatedAt are deliberately absent: identity and creation time are
// immutable once set.
type PostPatch struct {
	Title    *string `json:"title"`
	Excerpt  *string `json:"excerpt"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
	Author   *string `json:"author"`
	Category *string `json:"category"`
	ReadTime *string `json:"read_time"`
}

// Apply copies the non-nil patch fields onto p.
func (patch PostPatch) Apply(p *Post) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.ReadTime != nil {
		p.ReadTime = *patch.ReadTime
	}
}

// EstimateReadTime derives the display read time from content length,
// assuming roughly 200 words per minute.
func EstimateReadTime(content string) string {
	words := 0
	inWord := false
	for _, r := range content {
		switch {
		case r == ' ' || r == '\n' || r == '\t' || r == '\r':
			inWord = false
		case !inWord:
			inWord = true
			words++
		}
	}
	minutes := words / 200
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min de leitura", minutes)
}
