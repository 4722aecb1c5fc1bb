// Package listing projects the full post collection into the filtered,
// sorted, paginated view the blog pages render. Everything here is a pure
// function of its inputs so a view can be re-derived from scratch on every
// request.
package listing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/models"
)

// DefaultPageSize is the number of posts per listing page.
const DefaultPageSize = 6

// View is the computed projection for one page.
type View struct {
	Posts      []models.Post `json:"data"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total"`
}

// Filter returns the posts matching the search term and category, sorted by
// creation time descending (id descending on ties). A post matches when its
// category equals the selected one (or the selection is the sentinel) and
// the search term, if any, is a case-insensitive substring of the title,
// excerpt, or tag-stripped content.
func Filter(posts []models.Post, search, category string) []models.Post {
	term := strings.ToLower(strings.TrimSpace(search))

	matched := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if category != "" && category != models.AllCategories && post.Category != category {
			continue
		}
		if term != "" && !matches(post, term) {
			continue
		}
		matched = append(matched, post)
	}
	sortByRecency(matched)
	return matched
}

func matches(post models.Post, term string) bool {
	return strings.Contains(strings.ToLower(post.Title), term) ||
		strings.Contains(strings.ToLower(post.Excerpt), term) ||
		strings.Contains(strings.ToLower(StripTags(post.Content)), term)
}

func sortByRecency(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return laterID(posts[i].ID, posts[j].ID)
	})
}

// laterID orders ids descending, numerically when both parse as integers so
// that "10" sorts after "9".
func laterID(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	if errA == nil && errB == nil {
		return na > nb
	}
	return a > b
}

// Paginate slices an already filtered and sorted sequence into the requested
// page. The page number is clamped into [1, totalPages]; an empty input
// yields zero pages and page 1.
func Paginate(posts []models.Post, page, pageSize int) View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(posts)
	totalPages := (total + pageSize - 1) / pageSize

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		return View{Posts: []models.Post{}, Page: 1, TotalPages: 0, Total: 0}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	return View{Posts: posts[start:end], Page: page, TotalPages: totalPages, Total: total}
}

// Query computes the view for one search/category/page combination.
func Query(posts []models.Post, search, category string, page, pageSize int) View {
	return Paginate(Filter(posts, search, category), page, pageSize)
}

// StripTags removes HTML markup so that searches match visible text rather
// than literal tag names or attributes.
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			// Keep words on either side of a tag from running together.
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
