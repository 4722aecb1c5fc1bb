package listing

import "github.com/maicon-romano/arrivabene-advocacia-web/internal/models"

// Pager tracks the current search/category/page selection for a listing
// view. Changing the search term or the category resets the page to 1 so the
// reader never lands on a page that no longer exists for the new filter.
type Pager struct {
	search   string
	category string
	page     int
	pageSize int
}

func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{category: models.AllCategories, page: 1, pageSize: pageSize}
}

func (p *Pager) SetSearch(term string) {
	if term == p.search {
		return
	}
	p.search = term
	p.page = 1
}

func (p *Pager) SetCategory(category string) {
	if category == "" {
		category = models.AllCategories
	}
	if category == p.category {
		return
	}
	p.category = category
	p.page = 1
}

func (p *Pager) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	p.page = page
}

func (p *Pager) Page() int        { return p.page }
func (p *Pager) Search() string   { return p.search }
func (p *Pager) Category() string { return p.category }

// View computes the current projection of posts. Pages past the end are
// clamped by Paginate, and the clamped value becomes the pager's page.
func (p *Pager) View(posts []models.Post) View {
	v := Query(posts, p.search, p.category, p.page, p.pageSize)
	p.page = v.Page
	return v
}
