// AngelaMos | 2026
// dto.go

package catalog

import "math"

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type CreateTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required"`
	Description *string  `json:"description" validate:"omitempty,max=256"`
	Category    string   `json:"category" validate:"omitempty,max=50,slug"`
	Genre       []string `json:"genre" validate:"omitempty,dive,max=50,slug"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=256"`
	Year        *int      `json:"year" validate:"omitempty"`
	Description *string   `json:"description" validate:"omitempty,max=256"`
	Category    *string   `json:"category" validate:"omitempty,max=50,slug"`
	Genre       *[]string `json:"genre" validate:"omitempty,dive,max=50,slug"`
}

type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TitleFilter holds the query parameters of the title list endpoint. All
// present filters must match at once.
type TitleFilter struct {
	Name     string
	Year     *int
	Category string
	Genre    string
	Page     int
	PageSize int
}

func (f *TitleFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}

func (f TitleFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func ToCategoryResponse(c *Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}

func ToCategoryResponseList(categories []Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}

func ToGenreResponse(g *Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}

func ToGenreResponseList(genres []Genre) []GenreResponse {
	out := make([]GenreResponse, len(genres))
	for i := range genres {
		out[i] = ToGenreResponse(&genres[i])
	}
	return out
}

func ToTitleResponse(t *Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      RoundRating(t.Rating),
		Description: t.Description,
		Genre:       ToGenreResponseList(t.Genres),
	}

	if resp.Genre == nil {
		resp.Genre = []GenreResponse{}
	}
	if t.Category != nil {
		c := ToCategoryResponse(t.Category)
		resp.Category = &c
	}

	return resp
}

func ToTitleResponseList(titles []Title) []TitleResponse {
	out := make([]TitleResponse, len(titles))
	for i := range titles {
		out[i] = ToTitleResponse(&titles[i])
	}
	return out
}

// RoundRating rounds an average score to one decimal place, ties to even.
// A title with no reviews has no rating at all, so nil passes through.
func RoundRating(avg *float64) *float64 {
	if avg == nil {
		return nil
	}

	rounded := math.RoundToEven(*avg*10) / 10
	return &rounded
}
