// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/mediacat/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateCategory(
	ctx context.Context,
	req CreateCategoryRequest,
) (*Category, error) {
	c := &Category{Name: req.Name, Slug: req.Slug}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, mapSlugDuplicate(err, "category")
	}

	return c, nil
}

func (s *Service) ListCategories(
	ctx context.Context,
	params ListParams,
) ([]Category, int, error) {
	return s.repo.ListCategories(ctx, params)
}

func (s *Service) DeleteCategory(ctx context.Context, slug string) error {
	return s.repo.DeleteCategoryBySlug(ctx, slug)
}

func (s *Service) CreateGenre(
	ctx context.Context,
	req CreateGenreRequest,
) (*Genre, error) {
	g := &Genre{Name: req.Name, Slug: req.Slug}

	if err := s.repo.CreateGenre(ctx, g); err != nil {
		return nil, mapSlugDuplicate(err, "genre")
	}

	return g, nil
}

func (s *Service) ListGenres(
	ctx context.Context,
	params ListParams,
) ([]Genre, int, error) {
	return s.repo.ListGenres(ctx, params)
}

func (s *Service) DeleteGenre(ctx context.Context, slug string) error {
	return s.repo.DeleteGenreBySlug(ctx, slug)
}

func (s *Service) CreateTitle(
	ctx context.Context,
	req CreateTitleRequest,
) (*Title, error) {
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	t := &Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
	}

	if err := s.repo.CreateTitle(ctx, t, genreIDs(genres)); err != nil {
		return nil, err
	}

	return s.repo.GetTitle(ctx, t.ID)
}

func (s *Service) GetTitle(ctx context.Context, id int64) (*Title, error) {
	return s.repo.GetTitle(ctx, id)
}

func (s *Service) UpdateTitle(
	ctx context.Context,
	id int64,
	req UpdateTitleRequest,
) (*Title, error) {
	t, err := s.repo.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		t.Year = *req.Year
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		t.CategoryID = categoryID
	}

	var newGenreIDs *[]int64
	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
		ids := genreIDs(genres)
		newGenreIDs = &ids
	}

	if err := s.repo.UpdateTitle(ctx, t, newGenreIDs); err != nil {
		return nil, err
	}

	return s.repo.GetTitle(ctx, id)
}

func (s *Service) DeleteTitle(ctx context.Context, id int64) error {
	return s.repo.DeleteTitle(ctx, id)
}

func (s *Service) ListTitles(
	ctx context.Context,
	filter TitleFilter,
) ([]Title, int, error) {
	return s.repo.ListTitles(ctx, filter)
}

// resolveCategory maps a slug from a title payload to a category id. An
// unknown slug is the client's mistake, not a missing resource.
func (s *Service) resolveCategory(
	ctx context.Context,
	slug string,
) (*int64, error) {
	if slug == "" {
		return nil, nil
	}

	c, err := s.repo.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf(
			"unknown category slug %q: %w", slug, core.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	return &c.ID, nil
}

func (s *Service) resolveGenres(
	ctx context.Context,
	slugs []string,
) ([]Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	genres, err := s.repo.GetGenresBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, fmt.Errorf(
				"unknown genre slug %q: %w", slug, core.ErrInvalidInput)
		}
	}

	return genres, nil
}

func validateYear(year int) error {
	if year > time.Now().Year() {
		return fmt.Errorf(
			"year must not be later than the current year: %w",
			core.ErrInvalidInput,
		)
	}
	return nil
}

func genreIDs(genres []Genre) []int64 {
	ids := make([]int64, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	return ids
}

func mapSlugDuplicate(err error, resource string) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return fmt.Errorf(
			"%s slug already exists: %w", resource, core.ErrAlreadyExists)
	}
	return err
}
