// AngelaMos | 2026
// service_test.go

package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/mediacat/internal/core"
)

type fakeRepo struct {
	Repository

	categories map[string]*Category
	genres     map[string]*Genre
	titles     map[int64]*Title
	nextID     int64
	lastGenres []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories: make(map[string]*Category),
		genres:     make(map[string]*Genre),
		titles:     make(map[int64]*Title),
		nextID:     1,
	}
}

func (f *fakeRepo) GetCategoryBySlug(
	_ context.Context,
	slug string,
) (*Category, error) {
	if c, ok := f.categories[slug]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
}

func (f *fakeRepo) GetGenresBySlugs(
	_ context.Context,
	slugs []string,
) ([]Genre, error) {
	var out []Genre
	for _, slug := range slugs {
		if g, ok := f.genres[slug]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateTitle(
	_ context.Context,
	t *Title,
	genreIDs []int64,
) error {
	t.ID = f.nextID
	f.nextID++
	f.titles[t.ID] = t
	f.lastGenres = genreIDs
	return nil
}

func (f *fakeRepo) GetTitle(_ context.Context, id int64) (*Title, error) {
	if t, ok := f.titles[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("get title: %w", core.ErrNotFound)
}

func (f *fakeRepo) UpdateTitle(
	_ context.Context,
	t *Title,
	genreIDs *[]int64,
) error {
	if _, ok := f.titles[t.ID]; !ok {
		return fmt.Errorf("update title: %w", core.ErrNotFound)
	}
	f.titles[t.ID] = t
	if genreIDs != nil {
		f.lastGenres = *genreIDs
	}
	return nil
}

func TestCreateTitleYearValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	currentYear := time.Now().Year()

	tests := []struct {
		name    string
		year    int
		wantErr bool
	}{
		{"current year is allowed", currentYear, false},
		{"past year is allowed", 1925, false},
		{"next year is rejected", currentYear + 1, true},
		{"far future is rejected", currentYear + 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTitle(context.Background(), CreateTitleRequest{
				Name: "Something",
				Year: tt.year,
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, core.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateTitleUnknownCategorySlug(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateTitle(context.Background(), CreateTitleRequest{
		Name:     "Something",
		Year:     1999,
		Category: "does-not-exist",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.NotErrorIs(t, err, core.ErrNotFound,
		"an unknown slug in the payload is a client error, not a 404")
}

func TestCreateTitleUnknownGenreSlug(t *testing.T) {
	repo := newFakeRepo()
	repo.genres["horror"] = &Genre{ID: 1, Name: "Horror", Slug: "horror"}
	svc := NewService(repo)

	_, err := svc.CreateTitle(context.Background(), CreateTitleRequest{
		Name:  "Something",
		Year:  1999,
		Genre: []string{"horror", "nope"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Contains(t, err.Error(), "nope")
}

func TestCreateTitleResolvesRelations(t *testing.T) {
	repo := newFakeRepo()
	repo.categories["movies"] = &Category{ID: 7, Name: "Movies", Slug: "movies"}
	repo.genres["horror"] = &Genre{ID: 3, Name: "Horror", Slug: "horror"}
	svc := NewService(repo)

	created, err := svc.CreateTitle(context.Background(), CreateTitleRequest{
		Name:     "The Thing",
		Year:     1982,
		Category: "movies",
		Genre:    []string{"horror"},
	})
	require.NoError(t, err)

	require.NotNil(t, created.CategoryID)
	assert.Equal(t, int64(7), *created.CategoryID)
	assert.Equal(t, []int64{3}, repo.lastGenres)
}

func TestUpdateTitleReplacesGenresOnlyWhenGiven(t *testing.T) {
	repo := newFakeRepo()
	repo.genres["drama"] = &Genre{ID: 9, Name: "Drama", Slug: "drama"}
	repo.titles[1] = &Title{ID: 1, Name: "Old", Year: 1990}
	repo.nextID = 2
	svc := NewService(repo)

	name := "New"
	_, err := svc.UpdateTitle(context.Background(), 1, UpdateTitleRequest{
		Name: &name,
	})
	require.NoError(t, err)
	assert.Nil(t, repo.lastGenres, "genres untouched when field absent")

	genres := []string{"drama"}
	_, err = svc.UpdateTitle(context.Background(), 1, UpdateTitleRequest{
		Genre: &genres,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, repo.lastGenres)
}
