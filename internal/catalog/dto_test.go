// AngelaMos | 2026
// dto_test.go

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRating(t *testing.T) {
	tests := []struct {
		name string
		avg  *float64
		want *float64
	}{
		{"no reviews", nil, nil},
		{"exact", ptr(7.0), ptr(7.0)},
		{"rounds down", ptr(7.3333333), ptr(7.3)},
		{"rounds up", ptr(8.6666666), ptr(8.7)},
		{"half rounds to even, down", ptr(4.25), ptr(4.2)},
		{"half rounds to even, up", ptr(8.75), ptr(8.8)},
		{"zero average", ptr(0.0), ptr(0.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundRating(tt.avg)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestToTitleResponse(t *testing.T) {
	desc := "a movie"
	title := &Title{
		ID:          42,
		Name:        "The Thing",
		Year:        1982,
		Description: &desc,
		Rating:      ptr(8.5499999),
		Category: &Category{
			ID: 1, Name: "Movies", Slug: "movies",
		},
		Genres: []Genre{
			{ID: 1, Name: "Horror", Slug: "horror"},
		},
	}

	resp := ToTitleResponse(title)

	assert.Equal(t, int64(42), resp.ID)
	require.NotNil(t, resp.Rating)
	assert.InDelta(t, 8.5, *resp.Rating, 1e-9)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "movies", resp.Category.Slug)
	require.Len(t, resp.Genre, 1)
	assert.Equal(t, "horror", resp.Genre[0].Slug)
}

func TestToTitleResponseEmptyRelations(t *testing.T) {
	resp := ToTitleResponse(&Title{ID: 1, Name: "Lonely", Year: 2000})

	assert.Nil(t, resp.Rating)
	assert.Nil(t, resp.Category)
	assert.NotNil(t, resp.Genre, "genre serializes as [] rather than null")
	assert.Empty(t, resp.Genre)
}

func ptr(f float64) *float64 {
	return &f
}
