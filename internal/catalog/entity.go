// AngelaMos | 2026
// entity.go

package catalog

type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

type Genre struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

type Title struct {
	ID          int64    `db:"id"`
	Name        string   `db:"name"`
	Year        int      `db:"year"`
	Description *string  `db:"description"`
	CategoryID  *int64   `db:"category_id"`
	Rating      *float64 `db:"rating"`

	Category *Category `db:"-"`
	Genres   []Genre   `db:"-"`
}
