// AngelaMos | 2026
// handler.go

package catalog

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/mediacat/internal/core"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // registration only fails for a nil function
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return &Handler{service: service, validator: v}
}

// RegisterRoutes mounts the catalog. Reads are open to everyone; writes
// require the admin role.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(authenticator, adminOnly)

			r.Post("/", h.CreateCategory)
			r.Delete("/{slug}", h.DeleteCategory)
		})
	})

	r.Route("/genres", func(r chi.Router) {
		r.Get("/", h.ListGenres)

		r.Group(func(r chi.Router) {
			r.Use(authenticator, adminOnly)

			r.Post("/", h.CreateGenre)
			r.Delete("/{slug}", h.DeleteGenre)
		})
	})

	// Titles are registered path by path so the review package can mount
	// its nested routes under /titles/{titleID}.
	r.Get("/titles", h.ListTitles)
	r.Get("/titles/{titleID}", h.GetTitle)

	admin := r.With(authenticator, adminOnly)
	admin.Post("/titles", h.CreateTitle)
	admin.Patch("/titles/{titleID}", h.UpdateTitle)
	admin.Delete("/titles/{titleID}", h.DeleteTitle)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	categories, total, err := h.service.ListCategories(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToCategoryResponseList(categories),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		core.MapError(w, err, "category")
		return
	}

	core.Created(w, ToCategoryResponse(c))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.DeleteCategory(r.Context(), slug); err != nil {
		core.MapError(w, err, "category")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	genres, total, err := h.service.ListGenres(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToGenreResponseList(genres),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req CreateGenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	g, err := h.service.CreateGenre(r.Context(), req)
	if err != nil {
		core.MapError(w, err, "genre")
		return
	}

	core.Created(w, ToGenreResponse(g))
}

func (h *Handler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.DeleteGenre(r.Context(), slug); err != nil {
		core.MapError(w, err, "genre")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := TitleFilter{
		Name:     q.Get("name"),
		Category: q.Get("category"),
		Genre:    q.Get("genre"),
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			core.BadRequest(w, "year must be an integer")
			return
		}
		filter.Year = &year
	}

	filter.Normalize()

	titles, total, err := h.service.ListTitles(r.Context(), filter)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToTitleResponseList(titles),
		filter.Page,
		filter.PageSize,
		total,
	)
}

func (h *Handler) GetTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTitleID(w, r)
	if !ok {
		return
	}

	t, err := h.service.GetTitle(r.Context(), id)
	if err != nil {
		core.MapError(w, err, "title")
		return
	}

	core.OK(w, ToTitleResponse(t))
}

func (h *Handler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req CreateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.CreateTitle(r.Context(), req)
	if err != nil {
		core.MapError(w, err, "title")
		return
	}

	core.Created(w, ToTitleResponse(t))
}

func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTitleID(w, r)
	if !ok {
		return
	}

	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.UpdateTitle(r.Context(), id, req)
	if err != nil {
		core.MapError(w, err, "title")
		return
	}

	core.OK(w, ToTitleResponse(t))
}

func (h *Handler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTitleID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTitle(r.Context(), id); err != nil {
		core.MapError(w, err, "title")
		return
	}

	core.NoContent(w)
}

// parseTitleID treats a non-numeric id the same as an id that matches no
// row. A malformed path is not a validation problem.
func parseTitleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "titleID"), 10, 64)
	if err != nil {
		core.NotFound(w, "title")
		return 0, false
	}
	return id, true
}

func listParamsFromQuery(r *http.Request) ListParams {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
	params.Normalize()
	return params
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
