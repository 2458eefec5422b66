// AngelaMos | 2026
// handler.go

package review

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/mediacat/internal/core"
	"github.com/carterperez-dev/mediacat/internal/middleware"
	"github.com/carterperez-dev/mediacat/internal/user"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts reviews and their comments under each title. Reads
// are public; any authenticated user may post, and the service decides who
// may edit or delete.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/titles/{titleID}/reviews", func(r chi.Router) {
		r.Get("/", h.ListReviews)
		r.Get("/{reviewID}", h.GetReview)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/", h.CreateReview)
			r.Patch("/{reviewID}", h.UpdateReview)
			r.Delete("/{reviewID}", h.DeleteReview)
		})

		r.Route("/{reviewID}/comments", func(r chi.Router) {
			r.Get("/", h.ListComments)
			r.Get("/{commentID}", h.GetComment)

			r.Group(func(r chi.Router) {
				r.Use(authenticator)

				r.Post("/", h.CreateComment)
				r.Patch("/{commentID}", h.UpdateComment)
				r.Delete("/{commentID}", h.DeleteComment)
			})
		})
	})
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := parsePathID(w, r, "titleID", "title")
	if !ok {
		return
	}

	params := listParamsFromQuery(r)

	reviews, total, err := h.service.ListReviews(r.Context(), titleID, params)
	if err != nil {
		core.MapError(w, err, "title")
		return
	}

	core.Paginated(
		w,
		ToReviewResponseList(reviews),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := parseReviewPath(w, r)
	if !ok {
		return
	}

	rev, err := h.service.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		core.MapError(w, err, "review")
		return
	}

	core.OK(w, ToReviewResponse(rev))
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := parsePathID(w, r, "titleID", "title")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rev, err := h.service.CreateReview(
		r.Context(), titleID, callerFromContext(r), req)
	if err != nil {
		core.MapError(w, err, "title")
		return
	}

	core.Created(w, ToReviewResponse(rev))
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := parseReviewPath(w, r)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rev, err := h.service.UpdateReview(
		r.Context(), titleID, reviewID, callerFromContext(r), req)
	if err != nil {
		core.MapError(w, err, "review")
		return
	}

	core.OK(w, ToReviewResponse(rev))
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := parseReviewPath(w, r)
	if !ok {
		return
	}

	err := h.service.DeleteReview(
		r.Context(), titleID, reviewID, callerFromContext(r))
	if err != nil {
		core.MapError(w, err, "review")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := parseReviewPath(w, r)
	if !ok {
		return
	}

	params := listParamsFromQuery(r)

	comments, total, err := h.service.ListComments(
		r.Context(), titleID, reviewID, params)
	if err != nil {
		core.MapError(w, err, "review")
		return
	}

	core.Paginated(
		w,
		ToCommentResponseList(comments),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, commentID, ok := parseCommentPath(w, r)
	if !ok {
		return
	}

	c, err := h.service.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		core.MapError(w, err, "comment")
		return
	}

	core.OK(w, ToCommentResponse(c))
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := parseReviewPath(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.CreateComment(
		r.Context(), titleID, reviewID, callerFromContext(r), req)
	if err != nil {
		core.MapError(w, err, "review")
		return
	}

	core.Created(w, ToCommentResponse(c))
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, commentID, ok := parseCommentPath(w, r)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.UpdateComment(
		r.Context(), titleID, reviewID, commentID, callerFromContext(r), req)
	if err != nil {
		core.MapError(w, err, "comment")
		return
	}

	core.OK(w, ToCommentResponse(c))
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, commentID, ok := parseCommentPath(w, r)
	if !ok {
		return
	}

	err := h.service.DeleteComment(
		r.Context(), titleID, reviewID, commentID, callerFromContext(r))
	if err != nil {
		core.MapError(w, err, "comment")
		return
	}

	core.NoContent(w)
}

func callerFromContext(r *http.Request) Caller {
	ctx := r.Context()
	return Caller{
		ID:       middleware.GetUserID(ctx),
		Username: middleware.GetUsername(ctx),
		Role:     user.Role(middleware.GetUserRole(ctx)),
	}
}

func parseReviewPath(
	w http.ResponseWriter,
	r *http.Request,
) (titleID, reviewID int64, ok bool) {
	titleID, ok = parsePathID(w, r, "titleID", "title")
	if !ok {
		return 0, 0, false
	}

	reviewID, ok = parsePathID(w, r, "reviewID", "review")
	if !ok {
		return 0, 0, false
	}

	return titleID, reviewID, true
}

func parseCommentPath(
	w http.ResponseWriter,
	r *http.Request,
) (titleID, reviewID, commentID int64, ok bool) {
	titleID, reviewID, ok = parseReviewPath(w, r)
	if !ok {
		return 0, 0, 0, false
	}

	commentID, ok = parsePathID(w, r, "commentID", "comment")
	if !ok {
		return 0, 0, 0, false
	}

	return titleID, reviewID, commentID, true
}

func parsePathID(
	w http.ResponseWriter,
	r *http.Request,
	param, resource string,
) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		core.NotFound(w, resource)
		return 0, false
	}
	return id, true
}

func listParamsFromQuery(r *http.Request) ListParams {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
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
