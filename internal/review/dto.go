// AngelaMos | 2026
// dto.go

package review

import "time"

type CreateReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score *int   `json:"score" validate:"required,min=0,max=10"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text" validate:"omitempty"`
	Score *int    `json:"score" validate:"omitempty,min=0,max=10"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text" validate:"omitempty"`
}

type ListParams struct {
	Page     int
	PageSize int
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

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

func ToReviewResponse(rev *Review) ReviewResponse {
	return ReviewResponse{
		ID:      rev.ID,
		Author:  rev.AuthorUsername,
		Text:    rev.Text,
		Score:   rev.Score,
		PubDate: rev.PubDate,
	}
}

func ToReviewResponseList(reviews []Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = ToReviewResponse(&reviews[i])
	}
	return out
}

func ToCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Author:  c.AuthorUsername,
		Text:    c.Text,
		PubDate: c.PubDate,
	}
}

func ToCommentResponseList(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = ToCommentResponse(&comments[i])
	}
	return out
}
