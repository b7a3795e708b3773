package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// CommentService manages employee notes on requests.
type CommentService struct {
	comments repository.RequestCommentRepository
	requests repository.RequestRepository
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.RequestCommentRepository, requests repository.RequestRepository) *CommentService {
	return &CommentService{comments: comments, requests: requests}
}

// AddComment records a note on a request.
func (s *CommentService) AddComment(ctx context.Context, requestID, employeeID int64, body string, internal bool) (*domain.RequestComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.NewValidation("comment body is required")
	}
	if len(body) > 2000 {
		return nil, apperr.NewValidation("comment body too long")
	}

	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("request %d not found", requestID))
		}
		return nil, apperr.From(err)
	}

	comment := &domain.RequestComment{
		RequestID:  requestID,
		EmployeeID: employeeID,
		Body:       body,
		Internal:   internal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperr.From(err)
	}
	return comment, nil
}

// ListComments returns notes for a request, newest first. When internal is
// non-nil only matching notes are returned.
func (s *CommentService) ListComments(ctx context.Context, requestID int64, internal *bool) ([]domain.RequestComment, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("request %d not found", requestID))
		}
		return nil, apperr.From(err)
	}
	comments, err := s.comments.ListByRequest(ctx, requestID, internal)
	if err != nil {
		return nil, apperr.From(err)
	}
	return comments, nil
}
