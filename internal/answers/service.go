package answers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/policy"
)

var (
	// ErrValidation is returned when the answer body is empty on create.
	ErrValidation = errors.New("answer content is required")
	// ErrQuestionNotFound is returned when the referenced question does not
	// resolve.
	ErrQuestionNotFound = errors.New("question not found")
)

// QuestionChecker reports whether a question id resolves to an existing
// question; satisfied by the questions repository/service.
type QuestionChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service implements the answer operations on top of a Repository.
type Service struct {
	repo      Repository
	questions QuestionChecker
}

func NewService(repo Repository, questions QuestionChecker) *Service {
	return &Service{repo: repo, questions: questions}
}

// Create persists a new answer for the question, owned by the caller. The
// question must exist at creation time.
func (s *Service) Create(ctx context.Context, questionID, content string, ident models.Identity) (*Answer, error) {
	ok, err := s.questions.Exists(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("check question: %w", err)
	}
	if !ok {
		return nil, ErrQuestionNotFound
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrValidation
	}
	a := &Answer{QuestionID: questionID, Answer: content, CreatedBy: ident.UserID}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}
	return a, nil
}

// ListByQuestion returns the question's answers newest-first; the question
// itself must exist.
func (s *Service) ListByQuestion(ctx context.Context, questionID string) ([]*Answer, error) {
	ok, err := s.questions.Exists(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("check question: %w", err)
	}
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return s.repo.ListByQuestion(ctx, questionID)
}

// Update replaces the answer body after the ownership check. A nil or empty
// body keeps the stored value (the modification instant still advances).
func (s *Service) Update(ctx context.Context, id string, body *string, ident models.Identity) (*Answer, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := policy.Authorize(policy.ActionUpdate, policy.Resource{Kind: policy.KindAnswer, CreatedBy: a.CreatedBy}, ident)
	if err := d.Err(); err != nil {
		return nil, err
	}
	next := a.Answer
	if body != nil && *body != "" {
		next = *body
	}
	return s.repo.UpdateBody(ctx, id, next)
}

// Delete removes the single answer after the ownership check; no cascade.
func (s *Service) Delete(ctx context.Context, id string, ident models.Identity) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d := policy.Authorize(policy.ActionDelete, policy.Resource{Kind: policy.KindAnswer, CreatedBy: a.CreatedBy}, ident)
	if err := d.Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
