package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/policy"
)

var (
	// ErrValidation is returned when the summary is empty on create.
	ErrValidation = errors.New("summary is required")
	// ErrQuestionNotFound is returned when the referenced question does not
	// resolve.
	ErrQuestionNotFound = errors.New("question not found")
)

// QuestionChecker reports whether a question id resolves; satisfied by the
// questions repository/service.
type QuestionChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service implements the insight operations. Every operation runs the
// manager-role check before anything else; mutations additionally require
// the caller to be the creator.
type Service struct {
	repo      Repository
	questions QuestionChecker
}

func NewService(repo Repository, questions QuestionChecker) *Service {
	return &Service{repo: repo, questions: questions}
}

func roleCheck(action policy.Action, createdBy string, ident models.Identity) error {
	d := policy.Authorize(action, policy.Resource{Kind: policy.KindInsight, CreatedBy: createdBy}, ident)
	return d.Err()
}

// Create persists a new insight on the question. The role check runs before
// the question lookup; that ordering is part of the observable contract.
func (s *Service) Create(ctx context.Context, questionID, summary string, ident models.Identity) (*Insight, error) {
	if err := roleCheck(policy.ActionCreate, ident.UserID, ident); err != nil {
		return nil, err
	}
	ok, err := s.questions.Exists(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("check question: %w", err)
	}
	if !ok {
		return nil, ErrQuestionNotFound
	}
	if strings.TrimSpace(summary) == "" {
		return nil, ErrValidation
	}
	i := &Insight{QuestionID: questionID, Summary: summary, CreatedBy: ident.UserID}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, fmt.Errorf("create insight: %w", err)
	}
	return i, nil
}

// ListAll returns every insight across all questions, newest-first.
func (s *Service) ListAll(ctx context.Context, ident models.Identity) ([]*Insight, error) {
	if err := roleCheck(policy.ActionRead, "", ident); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx)
}

// ListByQuestion returns the question's insights newest-first. The parent
// question is not looked up; an unknown id yields an empty list.
func (s *Service) ListByQuestion(ctx context.Context, questionID string, ident models.Identity) ([]*Insight, error) {
	if err := roleCheck(policy.ActionRead, "", ident); err != nil {
		return nil, err
	}
	return s.repo.ListByQuestion(ctx, questionID)
}

// Update replaces the summary after role and ownership checks. A nil or
// empty summary keeps the stored value.
func (s *Service) Update(ctx context.Context, id string, summary *string, ident models.Identity) (*Insight, error) {
	if err := roleCheck(policy.ActionRead, "", ident); err != nil {
		return nil, err
	}
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := roleCheck(policy.ActionUpdate, i.CreatedBy, ident); err != nil {
		return nil, err
	}
	next := i.Summary
	if summary != nil && *summary != "" {
		next = *summary
	}
	return s.repo.UpdateSummary(ctx, id, next)
}

// Delete removes the insight after role and ownership checks.
func (s *Service) Delete(ctx context.Context, id string, ident models.Identity) error {
	if err := roleCheck(policy.ActionRead, "", ident); err != nil {
		return err
	}
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := roleCheck(policy.ActionDelete, i.CreatedBy, ident); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
