package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/policy"
)

var (
	// ErrValidation is returned when a required input field is empty.
	ErrValidation = errors.New("title and description are required")
)

// AnswerPurger removes every answer referencing a question; satisfied by the
// answers repository. Used by the cascading delete.
type AnswerPurger interface {
	DeleteByQuestion(ctx context.Context, questionID string) error
}

// Service implements the question operations on top of a Repository,
// applying the ownership policy before any mutation.
type Service struct {
	repo    Repository
	answers AnswerPurger
}

func NewService(repo Repository, answers AnswerPurger) *Service {
	return &Service{repo: repo, answers: answers}
}

// CreateInput carries the fields of a new question.
type CreateInput struct {
	Title       string
	Description string
	Tags        []string
}

// Create persists a new question owned by the caller.
func (s *Service) Create(ctx context.Context, in CreateInput, ident models.Identity) (*Question, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrValidation
	}
	q := &Question{
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		CreatedBy:   ident.UserID,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Question, error) {
	return s.repo.GetByID(ctx, id)
}

// GetManyByID resolves question ids for response enrichment (insights).
func (s *Service) GetManyByID(ctx context.Context, ids []string) (map[string]*Question, error) {
	return s.repo.GetManyByID(ctx, ids)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// ListAll returns all questions matching the optional search text and tag
// set, newest-first. Both filters compose with AND.
func (s *Service) ListAll(ctx context.Context, search string, tags []string) ([]*Question, error) {
	return s.repo.List(ctx, Filter{Search: search, Tags: tags})
}

// ListByUser returns the caller's questions, newest-first. An empty result
// set is reported as ErrNotFound: the 404 is observed behavior the API
// contract preserves.
func (s *Service) ListByUser(ctx context.Context, ident models.Identity) ([]*Question, error) {
	list, err := s.repo.List(ctx, Filter{CreatedBy: ident.UserID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list, nil
}

// Update applies a partial update after the ownership check. Nil patch
// fields keep their stored values.
func (s *Service) Update(ctx context.Context, id string, p Patch, ident models.Identity) (*Question, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := policy.Authorize(policy.ActionUpdate, policy.Resource{Kind: policy.KindQuestion, CreatedBy: q.CreatedBy}, ident)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, p)
}

// Delete removes the question and, as part of the same logical operation,
// every answer referencing it. Insights referencing the question are left
// in place. The question is removed first; a failed answer purge fails the
// whole operation even though the question delete already committed.
func (s *Service) Delete(ctx context.Context, id string, ident models.Identity) error {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d := policy.Authorize(policy.ActionDelete, policy.Resource{Kind: policy.KindQuestion, CreatedBy: q.CreatedBy}, ident)
	if err := d.Err(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.answers.DeleteByQuestion(ctx, id); err != nil {
		return fmt.Errorf("purge answers for question %s: %w", id, err)
	}
	return nil
}
