package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/askloop/askloop-backend/internal/answers"
	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/policy"
	"github.com/stretchr/testify/require"
)

var (
	u1 = models.Identity{UserID: "aaaaaaaaaaaaaaaaaaaaaaaa", Role: models.RoleMember}
	u2 = models.Identity{UserID: "bbbbbbbbbbbbbbbbbbbbbbbb", Role: models.RoleMember}
)

func newTestService() (*Service, *answers.MemoryRepository) {
	arepo := answers.NewMemoryRepository()
	return NewService(NewMemoryRepository(), arepo), arepo
}

func strp(s string) *string { return &s }

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Title: "", Description: "d"}, u1)
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, CreateInput{Title: "t", Description: "  "}, u1)
	require.ErrorIs(t, err, ErrValidation)

	q, err := svc.Create(ctx, CreateInput{Title: "t", Description: "d", Tags: []string{"go"}}, u1)
	require.NoError(t, err)
	require.Equal(t, u1.UserID, q.CreatedBy)
	require.False(t, q.CreatedAt.IsZero())
	require.Equal(t, []string{"go"}, q.Tags)
}

func TestUpdateOwnershipAndPartialFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateInput{Title: "A", Description: "B", Tags: []string{"x"}}, u1)
	require.NoError(t, err)

	// non-owner is denied, nothing mutated
	var denied *policy.DeniedError
	_, err = svc.Update(ctx, q.ID.Hex(), Patch{Title: strp("hacked")}, u2)
	require.True(t, errors.As(err, &denied))
	require.Equal(t, "not authorized", denied.Reason)
	cur, err := svc.GetByID(ctx, q.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "A", cur.Title)

	// owner patches the title only; description and tags survive
	got, err := svc.Update(ctx, q.ID.Hex(), Patch{Title: strp("A2")}, u1)
	require.NoError(t, err)
	require.Equal(t, "A2", got.Title)
	require.Equal(t, "B", got.Description)
	require.Equal(t, []string{"x"}, got.Tags)

	// explicit empty tag list clears tags
	got, err = svc.Update(ctx, q.ID.Hex(), Patch{Tags: &[]string{}}, u1)
	require.NoError(t, err)
	require.Empty(t, got.Tags)

	// missing question
	_, err = svc.Update(ctx, "cccccccccccccccccccccccc", Patch{}, u1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascadesAnswers(t *testing.T) {
	svc, arepo := newTestService()
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateInput{Title: "A", Description: "B"}, u1)
	require.NoError(t, err)
	other, err := svc.Create(ctx, CreateInput{Title: "keep", Description: "me"}, u1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, arepo.Create(ctx, &answers.Answer{QuestionID: q.ID.Hex(), Answer: "a", CreatedBy: u2.UserID}))
	}
	require.NoError(t, arepo.Create(ctx, &answers.Answer{QuestionID: other.ID.Hex(), Answer: "a", CreatedBy: u2.UserID}))

	// non-owner denied
	var denied *policy.DeniedError
	err = svc.Delete(ctx, q.ID.Hex(), u2)
	require.True(t, errors.As(err, &denied))

	require.NoError(t, svc.Delete(ctx, q.ID.Hex(), u1))
	_, err = svc.GetByID(ctx, q.ID.Hex())
	require.ErrorIs(t, err, ErrNotFound)

	left, err := arepo.ListByQuestion(ctx, q.ID.Hex())
	require.NoError(t, err)
	require.Empty(t, left)

	// answers on other questions are untouched
	kept, err := arepo.ListByQuestion(ctx, other.ID.Hex())
	require.NoError(t, err)
	require.Len(t, kept, 1)
}

func TestListAllFilters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mk := func(title string, tags ...string) {
		_, err := svc.Create(ctx, CreateInput{Title: title, Description: "d", Tags: tags}, u1)
		require.NoError(t, err)
	}
	mk("Foo bar", "x")
	mk("FOOlish", "y")
	mk("other", "x")

	// search is case-insensitive substring on title
	got, err := svc.ListAll(ctx, "foo", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// filters AND-compose
	got, err = svc.ListAll(ctx, "foo", []string{"x"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Foo bar", got[0].Title)

	// empty tag list disables the tag filter
	got, err = svc.ListAll(ctx, "", []string{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// newest first
	require.Equal(t, "other", got[0].Title)
}

func TestListByUserEmptyIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ListByUser(ctx, u1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, CreateInput{Title: "t", Description: "d"}, u1)
	require.NoError(t, err)

	got, err := svc.ListByUser(ctx, u1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// still 404 for a user with no questions
	_, err = svc.ListByUser(ctx, u2)
	require.ErrorIs(t, err, ErrNotFound)
}
