package handlers

import (
	"net/http"
	"testing"

	"github.com/askloop/askloop-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAnswer(t *testing.T) {
	e := newEnv(t)
	u1 := e.addUser(t, "alice", models.RoleMember)
	u2 := e.addUser(t, "bob", models.RoleMember)
	qid := e.createQuestion(t, u1, "A", "B", nil)

	w := e.do(t, http.MethodPost, "/answers/"+qid, gin.H{"content": "try this"}, u2, "")
	require.Equal(t, http.StatusCreated, w.Code)
	a := decode(t, w)
	assert.Equal(t, "try this", a["answer"])
	assert.Equal(t, qid, a["questionId"])
	assert.Equal(t, "bob", a["author"].(map[string]interface{})["name"])
}

func TestCreateAnswerUnknownQuestion(t *testing.T) {
	e := newEnv(t)
	u1 := e.addUser(t, "alice", models.RoleMember)

	w := e.do(t, http.MethodPost, "/answers/ffffffffffffffffffffffff", gin.H{"content": "x"}, u1, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "question not found")
}

func TestCreateAnswerValidation(t *testing.T) {
	e := newEnv(t)
	u1 := e.addUser(t, "alice", models.RoleMember)
	qid := e.createQuestion(t, u1, "A", "B", nil)

	w := e.do(t, http.MethodPost, "/answers/"+qid, gin.H{"content": "  "}, u1, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAnswersNewestFirst(t *testing.T) {
	e := newEnv(t)
	u1 := e.addUser(t, "alice", models.RoleMember)
	qid := e.createQuestion(t, u1, "A", "B", nil)

	for _, body := range []string{"first", "second", "third"} {
		w := e.do(t, http.MethodPost, "/answers/"+qid, gin.H{"content": body}, u1, "")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := e.do(t, http.MethodGet, "/answers/"+qid, nil, u1, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0]["answer"])
	assert.Equal(t, "first", list[2]["answer"])
}

func TestUpdateAnswer(t *testing.T) {
	e := newEnv(t)
	u1 := e.addUser(t, "alice", models.RoleMember)
	u2 := e.addUser(t, "bob", models.RoleMember)
	qid := e.createQuestion(t, u1, "A", "B", nil)

	w := e.do(t, http.MethodPost, "/answers/"+qid, gin.H{"content": "v1"}, u2, "")
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	// only the creator may update
	w = e.do(t, http.MethodPatch, "/answers/"+id, gin.H{"answer": "hijack"}, u1, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPatch, "/answers/"+id, gin.H{"answer": "v2"}, u2, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Answer updated successfully", body["message"])
	assert.Equal(t, "v2", body["answer"].(map[string]interface{})["answer"])

	// an empty body keeps the stored value
	w = e.do(t, http.MethodPatch, "/answers/"+id, gin.H{"answer": ""}, u2, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v2", decode(t, w)["answer"].(map[string]interface{})["answer"])
}

func TestDeleteAnswer(t *testing.T) {
	e := newEnv(t)
	u1 := e.addUser(t, "alice", models.RoleMember)
	u2 := e.addUser(t, "bob", models.RoleMember)
	qid := e.createQuestion(t, u1, "A", "B", nil)

	w := e.do(t, http.MethodPost, "/answers/"+qid, gin.H{"content": "x"}, u2, "")
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = e.do(t, http.MethodDelete, "/answers/"+id, nil, u1, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodDelete, "/answers/"+id, nil, u2, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodDelete, "/answers/"+id, nil, u2, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the question is untouched
	w = e.do(t, http.MethodGet, "/answers/"+qid, nil, u2, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 0)
}
