package student

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dancestudio/manager/internal/test_utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) *Handler {
	db := test_utils.SetupTestDB(t)
	return NewHandler(NewService(NewRepository(db)))
}

func postStudent(t *testing.T, handler *Handler, dto StudentDTO) *httptest.ResponseRecorder {
	body, err := json.Marshal(dto)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/student", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.AddStudent(w, req)
	return w
}

func TestHandler_AddAndGetStudent(t *testing.T) {
	// given
	handler := setupHandlerTest(t)

	// when
	w := postStudent(t, handler, StudentDTO{FirstName: " Ava ", LastName: "Lopez", DateOfBirth: "2013-03-14"})

	// then
	require.Equal(t, http.StatusCreated, w.Code)
	var created StudentDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotZero(t, created.Id)
	assert.Equal(t, "Ava", created.FirstName)

	req := httptest.NewRequest(http.MethodGet, "/api/student/1", nil)
	req = mux.SetURLVars(req, map[string]string{"studentId": "1"})
	w = httptest.NewRecorder()
	handler.GetStudent(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var fetched StudentDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&fetched))
	assert.Equal(t, created, fetched)
	assert.Equal(t, "2013-03-14", fetched.DateOfBirth)
}

func TestHandler_AddStudent_Validation(t *testing.T) {
	handler := setupHandlerTest(t)

	t.Run("blank last name", func(t *testing.T) {
		w := postStudent(t, handler, StudentDTO{FirstName: "Ava", LastName: " "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "lastName")
	})

	t.Run("bad date of birth", func(t *testing.T) {
		w := postStudent(t, handler, StudentDTO{FirstName: "Ava", LastName: "Lopez", DateOfBirth: "14/03/2013"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "dateOfBirth")
	})
}

func TestHandler_GetStudent_NotFound(t *testing.T) {
	handler := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/student/99", nil)
	req = mux.SetURLVars(req, map[string]string{"studentId": "99"})
	w := httptest.NewRecorder()
	handler.GetStudent(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ListStudents(t *testing.T) {
	handler := setupHandlerTest(t)
	postStudent(t, handler, StudentDTO{FirstName: "Liam", LastName: "Brown"})
	postStudent(t, handler, StudentDTO{FirstName: "Amy", LastName: "Adams"})

	w := httptest.NewRecorder()
	handler.ListStudents(w, httptest.NewRequest(http.MethodGet, "/api/student", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var students []StudentDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&students))
	require.Len(t, students, 2)
	assert.Equal(t, "Adams", students[0].LastName)
	assert.Equal(t, "Brown", students[1].LastName)
}
