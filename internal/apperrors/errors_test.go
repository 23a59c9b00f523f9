package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name   string `json:"name" validate:"notblank"`
	Months int    `json:"months" validate:"gte=0"`
}

func TestNotFound_MatchesGenericKind(t *testing.T) {
	errStudentNotFound := NotFound("student")

	wrapped := fmt.Errorf("failed to finalize: %w", errStudentNotFound)

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.ErrorIs(t, wrapped, errStudentNotFound)
	assert.Equal(t, "student not found", errStudentNotFound.Error())
}

func TestStruct(t *testing.T) {
	t.Run("should accept valid input", func(t *testing.T) {
		assert.NoError(t, Struct(sampleInput{Name: "Tuition", Months: 6}))
	})

	t.Run("should report every invalid field by json name", func(t *testing.T) {
		// when
		err := Struct(sampleInput{Name: "   ", Months: -1})

		// then
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 2)
		assert.Equal(t, "name", vErr.Fields[0].Field)
		assert.Equal(t, notBlankText, vErr.Fields[0].Error)
		assert.Equal(t, "months", vErr.Fields[1].Field)
		assert.Contains(t, vErr.Fields[1].Error, "months")
	})
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Invalid("price", "must not be negative"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("outer: %w", Invalid("name", "required")), http.StatusBadRequest},
		{"not found", NotFound("plan"), http.StatusNotFound},
		{"other", errors.New("disk I/O error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWriteHTTPError_ValidationBody(t *testing.T) {
	// given
	w := httptest.NewRecorder()

	// when
	WriteHTTPError(w, Invalid("down1", "must not be negative"))

	// then
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "invalid down1: must not be negative", body.Error)
	assert.Equal(t, []FieldError{{Field: "down1", Error: "must not be negative"}}, body.Fields)
}
