package student

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type StudentDTO struct {
	Id          int    `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListStudents godoc
// @Summary List students
// @Description Students sorted by last name, then first name
// @Tags Student
// @Produce json
// @Success 200 {array} StudentDTO
// @Router /api/student [get]
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing students")
	students, err := h.service.ListStudents(r.Context())
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}

	dtos := make([]StudentDTO, 0, len(students))
	for _, s := range students {
		dtos = append(dtos, StudentToDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStudent godoc
// @Summary Get a student by ID
// @Tags Student
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {object} StudentDTO
// @Failure 404 {string} string "Student Not Found"
// @Router /api/student/{studentId} [get]
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	studentId, err := strconv.Atoi(mux.Vars(r)["studentId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := h.service.GetStudent(r.Context(), studentId)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StudentToDTO(s))
}

// AddStudent godoc
// @Summary Add a student
// @Tags Student
// @Accept json
// @Produce json
// @Param student body StudentDTO true "Student"
// @Success 201 {object} StudentDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/student [post]
func (h *Handler) AddStudent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding student")
	var dto StudentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := DTOToStudent(dto)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}

	created, err := h.service.AddStudent(r.Context(), s)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, StudentToDTO(created))
}

func StudentToDTO(s Student) StudentDTO {
	dto := StudentDTO{
		Id:        s.Id,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
	if !s.DateOfBirth.IsZero() {
		dto.DateOfBirth = s.DateOfBirth.Format(DateLayout)
	}
	return dto
}

func DTOToStudent(dto StudentDTO) (Student, error) {
	s := Student{
		Id:        dto.Id,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
	}
	if dto.DateOfBirth != "" {
		dob, err := time.Parse(DateLayout, dto.DateOfBirth)
		if err != nil {
			return Student{}, apperrors.Invalid("dateOfBirth", fmt.Sprintf("expected YYYY-MM-DD, got %q", dto.DateOfBirth))
		}
		s.DateOfBirth = dob
	}
	return s, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
