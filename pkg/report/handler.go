package report

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/dancestudio/manager/pkg/payment_plan"
	"github.com/dancestudio/manager/pkg/student"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	plans    payment_plan.Service
	students student.Provider
	csv      *CsvSummaryRenderer
	image    *ImageSummaryRenderer
}

func NewHandler(plans payment_plan.Service, students student.Provider, csv *CsvSummaryRenderer, image *ImageSummaryRenderer) *Handler {
	return &Handler{plans: plans, students: students, csv: csv, image: image}
}

// ExportPlan godoc
// @Summary Download a payment plan summary
// @Description Renders the stored plan as CSV (default) or as a printable PNG
// @Tags Plan
// @Produce text/csv
// @Produce image/png
// @Param planId path int true "Plan ID"
// @Param format query string false "csv or png"
// @Success 200 {file} file
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/plan/{planId}/export [get]
func (h *Handler) ExportPlan(w http.ResponseWriter, r *http.Request) {
	planId, err := strconv.Atoi(mux.Vars(r)["planId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "png" {
		apperrors.WriteHTTPError(w, apperrors.Invalid("format", "expected csv or png"))
		return
	}

	summary, err := h.plans.GetPlanSummary(r.Context(), planId)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	s, err := h.students.GetStudent(r.Context(), summary.StudentId)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	planReport := NewPlanReport(s, summary.CreatedAt, summary)
	fileName := FileName(s, summary.CreatedAt, format)

	var (
		body        []byte
		contentType string
	)
	switch format {
	case "png":
		body, err = h.image.Render(planReport)
		contentType = "image/png"
	default:
		var text string
		text, err = h.csv.Render(planReport)
		body = []byte(text)
		contentType = "text/csv"
	}
	if err != nil {
		log.Errorf("failed to render plan %d as %s: %v", planId, format, err)
		http.Error(w, "failed to render plan", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Errorf("failed to write export of plan %d: %v", planId, err)
	}
}
