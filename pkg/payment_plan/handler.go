package payment_plan

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/dancestudio/manager/pkg/money"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TemplateDTO struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type TemplateItemDTO struct {
	Id         int    `json:"id"`
	TemplateId int    `json:"templateId"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	ItemType   string `json:"itemType"`
}

type SelectedItemDTO struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type SelectionDTO struct {
	Category string            `json:"category"`
	Items    []SelectedItemDTO `json:"items"`
}

type FinalizeRequestDTO struct {
	StudentId    int            `json:"studentId"`
	TemplateId   *int           `json:"templateId,omitempty"`
	Selections   []SelectionDTO `json:"selections"`
	DownPayment1 string         `json:"downPayment1"`
	DownPayment2 string         `json:"downPayment2"`
	Months       int            `json:"months"`
}

type SubtotalDTO struct {
	Category string `json:"category"`
	Subtotal string `json:"subtotal"`
}

type PlanItemDTO struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	ItemType string `json:"itemType"`
}

type SummaryDTO struct {
	PlanId      int           `json:"planId"`
	StudentId   int           `json:"studentId"`
	TemplateId  *int          `json:"templateId,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	Subtotals   []SubtotalDTO `json:"subtotals"`
	GrandTotal  string        `json:"grandTotal"`
	TotalDown   string        `json:"totalDown"`
	Remaining   string        `json:"remaining"`
	Months      int           `json:"months"`
	Installment string        `json:"installment"`
	DueInFull   bool          `json:"dueInFull"`
	Items       []PlanItemDTO `json:"items"`
}

type PlanRecordDTO struct {
	Id         int    `json:"id"`
	StudentId  int    `json:"studentId"`
	TemplateId *int   `json:"templateId,omitempty"`
	Months     int    `json:"months"`
	CreatedAt  string `json:"createdAt"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListTemplates godoc
// @Summary List payment templates
// @Tags Template
// @Produce json
// @Success 200 {array} TemplateDTO
// @Router /api/template [get]
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	dtos := make([]TemplateDTO, 0, len(templates))
	for _, t := range templates {
		dtos = append(dtos, TemplateDTO{Id: t.Id, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddTemplate godoc
// @Summary Add a payment template
// @Description Returns the existing template when one with the same name is already stored
// @Tags Template
// @Accept json
// @Produce json
// @Param template body TemplateDTO true "Template"
// @Success 200 {object} TemplateDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/template [post]
func (h *Handler) AddTemplate(w http.ResponseWriter, r *http.Request) {
	var dto TemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	template, err := h.service.AddTemplate(r.Context(), dto.Name)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TemplateDTO{Id: template.Id, Name: template.Name})
}

// ListTemplateItems godoc
// @Summary List the items of a payment template
// @Tags Template
// @Produce json
// @Param templateId path int true "Template ID"
// @Success 200 {array} TemplateItemDTO
// @Failure 404 {string} string "Template Not Found"
// @Router /api/template/{templateId}/item [get]
func (h *Handler) ListTemplateItems(w http.ResponseWriter, r *http.Request) {
	templateId, ok := pathId(w, r, "templateId")
	if !ok {
		return
	}
	items, err := h.service.ListTemplateItems(r.Context(), templateId)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	dtos := make([]TemplateItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, TemplateItemToDTO(item))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddTemplateItem godoc
// @Summary Add an item to a payment template
// @Tags Template
// @Accept json
// @Produce json
// @Param templateId path int true "Template ID"
// @Param item body TemplateItemDTO true "Template item"
// @Success 201 {object} TemplateItemDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Template Not Found"
// @Router /api/template/{templateId}/item [post]
func (h *Handler) AddTemplateItem(w http.ResponseWriter, r *http.Request) {
	templateId, ok := pathId(w, r, "templateId")
	if !ok {
		return
	}
	var dto TemplateItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	price, err := parseAmount("price", dto.Price)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}

	item, err := h.service.AddTemplateItem(r.Context(), templateId, dto.Name, price, ItemType(dto.ItemType))
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, TemplateItemToDTO(item))
}

// SeedSelections godoc
// @Summary Selections seeded from a payment template
// @Description Template items grouped by item type, credits as negative prices. Edit and send back to /api/plan.
// @Tags Template
// @Produce json
// @Param templateId path int true "Template ID"
// @Success 200 {array} SelectionDTO
// @Failure 404 {string} string "Template Not Found"
// @Router /api/template/{templateId}/selection [get]
func (h *Handler) SeedSelections(w http.ResponseWriter, r *http.Request) {
	templateId, ok := pathId(w, r, "templateId")
	if !ok {
		return
	}
	selections, err := h.service.SeedSelections(r.Context(), templateId)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	dtos := make([]SelectionDTO, 0, len(selections))
	for _, selection := range selections {
		dtos = append(dtos, SelectionToDTO(selection))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// FinalizePlan godoc
// @Summary Finalize a payment plan
// @Description Computes the summary and stores the plan with its ledger lines in one transaction
// @Tags Plan
// @Accept json
// @Produce json
// @Param plan body FinalizeRequestDTO true "Plan input"
// @Success 201 {object} SummaryDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Student or Template Not Found"
// @Router /api/plan [post]
func (h *Handler) FinalizePlan(w http.ResponseWriter, r *http.Request) {
	var dto FinalizeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req, err := DTOToFinalizeRequest(dto)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}

	summary, err := h.service.FinalizePlan(r.Context(), req)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SummaryToDTO(summary))
}

// GetPlanSummary godoc
// @Summary Summary of a stored payment plan
// @Tags Plan
// @Produce json
// @Param planId path int true "Plan ID"
// @Success 200 {object} SummaryDTO
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/plan/{planId} [get]
func (h *Handler) GetPlanSummary(w http.ResponseWriter, r *http.Request) {
	planId, ok := pathId(w, r, "planId")
	if !ok {
		return
	}
	summary, err := h.service.GetPlanSummary(r.Context(), planId)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryToDTO(summary))
}

// ListPlansForStudent godoc
// @Summary List the plans of a student, oldest first
// @Tags Plan
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {array} PlanRecordDTO
// @Failure 404 {string} string "Student Not Found"
// @Router /api/student/{studentId}/plan [get]
func (h *Handler) ListPlansForStudent(w http.ResponseWriter, r *http.Request) {
	studentId, ok := pathId(w, r, "studentId")
	if !ok {
		return
	}
	plans, err := h.service.ListPlansForStudent(r.Context(), studentId)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	dtos := make([]PlanRecordDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, PlanRecordDTO{
			Id:         p.Id,
			StudentId:  p.StudentId,
			TemplateId: p.TemplateId,
			Months:     p.Months,
			CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func TemplateItemToDTO(item TemplateItem) TemplateItemDTO {
	return TemplateItemDTO{
		Id:         item.Id,
		TemplateId: item.TemplateId,
		Name:       item.Name,
		Price:      money.Plain(item.Price),
		ItemType:   string(item.ItemType),
	}
}

func SelectionToDTO(selection CategorySelection) SelectionDTO {
	items := make([]SelectedItemDTO, 0, len(selection.Items))
	for _, item := range selection.Items {
		items = append(items, SelectedItemDTO{Name: item.Name, Price: item.Price.String()})
	}
	return SelectionDTO{Category: selection.Category, Items: items}
}

func DTOToFinalizeRequest(dto FinalizeRequestDTO) (FinalizeRequest, error) {
	down1, err := parseAmount("downPayment1", dto.DownPayment1)
	if err != nil {
		return FinalizeRequest{}, err
	}
	down2, err := parseAmount("downPayment2", dto.DownPayment2)
	if err != nil {
		return FinalizeRequest{}, err
	}

	selections := make([]CategorySelection, 0, len(dto.Selections))
	for i, s := range dto.Selections {
		items := make([]SelectedItem, 0, len(s.Items))
		for j, item := range s.Items {
			price, err := parseAmount(fmt.Sprintf("selections[%d].items[%d].price", i, j), item.Price)
			if err != nil {
				return FinalizeRequest{}, err
			}
			items = append(items, SelectedItem{Name: item.Name, Price: price})
		}
		selections = append(selections, CategorySelection{Category: s.Category, Items: items})
	}

	return FinalizeRequest{
		StudentId:  dto.StudentId,
		TemplateId: dto.TemplateId,
		Selections: selections,
		Down1:      down1,
		Down2:      down2,
		Months:     dto.Months,
	}, nil
}

func SummaryToDTO(summary Summary) SummaryDTO {
	subtotals := make([]SubtotalDTO, 0, len(summary.Subtotals))
	for _, s := range summary.Subtotals {
		subtotals = append(subtotals, SubtotalDTO{Category: s.Category, Subtotal: money.Plain(s.Subtotal)})
	}
	items := make([]PlanItemDTO, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, PlanItemDTO{
			Id:       item.Id,
			Name:     item.Name,
			Price:    money.Plain(item.Price),
			ItemType: item.ItemType,
		})
	}
	return SummaryDTO{
		PlanId:      summary.PlanId,
		StudentId:   summary.StudentId,
		TemplateId:  summary.TemplateId,
		CreatedAt:   summary.CreatedAt.Format(time.RFC3339),
		Subtotals:   subtotals,
		GrandTotal:  money.Plain(summary.GrandTotal),
		TotalDown:   money.Plain(summary.TotalDown),
		Remaining:   money.Plain(summary.Remaining),
		Months:      summary.Months,
		Installment: money.Plain(summary.Installment),
		DueInFull:   summary.DueInFull,
		Items:       items,
	}
}

// parseAmount treats an empty amount as zero.
func parseAmount(field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	amount, err := money.Parse(value)
	if err != nil {
		return decimal.Zero, apperrors.Invalid(field, err.Error())
	}
	return amount, nil
}

func pathId(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid %s: %v", name, err), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
