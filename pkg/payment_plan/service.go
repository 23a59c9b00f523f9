package payment_plan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/dancestudio/manager/internal/event_bus"
	"github.com/dancestudio/manager/internal/utils"
	"github.com/dancestudio/manager/pkg/money"
	"github.com/dancestudio/manager/pkg/student"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	AddTemplate(ctx context.Context, name string) (PaymentTemplate, error)
	ListTemplates(ctx context.Context) ([]PaymentTemplate, error)
	GetTemplate(ctx context.Context, id int) (PaymentTemplate, error)
	AddTemplateItem(ctx context.Context, templateId int, name string, price decimal.Decimal, itemType ItemType) (TemplateItem, error)
	ListTemplateItems(ctx context.Context, templateId int) ([]TemplateItem, error)
	SeedSelections(ctx context.Context, templateId int) ([]CategorySelection, error)
	CreatePlan(ctx context.Context, studentId int, templateId *int) (int, error)
	AppendPlanItem(ctx context.Context, planId int, name string, price decimal.Decimal, itemType string) (PlanItem, error)
	ListPlansForStudent(ctx context.Context, studentId int) ([]PlanRecord, error)
	ListPlanItems(ctx context.Context, planId int) ([]PlanItem, error)
	FinalizePlan(ctx context.Context, req FinalizeRequest) (Summary, error)
	GetPlanSummary(ctx context.Context, planId int) (Summary, error)
}

type ServiceImpl struct {
	repo     Repository
	students student.Provider
	clock    utils.Clock
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, students student.Provider, clock utils.Clock, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		students: students,
		clock:    clock,
		eventBus: eventBus,
	}
}

func (s *ServiceImpl) AddTemplate(ctx context.Context, name string) (PaymentTemplate, error) {
	template := PaymentTemplate{Name: strings.TrimSpace(name)}
	if err := apperrors.Struct(template); err != nil {
		return PaymentTemplate{}, err
	}
	return s.repo.AddTemplate(ctx, template.Name)
}

func (s *ServiceImpl) ListTemplates(ctx context.Context) ([]PaymentTemplate, error) {
	return s.repo.GetTemplates(ctx)
}

func (s *ServiceImpl) GetTemplate(ctx context.Context, id int) (PaymentTemplate, error) {
	return s.repo.GetTemplate(ctx, id)
}

func (s *ServiceImpl) AddTemplateItem(ctx context.Context, templateId int, name string, price decimal.Decimal, itemType ItemType) (TemplateItem, error) {
	item := TemplateItem{
		TemplateId: templateId,
		Name:       strings.TrimSpace(name),
		Price:      price,
		ItemType:   itemType,
	}
	if err := apperrors.Struct(item); err != nil {
		return TemplateItem{}, err
	}
	if price.IsNegative() {
		return TemplateItem{}, apperrors.Invalid("price", "must not be negative")
	}
	if err := money.Check(price); err != nil {
		return TemplateItem{}, apperrors.Invalid("price", err.Error())
	}
	if _, err := s.repo.GetTemplate(ctx, templateId); err != nil {
		return TemplateItem{}, err
	}

	id, err := s.repo.StoreTemplateItem(ctx, item)
	if err != nil {
		return TemplateItem{}, err
	}
	item.Id = id
	return item, nil
}

func (s *ServiceImpl) ListTemplateItems(ctx context.Context, templateId int) ([]TemplateItem, error) {
	if _, err := s.repo.GetTemplate(ctx, templateId); err != nil {
		return nil, err
	}
	return s.repo.GetTemplateItems(ctx, templateId)
}

// SeedSelections turns the template's items into editable selections grouped by item type.
// Credits are seeded as negative prices so they reduce the grand total.
func (s *ServiceImpl) SeedSelections(ctx context.Context, templateId int) ([]CategorySelection, error) {
	items, err := s.ListTemplateItems(ctx, templateId)
	if err != nil {
		return nil, err
	}

	selections := make([]CategorySelection, 0, 2)
	for _, item := range items {
		price := item.Price
		if item.ItemType == Credit {
			price = price.Neg()
		}
		selections = append(selections, CategorySelection{
			Category: string(item.ItemType),
			Items:    []SelectedItem{{Name: item.Name, Price: price}},
		})
	}
	return MergeSelections(selections), nil
}

func (s *ServiceImpl) CreatePlan(ctx context.Context, studentId int, templateId *int) (int, error) {
	if err := s.checkReferences(ctx, studentId, templateId); err != nil {
		return 0, err
	}
	return s.repo.StorePlanRecord(ctx, PlanRecord{
		StudentId:  studentId,
		TemplateId: templateId,
		CreatedAt:  s.clock.Now(),
	})
}

func (s *ServiceImpl) AppendPlanItem(ctx context.Context, planId int, name string, price decimal.Decimal, itemType string) (PlanItem, error) {
	item := PlanItem{
		PlanId:   planId,
		Name:     strings.TrimSpace(name),
		Price:    price,
		ItemType: strings.TrimSpace(itemType),
	}
	if err := apperrors.Struct(item); err != nil {
		return PlanItem{}, err
	}
	if err := money.Check(price); err != nil {
		return PlanItem{}, apperrors.Invalid("price", err.Error())
	}
	if _, err := s.repo.GetPlan(ctx, planId); err != nil {
		return PlanItem{}, err
	}

	id, err := s.repo.StorePlanItem(ctx, item)
	if err != nil {
		return PlanItem{}, err
	}
	item.Id = id
	return item, nil
}

func (s *ServiceImpl) ListPlansForStudent(ctx context.Context, studentId int) ([]PlanRecord, error) {
	if _, err := s.students.GetStudent(ctx, studentId); err != nil {
		return nil, err
	}
	return s.repo.GetPlansForStudent(ctx, studentId)
}

func (s *ServiceImpl) ListPlanItems(ctx context.Context, planId int) ([]PlanItem, error) {
	if _, err := s.repo.GetPlan(ctx, planId); err != nil {
		return nil, err
	}
	return s.repo.GetPlanItems(ctx, planId)
}

// FinalizePlan computes the summary and persists the plan with all of its ledger lines atomically.
// Every call creates a new plan, even for identical input.
func (s *ServiceImpl) FinalizePlan(ctx context.Context, req FinalizeRequest) (Summary, error) {
	req = normalize(req)
	if err := validateFinalizeRequest(req); err != nil {
		return Summary{}, err
	}
	if err := s.checkReferences(ctx, req.StudentId, req.TemplateId); err != nil {
		return Summary{}, err
	}

	summary := ComputeSummary(req.Selections, req.Down1, req.Down2, req.Months)
	record, items, err := s.repo.StorePlan(ctx, PlanRecord{
		StudentId:  req.StudentId,
		TemplateId: req.TemplateId,
		Months:     req.Months,
		CreatedAt:  s.clock.Now(),
	}, summary.Items)
	if err != nil {
		return Summary{}, fmt.Errorf("could not store plan for student %d: %w", req.StudentId, err)
	}
	withRecord(&summary, record)
	summary.Items = items

	log.Infof("Finalized plan %d for student %d: grand total %s, remaining %s over %d month(s)",
		record.Id, record.StudentId, summary.GrandTotal, summary.Remaining, record.Months)
	s.publishFinalized(ctx, summary)
	return summary, nil
}

// GetPlanSummary recomputes the summary of a stored plan from its ledger lines.
func (s *ServiceImpl) GetPlanSummary(ctx context.Context, planId int) (Summary, error) {
	record, err := s.repo.GetPlan(ctx, planId)
	if err != nil {
		return Summary{}, err
	}
	items, err := s.repo.GetPlanItems(ctx, planId)
	if err != nil {
		return Summary{}, err
	}

	selections, down1, down2 := selectionsFromLedger(items)
	summary := ComputeSummary(selections, down1, down2, record.Months)
	withRecord(&summary, record)
	summary.Items = items
	return summary, nil
}

func (s *ServiceImpl) checkReferences(ctx context.Context, studentId int, templateId *int) error {
	if _, err := s.students.GetStudent(ctx, studentId); err != nil {
		return err
	}
	if templateId != nil {
		if _, err := s.repo.GetTemplate(ctx, *templateId); err != nil {
			return err
		}
	}
	return nil
}

func (s *ServiceImpl) publishFinalized(ctx context.Context, summary Summary) {
	event := event_bus.NewEvent(ctx, event_bus.PlanFinalizedType, event_bus.PlanFinalized{
		PlanId:      summary.PlanId,
		StudentId:   summary.StudentId,
		TemplateId:  summary.TemplateId,
		GrandTotal:  summary.GrandTotal,
		TotalDown:   summary.TotalDown,
		Remaining:   summary.Remaining,
		Months:      summary.Months,
		Installment: summary.Installment,
		CreatedAt:   summary.CreatedAt,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Warnf("plan %d stored, but event delivery failed: %v", summary.PlanId, err)
	}
}

func withRecord(summary *Summary, record PlanRecord) {
	summary.PlanId = record.Id
	summary.StudentId = record.StudentId
	summary.TemplateId = record.TemplateId
	summary.CreatedAt = record.CreatedAt
}

func normalize(req FinalizeRequest) FinalizeRequest {
	selections := make([]CategorySelection, 0, len(req.Selections))
	for _, selection := range req.Selections {
		items := make([]SelectedItem, 0, len(selection.Items))
		for _, item := range selection.Items {
			items = append(items, SelectedItem{Name: strings.TrimSpace(item.Name), Price: item.Price})
		}
		selections = append(selections, CategorySelection{Category: strings.TrimSpace(selection.Category), Items: items})
	}
	req.Selections = selections
	return req
}

func validateFinalizeRequest(req FinalizeRequest) error {
	var fields []apperrors.FieldError
	downPayments := []struct {
		field  string
		amount decimal.Decimal
	}{{"downPayment1", req.Down1}, {"downPayment2", req.Down2}}
	for _, down := range downPayments {
		if down.amount.IsNegative() {
			fields = append(fields, apperrors.FieldError{Field: down.field, Error: "must not be negative"})
		} else if err := money.Check(down.amount); err != nil {
			fields = append(fields, apperrors.FieldError{Field: down.field, Error: err.Error()})
		}
	}
	if req.Months < 0 {
		fields = append(fields, apperrors.FieldError{Field: "months", Error: "must not be negative"})
	}
	for i, selection := range req.Selections {
		field := fmt.Sprintf("selections[%d].category", i)
		switch {
		case selection.Category == "":
			fields = append(fields, apperrors.FieldError{Field: field, Error: "this field cannot be blank"})
		case strings.EqualFold(selection.Category, DownPaymentType):
			fields = append(fields, apperrors.FieldError{Field: field, Error: fmt.Sprintf("%q is reserved", DownPaymentType)})
		}
		for j, item := range selection.Items {
			if item.Name == "" {
				fields = append(fields, apperrors.FieldError{
					Field: fmt.Sprintf("selections[%d].items[%d].name", i, j),
					Error: "this field cannot be blank",
				})
			}
			if err := money.Check(item.Price); err != nil {
				fields = append(fields, apperrors.FieldError{
					Field: fmt.Sprintf("selections[%d].items[%d].price", i, j),
					Error: err.Error(),
				})
			}
		}
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(errors.New("invalid payment plan"), fields...)
	}
	return nil
}
