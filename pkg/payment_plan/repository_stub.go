package payment_plan

import (
	"context"
	"errors"
	"sort"
)

// RepositoryStub keeps everything in memory. FailOnItem makes StorePlan fail when an item with that
// name is written, leaving no trace of the plan.
type RepositoryStub struct {
	nextId        int
	templates     map[int]PaymentTemplate
	templateItems []TemplateItem
	plans         map[int]PlanRecord
	planItems     []PlanItem
	FailOnItem    string
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		templates: map[int]PaymentTemplate{},
		plans:     map[int]PlanRecord{},
	}
}

func (s *RepositoryStub) id() int {
	s.nextId++
	return s.nextId
}

func (s *RepositoryStub) AddTemplate(ctx context.Context, name string) (PaymentTemplate, error) {
	for _, t := range s.templates {
		if t.Name == name {
			return t, nil
		}
	}
	t := PaymentTemplate{Id: s.id(), Name: name}
	s.templates[t.Id] = t
	return t, nil
}

func (s *RepositoryStub) GetTemplate(ctx context.Context, id int) (PaymentTemplate, error) {
	t, ok := s.templates[id]
	if !ok {
		return PaymentTemplate{}, ErrTemplateNotFound
	}
	return t, nil
}

func (s *RepositoryStub) GetTemplates(ctx context.Context) ([]PaymentTemplate, error) {
	templates := make([]PaymentTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		templates = append(templates, t)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

func (s *RepositoryStub) StoreTemplateItem(ctx context.Context, item TemplateItem) (int, error) {
	item.Id = s.id()
	s.templateItems = append(s.templateItems, item)
	return item.Id, nil
}

func (s *RepositoryStub) GetTemplateItems(ctx context.Context, templateId int) ([]TemplateItem, error) {
	items := make([]TemplateItem, 0)
	for _, item := range s.templateItems {
		if item.TemplateId == templateId {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *RepositoryStub) StorePlanRecord(ctx context.Context, record PlanRecord) (int, error) {
	record.Id = s.id()
	s.plans[record.Id] = record
	return record.Id, nil
}

func (s *RepositoryStub) StorePlanItem(ctx context.Context, item PlanItem) (int, error) {
	item.Id = s.id()
	s.planItems = append(s.planItems, item)
	return item.Id, nil
}

func (s *RepositoryStub) GetPlan(ctx context.Context, planId int) (PlanRecord, error) {
	record, ok := s.plans[planId]
	if !ok {
		return PlanRecord{}, ErrPlanNotFound
	}
	return record, nil
}

func (s *RepositoryStub) GetPlansForStudent(ctx context.Context, studentId int) ([]PlanRecord, error) {
	plans := make([]PlanRecord, 0)
	for _, record := range s.plans {
		if record.StudentId == studentId {
			plans = append(plans, record)
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.Before(plans[j].CreatedAt)
		}
		return plans[i].Id < plans[j].Id
	})
	return plans, nil
}

func (s *RepositoryStub) GetPlanItems(ctx context.Context, planId int) ([]PlanItem, error) {
	items := make([]PlanItem, 0)
	for _, item := range s.planItems {
		if item.PlanId == planId {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *RepositoryStub) StorePlan(ctx context.Context, record PlanRecord, items []PlanItem) (PlanRecord, []PlanItem, error) {
	for _, item := range items {
		if s.FailOnItem != "" && item.Name == s.FailOnItem {
			return PlanRecord{}, nil, errors.New("could not execute query: item rejected")
		}
	}
	record.Id = s.id()
	s.plans[record.Id] = record
	stored := make([]PlanItem, 0, len(items))
	for _, item := range items {
		item.PlanId = record.Id
		item.Id = s.id()
		s.planItems = append(s.planItems, item)
		stored = append(stored, item)
	}
	return record, stored, nil
}
