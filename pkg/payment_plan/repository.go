package payment_plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/dancestudio/manager/pkg/money"
	log "github.com/sirupsen/logrus"
)

var (
	ErrTemplateNotFound = apperrors.NotFound("payment template")
	ErrPlanNotFound     = apperrors.NotFound("payment plan")
)

// createdAtLayout has a fixed width so stored timestamps sort chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// legacyCreatedAtLayouts are tried when a row was not written with createdAtLayout.
// Rows without a zone carry local wall-clock time.
var legacyCreatedAtLayouts = []struct {
	layout   string
	location *time.Location
}{
	{time.RFC3339Nano, time.UTC},
	{"2006-01-02T15:04:05.999999999", time.Local},
	{"2006-01-02 15:04:05.999999999", time.Local},
}

type Repository interface {
	AddTemplate(ctx context.Context, name string) (PaymentTemplate, error)
	GetTemplate(ctx context.Context, id int) (PaymentTemplate, error)
	GetTemplates(ctx context.Context) ([]PaymentTemplate, error)
	StoreTemplateItem(ctx context.Context, item TemplateItem) (int, error)
	GetTemplateItems(ctx context.Context, templateId int) ([]TemplateItem, error)
	StorePlanRecord(ctx context.Context, record PlanRecord) (int, error)
	StorePlanItem(ctx context.Context, item PlanItem) (int, error)
	GetPlan(ctx context.Context, planId int) (PlanRecord, error)
	GetPlansForStudent(ctx context.Context, studentId int) ([]PlanRecord, error)
	GetPlanItems(ctx context.Context, planId int) ([]PlanItem, error)
	StorePlan(ctx context.Context, record PlanRecord, items []PlanItem) (PlanRecord, []PlanItem, error)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// AddTemplate inserts the template unless one with the same name exists, and returns the stored row.
func (r *RepositoryImpl) AddTemplate(ctx context.Context, name string) (PaymentTemplate, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO payment_templates (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		err := fmt.Errorf("could not insert template %q: %w", name, err)
		log.Error(err)
		return PaymentTemplate{}, err
	}

	var template PaymentTemplate
	err = r.db.QueryRowContext(ctx, `SELECT id, name FROM payment_templates WHERE name = ?`, name).
		Scan(&template.Id, &template.Name)
	if err != nil {
		err := fmt.Errorf("could not read template %q: %w", name, err)
		log.Error(err)
		return PaymentTemplate{}, err
	}
	return template, nil
}

func (r *RepositoryImpl) GetTemplate(ctx context.Context, id int) (PaymentTemplate, error) {
	var template PaymentTemplate
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM payment_templates WHERE id = ?`, id).
		Scan(&template.Id, &template.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return PaymentTemplate{}, ErrTemplateNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not get template %d: %w", id, err)
		log.Error(err)
		return PaymentTemplate{}, err
	}
	return template, nil
}

func (r *RepositoryImpl) GetTemplates(ctx context.Context) ([]PaymentTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM payment_templates ORDER BY name`)
	if err != nil {
		err := fmt.Errorf("could not query templates: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	templates := make([]PaymentTemplate, 0)
	for rows.Next() {
		var template PaymentTemplate
		if err := rows.Scan(&template.Id, &template.Name); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return templates, nil
}

func (r *RepositoryImpl) StoreTemplateItem(ctx context.Context, item TemplateItem) (int, error) {
	price, err := money.Value(item.Price)
	if err != nil {
		return 0, apperrors.Invalid("price", err.Error())
	}
	query := `INSERT INTO template_items (template_id, name, price, item_type) VALUES (?, ?, ?, ?)`
	return insert(ctx, r.db, query, item.TemplateId, item.Name, price, string(item.ItemType))
}

func (r *RepositoryImpl) GetTemplateItems(ctx context.Context, templateId int) ([]TemplateItem, error) {
	query := `SELECT id, template_id, name, price, item_type FROM template_items WHERE template_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, templateId)
	if err != nil {
		err := fmt.Errorf("could not query template items: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	items := make([]TemplateItem, 0)
	for rows.Next() {
		var (
			item     TemplateItem
			itemType string
		)
		if err := rows.Scan(&item.Id, &item.TemplateId, &item.Name, money.Column(&item.Price), &itemType); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		item.ItemType = ItemType(itemType)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return items, nil
}

func (r *RepositoryImpl) StorePlanRecord(ctx context.Context, record PlanRecord) (int, error) {
	return storePlanRecord(ctx, r.db, record)
}

func (r *RepositoryImpl) StorePlanItem(ctx context.Context, item PlanItem) (int, error) {
	return storePlanItem(ctx, r.db, item)
}

// StorePlan writes the plan record and all of its items in one transaction. On any failure nothing is kept.
func (r *RepositoryImpl) StorePlan(ctx context.Context, record PlanRecord, items []PlanItem) (PlanRecord, []PlanItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return PlanRecord{}, nil, err
	}
	defer tx.Rollback()

	planId, err := storePlanRecord(ctx, tx, record)
	if err != nil {
		return PlanRecord{}, nil, err
	}
	record.Id = planId

	stored := make([]PlanItem, 0, len(items))
	for _, item := range items {
		item.PlanId = planId
		itemId, err := storePlanItem(ctx, tx, item)
		if err != nil {
			return PlanRecord{}, nil, err
		}
		item.Id = itemId
		stored = append(stored, item)
	}

	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit transaction: %w", err)
		log.Error(err)
		return PlanRecord{}, nil, err
	}
	return record, stored, nil
}

func (r *RepositoryImpl) GetPlan(ctx context.Context, planId int) (PlanRecord, error) {
	query := `SELECT id, student_id, template_id, months, created_at FROM student_plans WHERE id = ?`
	record, err := scanPlanRecord(r.db.QueryRowContext(ctx, query, planId))
	if errors.Is(err, sql.ErrNoRows) {
		return PlanRecord{}, ErrPlanNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not get plan %d: %w", planId, err)
		log.Error(err)
		return PlanRecord{}, err
	}
	return record, nil
}

func (r *RepositoryImpl) GetPlansForStudent(ctx context.Context, studentId int) ([]PlanRecord, error) {
	query := `SELECT id, student_id, template_id, months, created_at FROM student_plans
			  WHERE student_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, studentId)
	if err != nil {
		err := fmt.Errorf("could not query plans: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	plans := make([]PlanRecord, 0)
	for rows.Next() {
		record, err := scanPlanRecord(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		plans = append(plans, record)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return plans, nil
}

func (r *RepositoryImpl) GetPlanItems(ctx context.Context, planId int) ([]PlanItem, error) {
	query := `SELECT id, plan_id, name, price, item_type FROM plan_items WHERE plan_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, planId)
	if err != nil {
		err := fmt.Errorf("could not query plan items: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	items := make([]PlanItem, 0)
	for rows.Next() {
		var item PlanItem
		if err := rows.Scan(&item.Id, &item.PlanId, &item.Name, money.Column(&item.Price), &item.ItemType); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return items, nil
}

func storePlanRecord(ctx context.Context, db execer, record PlanRecord) (int, error) {
	query := `INSERT INTO student_plans (student_id, template_id, months, created_at) VALUES (?, ?, ?, ?)`
	var templateId any
	if record.TemplateId != nil {
		templateId = *record.TemplateId
	}
	return insert(ctx, db, query, record.StudentId, templateId, record.Months, record.CreatedAt.UTC().Format(createdAtLayout))
}

func storePlanItem(ctx context.Context, db execer, item PlanItem) (int, error) {
	price, err := money.Value(item.Price)
	if err != nil {
		return 0, apperrors.Invalid("price", err.Error())
	}
	query := `INSERT INTO plan_items (plan_id, name, price, item_type) VALUES (?, ?, ?, ?)`
	return insert(ctx, db, query, item.PlanId, item.Name, price, item.ItemType)
}

func insert(ctx context.Context, db execer, query string, args ...any) (int, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(lastInsertID), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlanRecord(row rowScanner) (PlanRecord, error) {
	var (
		record     PlanRecord
		templateId sql.NullInt64
		createdAt  string
	)
	if err := row.Scan(&record.Id, &record.StudentId, &templateId, &record.Months, &createdAt); err != nil {
		return PlanRecord{}, err
	}
	if templateId.Valid {
		id := int(templateId.Int64)
		record.TemplateId = &id
	}
	parsed, err := parseCreatedAt(createdAt)
	if err != nil {
		return PlanRecord{}, err
	}
	record.CreatedAt = parsed
	return record, nil
}

func parseCreatedAt(value string) (time.Time, error) {
	parsed, err := time.Parse(createdAtLayout, value)
	if err == nil {
		return parsed, nil
	}
	for _, legacy := range legacyCreatedAtLayouts {
		if parsed, legacyErr := time.ParseInLocation(legacy.layout, value, legacy.location); legacyErr == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created_at %q: %w", value, err)
}
