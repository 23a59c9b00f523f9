package app

import (
	"database/sql"

	"github.com/dancestudio/manager/internal/config"
	"github.com/dancestudio/manager/internal/event_bus"
	"github.com/dancestudio/manager/internal/utils"
	"github.com/dancestudio/manager/pkg/catalog"
	"github.com/dancestudio/manager/pkg/payment_plan"
	"github.com/dancestudio/manager/pkg/report"
	"github.com/dancestudio/manager/pkg/student"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	StudentService *student.ServiceImpl
	StudentHandler *student.Handler

	CatalogService *catalog.ServiceImpl
	CatalogHandler *catalog.Handler

	PaymentPlanRepo    *payment_plan.RepositoryImpl
	PaymentPlanService *payment_plan.ServiceImpl
	PaymentPlanHandler *payment_plan.Handler

	CsvSummaryRenderer   *report.CsvSummaryRenderer
	ImageSummaryRenderer *report.ImageSummaryRenderer
	ReportHandler        *report.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.StudentService = student.NewService(student.NewRepository(db))
	deps.StudentHandler = student.NewHandler(deps.StudentService)

	deps.CatalogService = catalog.NewService(catalog.NewRepository(db), deps.EventBus)
	deps.CatalogHandler = catalog.NewHandler(deps.CatalogService)

	deps.PaymentPlanRepo = payment_plan.NewRepository(db)
	deps.PaymentPlanService = payment_plan.NewService(deps.PaymentPlanRepo, deps.StudentService, deps.Clock, deps.EventBus)
	deps.PaymentPlanHandler = payment_plan.NewHandler(deps.PaymentPlanService)

	deps.CsvSummaryRenderer = report.NewCsvSummaryRenderer(cfg.Report.CurrencySymbol)
	deps.ImageSummaryRenderer = report.NewImageSummaryRenderer(cfg.Report.CurrencySymbol)
	deps.ReportHandler = report.NewHandler(deps.PaymentPlanService, deps.StudentService, deps.CsvSummaryRenderer, deps.ImageSummaryRenderer)

	return deps
}
