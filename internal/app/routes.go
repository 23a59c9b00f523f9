package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Catalog
	r.HandleFunc("/api/catalog/category", deps.CatalogHandler.ListCategories).Methods("GET")
	r.HandleFunc("/api/catalog/item", deps.CatalogHandler.ListItems).Methods("GET")
	r.HandleFunc("/api/catalog/item", deps.CatalogHandler.AddItem).Methods("POST")
	r.HandleFunc("/api/catalog/item/{itemId}", deps.CatalogHandler.UpdateItem).Methods("PUT")
	r.HandleFunc("/api/catalog/item/{itemId}", deps.CatalogHandler.DeleteItem).Methods("DELETE")

	// Students
	r.HandleFunc("/api/student", deps.StudentHandler.ListStudents).Methods("GET")
	r.HandleFunc("/api/student", deps.StudentHandler.AddStudent).Methods("POST")
	r.HandleFunc("/api/student/{studentId}", deps.StudentHandler.GetStudent).Methods("GET")
	r.HandleFunc("/api/student/{studentId}/plan", deps.PaymentPlanHandler.ListPlansForStudent).Methods("GET")

	// Payment templates
	r.HandleFunc("/api/template", deps.PaymentPlanHandler.ListTemplates).Methods("GET")
	r.HandleFunc("/api/template", deps.PaymentPlanHandler.AddTemplate).Methods("POST")
	r.HandleFunc("/api/template/{templateId}/item", deps.PaymentPlanHandler.ListTemplateItems).Methods("GET")
	r.HandleFunc("/api/template/{templateId}/item", deps.PaymentPlanHandler.AddTemplateItem).Methods("POST")
	r.HandleFunc("/api/template/{templateId}/selection", deps.PaymentPlanHandler.SeedSelections).Methods("GET")

	// Payment plans
	r.HandleFunc("/api/plan", deps.PaymentPlanHandler.FinalizePlan).Methods("POST")
	r.HandleFunc("/api/plan/{planId}", deps.PaymentPlanHandler.GetPlanSummary).Methods("GET")
	r.HandleFunc("/api/plan/{planId}/export", deps.ReportHandler.ExportPlan).Methods("GET")
}
