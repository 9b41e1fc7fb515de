package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-tracker/internal/controllers"
)

func runEquipmentTypeRouter(adminGroup *echo.Group, ctrl *controllers.EquipmentTypeController) {
	typeGroup := adminGroup.Group("/equipment-types")
	{
		typeGroup.GET("", ctrl.GetEquipmentTypes)
		typeGroup.POST("", ctrl.CreateEquipmentType)
		typeGroup.GET("/:id", ctrl.FindEquipmentType)
		typeGroup.PUT("/:id", ctrl.UpdateEquipmentType)
		typeGroup.DELETE("/:id", ctrl.DeleteEquipmentType)
	}
}

// runDirectoryRouter - справочники проектов и компаний.
func runDirectoryRouter(adminGroup *echo.Group, projectCtrl *controllers.ProjectController, companyCtrl *controllers.CompanyController) {
	projectGroup := adminGroup.Group("/projects")
	{
		projectGroup.GET("", projectCtrl.GetProjects)
		projectGroup.POST("", projectCtrl.CreateProject)
		projectGroup.GET("/:id", projectCtrl.FindProject)
		projectGroup.PUT("/:id", projectCtrl.UpdateProject)
		projectGroup.DELETE("/:id", projectCtrl.DeleteProject)
	}

	companyGroup := adminGroup.Group("/companies")
	{
		companyGroup.GET("", companyCtrl.GetCompanies)
		companyGroup.POST("", companyCtrl.CreateCompany)
		companyGroup.GET("/:id", companyCtrl.FindCompany)
		companyGroup.PUT("/:id", companyCtrl.UpdateCompany)
		companyGroup.DELETE("/:id", companyCtrl.DeleteCompany)
	}
}
