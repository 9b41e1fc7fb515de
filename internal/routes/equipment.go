package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-tracker/internal/controllers"
)

// runScannerRouter - маршруты после сканирования QR-кода, доступны без входа.
func runScannerRouter(
	publicGroup *echo.Group,
	equipmentCtrl *controllers.EquipmentController,
	inspectionCtrl *controllers.InspectionController,
) {
	publicGroup.GET("/equipment/:code", equipmentCtrl.FindByCode)
	publicGroup.GET("/equipment/:code/checklist", inspectionCtrl.ChecklistSheet)
	publicGroup.POST("/equipment/:code/inspections", inspectionCtrl.SubmitWorker)
}

// runFieldRouter - инспекторы и администраторы.
func runFieldRouter(
	fieldGroup *echo.Group,
	equipmentCtrl *controllers.EquipmentController,
	inspectionCtrl *controllers.InspectionController,
	locationCtrl *controllers.LocationController,
) {
	codeGroup := fieldGroup.Group("/equipment/code/:code")
	{
		codeGroup.GET("", equipmentCtrl.FindByCode)
		codeGroup.GET("/checklist", inspectionCtrl.ChecklistSheet)
		codeGroup.POST("/inspections", inspectionCtrl.SubmitInspector)
		codeGroup.POST("/location", locationCtrl.LogLocation)
		codeGroup.GET("/history", locationCtrl.History)
	}
	fieldGroup.GET("/personnel/inspections", inspectionCtrl.MyInspections)
}

func runEquipmentRouter(
	adminGroup *echo.Group,
	equipmentCtrl *controllers.EquipmentController,
	inspectionCtrl *controllers.InspectionController,
) {
	equipmentGroup := adminGroup.Group("/equipment")
	{
		equipmentGroup.GET("", equipmentCtrl.GetEquipments)
		equipmentGroup.POST("", equipmentCtrl.CreateEquipment)
		equipmentGroup.POST("/import", equipmentCtrl.ImportEquipment)
		equipmentGroup.GET("/:id", equipmentCtrl.FindEquipment)
		equipmentGroup.PUT("/:id", equipmentCtrl.UpdateEquipment)
		equipmentGroup.PUT("/:id/status", equipmentCtrl.OverrideStatus)
		equipmentGroup.GET("/:id/inspections", inspectionCtrl.ListByEquipment)
	}
}
