package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cava-api/internal/application/ports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Zones     ZoneService
	Layout    LayoutService
	Planner   PlanService
	Moves     MoveService
	MoveSheet ports.MoveSheetGenerator
	Cache     ports.CellarCache
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token con cellar_id.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Zonas
	zones := api.Group("/zones")
	zoneHandler := NewZoneHandler(deps.Zones)
	zones.Get("/map", zoneHandler.GetMap)
	zones.Get("/status", zoneHandler.GetStatuses)
	zones.Get("/allocations", zoneHandler.GetAllocations)
	zones.Get("/:zoneId/rows", zoneHandler.GetRows)
	zones.Post("/:zoneId/wine-events", zoneHandler.RecordWineEvent)

	// Hook de invalidación para el CRUD de vinos
	cacheHandler := NewCacheHandler(deps.Cache)
	api.Post("/cellar/cache/invalidate", cacheHandler.Invalidate)

	// Layout objetivo
	layoutGroup := api.Group("/layout")
	layoutHandler := NewLayoutHandler(deps.Layout, deps.Planner)
	layoutGroup.Get("/", layoutHandler.GetSaved)
	layoutGroup.Put("/", layoutHandler.Save)
	layoutGroup.Get("/proposal", layoutHandler.Propose)
	layoutGroup.Get("/consolidation", layoutHandler.Consolidation)

	// Planes de reconfiguración
	plans := api.Group("/reconfiguration/plans")
	planHandler := NewPlanHandler(deps.Planner, deps.Moves, deps.MoveSheet)
	plans.Post("/", planHandler.Create)
	plans.Get("/:id", planHandler.GetByID)
	plans.Get("/:id/pdf", planHandler.GetPDF)
	plans.Post("/:id/apply", planHandler.Apply)

	// Movimientos
	movesGroup := api.Group("/moves")
	moveHandler := NewMoveHandler(deps.Moves)
	movesGroup.Post("/validate", moveHandler.Validate)
	movesGroup.Post("/execute", moveHandler.Execute)
}
