package router

import (
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/config"
	"github.com/Verde726/my-erp-system-sub001/internal/handler"
	"github.com/Verde726/my-erp-system-sub001/internal/middleware"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"
	"github.com/Verde726/my-erp-system-sub001/internal/service"
	"github.com/Verde726/my-erp-system-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	componentRepo := repository.NewComponentRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)
	throughputRepo := repository.NewThroughputRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	capacitySvc := service.NewCapacityService(throughputRepo, rdb,
		time.Duration(cfg.CapacityCacheTTLMin)*time.Minute)
	demandSvc := service.NewDemandService(salesOrderRepo)
	conflictSvc := service.NewConflictService(scheduleRepo)
	schedulerSvc := service.NewSchedulerService(demandSvc, capacitySvc, conflictSvc,
		scheduleRepo, productRepo, cfg.CapacityLookbackDays)
	mrpSvc := service.NewMRPService(scheduleRepo, componentRepo, requirementRepo,
		cfg.OrderDateBufferDays)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	inventorySvc := service.NewInventoryService(scheduleRepo, componentRepo,
		movementRepo, alertRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	planningH := handler.NewPlanningHandler(schedulerSvc, conflictSvc)
	mrpH := handler.NewMRPHandler(mrpSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		planning := v1.Group("/planning")
		{
			planning.POST("/proposals", planningH.GenerateProposals)
			planning.POST("/conflicts", planningH.DetectConflicts)
			planning.POST("/commit", planningH.CommitProposal)
		}

		schedules := v1.Group("/schedules")
		{
			schedules.GET("/:id/requirements", mrpH.GetRequirements)
			schedules.POST("/:id/requirements", mrpH.MaterializeRequirements)
			schedules.POST("/:id/complete/:product_id", inventoryH.CompleteProduction)
			schedules.PATCH("/:id/status", planningH.UpdateScheduleStatus)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.POST("/components/:id/adjust", inventoryH.AdjustStock)
			inventory.GET("/movements", inventoryH.ListMovements)
			inventory.GET("/alerts", inventoryH.ListAlerts)
			inventory.PATCH("/alerts/:id/resolve", inventoryH.ResolveAlert)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
