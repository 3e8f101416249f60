package router

import (
	"time"

	"github.com/kontim1983-hub/leasing-app/internal/config"
	"github.com/kontim1983-hub/leasing-app/internal/handler"
	"github.com/kontim1983-hub/leasing-app/internal/infra"
	"github.com/kontim1983-hub/leasing-app/internal/middleware"
	"github.com/kontim1983-hub/leasing-app/internal/repository"
	"github.com/kontim1983-hub/leasing-app/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, files *infra.DiskFileStore) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	codec := infra.NewExcelCodec()

	// ── Repositories ─────────────────────────────────────────────────────────
	recordRepo := repository.NewRecordRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// One lock set shared by every mutating path: uploads, marker clears and
	// wipes of the same generation never interleave.
	locks := service.NewGenerationLocks()
	uploadSvc := service.NewUploadService(recordRepo, codec, files, locks, rdb)
	inventorySvc := service.NewInventoryService(recordRepo, files, codec, locks, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	recordsH := handler.NewRecordsHandler(inventorySvc, rdb, cfg.RecordsCacheTTL)
	uploadH := handler.NewUploadHandler(uploadSvc, cfg.MaxUploadMB)
	adminH := handler.NewAdminHandler(inventorySvc)
	exportH := handler.NewExportHandler(inventorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(recordRepo, rdb))

	api := r.Group("/api/:generation")
	{
		api.GET("/records", recordsH.List)
		api.GET("/files", recordsH.Files)
		api.POST("/upload", uploadH.Upload)
		api.POST("/clear-changed-columns", adminH.ClearChangedColumns)
		api.POST("/delete-all-records", adminH.DeleteAllRecords)
		api.GET("/export", exportH.Export)
	}

	// Swagger UI is only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
