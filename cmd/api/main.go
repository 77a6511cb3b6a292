package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Cava-api/docs"
	"github.com/jhoicas/Cava-api/internal/application/layout"
	"github.com/jhoicas/Cava-api/internal/application/moves"
	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/internal/application/zones"
	"github.com/jhoicas/Cava-api/internal/domain/cellar"
	"github.com/jhoicas/Cava-api/internal/domain/zone"
	"github.com/jhoicas/Cava-api/internal/infrastructure/cache"
	"github.com/jhoicas/Cava-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cava-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Cava-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cava-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Cava-api/internal/interfaces/http"
	"github.com/jhoicas/Cava-api/migrations"
	"github.com/jhoicas/Cava-api/pkg/config"
	"github.com/jhoicas/Cava-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		if err := migrations.Up(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché de propuestas; sin REDIS_ADDR la invalidación es no-op.
	var cellarCache ports.CellarCache = cache.Noop{}
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, se usará la caché no-op")
		} else {
			cellarCache = cache.NewRedisCache(rdb, cfg.Redis.KeyPrefix, cfg.Redis.LayoutTTL, log)
		}
	}

	topology := cellar.Topology{Rows: cfg.Cellar.Rows, FridgeSlots: cfg.Cellar.FridgeSlots}
	registry := zone.DefaultRegistry()
	classifier := zone.DefaultClassifier()
	recorder := metrics.NewRecorder()

	slotRepo := postgres.NewSlotRepository(pool)
	wineRepo := postgres.NewWineRepository(pool)
	allocRepo := postgres.NewZoneAllocationRepository(pool)
	layoutRepo := postgres.NewZoneLayoutRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Planes efímeros: almacén en memoria + barrido periódico de expirados.
	planStore := memory.NewPlanStore(time.Now)
	sweeper, err := memory.NewSweeper(planStore, cfg.Cellar.PlanSweepSpec, log)
	if err != nil {
		log.Fatal().Err(err).Msg("programar barrido de planes")
	}
	sweeper.Start()
	defer sweeper.Stop()

	allocator := zones.NewAllocator(allocRepo, registry, topology, cellarCache, log)
	proposer := layout.NewProposer(slotRepo, layoutRepo, txRunner, cellarCache, registry, classifier, topology, log)
	planner := layout.NewPlanner(slotRepo, layoutRepo, planStore, recorder, registry, classifier, cfg.Cellar.PlanTTL, log)
	validator := moves.NewValidator(slotRepo, wineRepo, registry, topology)
	executor := moves.NewExecutor(validator, txRunner, planner, cellarCache, recorder, log)
	moveSheet := infrapdf.NewMoveSheetGenerator(registry)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(recorder.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cava API",
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Zones:     allocator,
		Layout:    proposer,
		Planner:   planner,
		Moves:     executor,
		MoveSheet: moveSheet,
		Cache:     cellarCache,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
