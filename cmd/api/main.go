package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/orderflow-api/internal/application/inventory"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/application/purchasing"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	infraai "github.com/jhoicas/orderflow-api/internal/infrastructure/ai"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/lock"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/metrics"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/orderflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/orderflow-api/internal/interfaces/http"
	"github.com/jhoicas/orderflow-api/pkg/config"
	"github.com/jhoicas/orderflow-api/pkg/jwt"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	tx, stores, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	locker, closeLocker := openLocker(ctx, cfg, log)
	defer closeLocker()

	m := metrics.New()

	var notifier ports.ApprovalNotifier = notify.NewLogNotifier(log)
	if cfg.SMTP.Enabled() {
		notifier = notify.NewBreakerNotifier(notify.NewSMTPNotifier(cfg.SMTP), notify.DefaultBreakerConfig(), m, log)
	} else {
		log.Warn().Msg("SMTP no configurado, las solicitudes de aprobación solo se registran en el log")
	}
	if cfg.Approval.ApproverEmail == "" {
		log.Warn().Msg("APPROVER_EMAIL vacío, no se enviarán solicitudes de aprobación")
	}

	signer := jwt.ApprovalSigner{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, TTL: cfg.Approval.TokenTTL}

	catalogUC := inventory.NewCatalogUseCase(tx, locker, stores)
	transferUC := inventory.NewTransferUseCase(tx, locker)
	despatchUC := inventory.NewDespatchUseCase(tx, locker, stores)
	lifecycleUC := purchasing.NewLifecycleUseCase(tx, locker, stores, notifier, signer, purchasing.LifecycleConfig{
		PublicURL:     cfg.App.PublicURL,
		ApproverEmail: cfg.Approval.ApproverEmail,
	}, log)
	receptionUC := purchasing.NewReceptionUseCase(tx, locker, log)

	// PDF: notas de entrega y órdenes de compra
	renderer := infrapdf.NewMarotoRenderer(cfg.App.Name)
	documentsUC := usecase.NewDocumentUseCase(stores, renderer)
	exportUC := usecase.NewExportUseCase(lifecycleUC, catalogUC, xlsx.NewExporter())

	var aiUC *usecase.AIUseCase
	if cfg.Gemini.APIKey != "" {
		aiUC = usecase.NewAIUseCase(infraai.NewGeminiService(cfg.Gemini), stores.Items, stores.Suppliers)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "OrderFlow API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:    catalogUC,
		Transfer:   transferUC,
		Despatch:   despatchUC,
		Lifecycle:  lifecycleUC,
		Reception:  receptionUC,
		LocationUC: usecase.NewLocationUseCase(stores.Locations, tx),
		SupplierUC: usecase.NewSupplierUseCase(stores.Suppliers),
		ClientUC:   usecase.NewClientUseCase(stores.Clients, stores.Projects),
		ProjectUC:  usecase.NewProjectUseCase(stores.Projects, stores.Clients),
		Documents:  documentsUC,
		Export:     exportUC,
		AIUC:       aiUC,
		Metrics:    m,
		JWTSecret:  cfg.JWT.Secret,
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

// openStore abre el almacén configurado. "memory" no persiste entre reinicios.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.TxRunner, repository.Stores, func()) {
	if cfg.Store.Driver == "memory" {
		store := memory.New()
		return store, store.Stores(), func() {}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("migración del esquema")
	}
	tx := postgres.NewTxRunner(pool, cfg.Store.Timeout, cfg.Store.MaxRetries, log)
	return tx, postgres.NewStores(pool), pool.Close
}

// openLocker usa Redis cuando hay varias réplicas; sin REDIS_ADDR el bloqueo es en proceso.
func openLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.KeyedLocker, func()) {
	if !cfg.Redis.Enabled() {
		return lock.NewLocalLocker(), func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
	}
	return lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, log), func() { _ = rdb.Close() }
}
