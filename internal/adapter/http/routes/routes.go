package routes

import (
	"log"
	_ "loncheras_plus/docs" // This will be auto-generated
	"loncheras_plus/internal/adapter/http/handlers"
	"loncheras_plus/internal/adapter/http/middleware"
	"loncheras_plus/internal/adapter/persistence/repository"
	"loncheras_plus/internal/infrastructure/catalog"
	"loncheras_plus/internal/infrastructure/database"
	"loncheras_plus/internal/infrastructure/metrics"
	"loncheras_plus/internal/usecase"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const DefaultPort = "8080"

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	getRoutes()

	err := router.Run(":" + getenvDefault("PORT", DefaultPort))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()

	quoteRepo := repository.NewQuoteDynamoRepository(ddb)
	quoteFeed := repository.NewQuoteFeed(quoteRepo)

	quoteUseCase := usecase.NewQuoteUseCase(
		quoteFeed,
		usecase.WithDeletionDelay(durationMillisFromEnv("QUOTE_DELETE_DELAY_MS", usecase.DefaultDeletionDelay)),
		usecase.WithObserver(metrics.NewQuoteMetrics(prometheus.DefaultRegisterer)),
	)
	catalogUseCase := usecase.NewCatalogUseCase(
		catalog.NewTheMealDBClientFromEnv(),
		durationFromEnv("CATALOG_CACHE_TTL", usecase.DefaultCatalogCacheTTL),
	)

	quoteHandler := handlers.NewQuoteHandler(quoteUseCase)
	catalogHandler := handlers.NewCatalogHandler(catalogUseCase)

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Printf("[routes] AUTH_JWT_SECRET is empty, every authenticated request will be rejected")
	}

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)

	// Rotas autenticadas
	authed := v1.Group("")
	authed.Use(middleware.Auth([]byte(secret)))
	addQuoteRoutes(authed, quoteHandler)
	addCatalogRoutes(authed, catalogHandler)
}

func setMiddlewares() {
	router.Use(middleware.Metrics())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationMillisFromEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		log.Printf("[routes] invalid %s=%q, using %s", key, v, def)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[routes] invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
