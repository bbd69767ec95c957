package routes

import (
	"loncheras_plus/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotes  = "/quotes"
	PathCatalog = "/catalog"
)

func addQuoteRoutes(rg *gin.RouterGroup, quoteHandler *handlers.QuoteHandler) {
	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", quoteHandler.CreateQuote)
		quotes.GET("", quoteHandler.ListQuotes)
		// Static paths are registered before /:id.
		quotes.GET("/statistics", quoteHandler.GetStatistics)
		quotes.GET("/stream", quoteHandler.StreamQuotes)
		quotes.GET("/:id", quoteHandler.GetQuote)
		quotes.GET("/:id/workflow", quoteHandler.GetWorkflow)
		quotes.PATCH("/:id/status", quoteHandler.TransitionStatus)
		quotes.POST("/:id/approve", quoteHandler.ApproveQuote)
		quotes.POST("/:id/reject", quoteHandler.RejectQuote)
	}
}

func addCatalogRoutes(rg *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	rg.GET(PathCatalog, catalogHandler.ListProducts)
}
