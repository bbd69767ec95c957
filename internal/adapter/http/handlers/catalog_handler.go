package handlers

import (
	response "loncheras_plus/internal/adapter/http/dto/response"
	"loncheras_plus/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the product catalog shown in the distributor form.
type CatalogHandler struct {
	usecase usecase.ICatalogUseCase
}

func NewCatalogHandler(uc usecase.ICatalogUseCase) *CatalogHandler {
	return &CatalogHandler{usecase: uc}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.usecase.LoadCatalog(c.Request.Context())
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCatalog(products))
}
