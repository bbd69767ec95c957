package interfaces

import (
	"context"
	"loncheras_plus/internal/domain/entities"
)

// ICatalogProvider abstracts the external product catalog (TheMealDB desserts).
type ICatalogProvider interface {
	FetchProducts(ctx context.Context) ([]entities.CatalogProduct, error)
}
