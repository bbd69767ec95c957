package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/internal/usecase/interfaces"
	"net/http"
	"os"
	"time"
)

// DefaultDessertsURL lists TheMealDB desserts, used as the snack catalog.
const DefaultDessertsURL = "https://www.themealdb.com/api/json/v1/1/filter.php?c=Dessert"

type mealsResponse struct {
	Meals []struct {
		StrMeal      string `json:"strMeal"`
		StrMealThumb string `json:"strMealThumb"`
	} `json:"meals"`
}

// TheMealDBClient fetches the public dessert list. It makes a single attempt per call;
// retries and fallback belong to usecase.CatalogUseCase.
type TheMealDBClient struct {
	httpClient *http.Client
	url        string
}

var _ interfaces.ICatalogProvider = (*TheMealDBClient)(nil)

func NewTheMealDBClient(url string, timeout time.Duration) *TheMealDBClient {
	if url == "" {
		url = DefaultDessertsURL
	}
	return &TheMealDBClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

// NewTheMealDBClientFromEnv reads CATALOG_URL.
func NewTheMealDBClientFromEnv() *TheMealDBClient {
	return NewTheMealDBClient(os.Getenv("CATALOG_URL"), 10*time.Second)
}

func (c *TheMealDBClient) FetchProducts(ctx context.Context) ([]entities.CatalogProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog request: HTTP %d", resp.StatusCode)
	}

	var body mealsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]entities.CatalogProduct, 0, len(body.Meals))
	for _, m := range body.Meals {
		products = append(products, entities.CatalogProduct{Name: m.StrMeal, ImageURL: m.StrMealThumb})
	}
	return products, nil
}
