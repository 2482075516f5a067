package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comprascasa/compras-api/internal/application/dto"
	"github.com/comprascasa/compras-api/internal/domain"
	"github.com/comprascasa/compras-api/internal/domain/entity"
	"github.com/comprascasa/compras-api/internal/domain/repository"
)

// Valores por defecto para registros del feed sin categoría o unidad.
const (
	defaultCategory    = "General"
	defaultUnitMeasure = "Unidad"
)

// CatalogUseCase listado del catálogo y sincronización desde el feed tabular.
// El nombre de producto es la llave natural: registros con nombre ya visto
// actualizan categoría/marca/unidad en el producto existente, los demás crean
// uno nuevo. Los productos nunca se eliminan.
type CatalogUseCase struct {
	repo repository.ProductRepository
	feed CatalogFeed
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.ProductRepository, feed CatalogFeed) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, feed: feed}
}

// List devuelve el catálogo con la cantidad pendiente consolidada por
// producto (la fuente de datos de la pantalla del solicitante).
func (uc *CatalogUseCase) List() (*dto.CatalogListResponse, error) {
	rows, err := uc.repo.ListCatalog()
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogItemResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.CatalogItemResponse{
			ID:              r.Product.ID,
			Name:            r.Product.Name,
			Category:        r.Product.Category,
			Brand:           r.Product.Brand,
			UnitMeasure:     r.Product.UnitMeasure,
			LastPrice:       r.Product.LastPrice,
			PendingQuantity: r.PendingQuantity,
			UpdatedAt:       r.Product.UpdatedAt,
		})
	}
	return &dto.CatalogListResponse{Items: items, Total: len(items)}, nil
}

// Sync descarga el feed y aplica upsertProduct registro a registro. Cada
// registro se procesa de forma independiente; los de nombre vacío se saltan.
func (uc *CatalogUseCase) Sync(ctx context.Context) (*dto.SyncResponse, error) {
	records, source, err := uc.feed.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	res := &dto.SyncResponse{Source: source}
	for _, rec := range records {
		created, err := uc.UpsertProduct(rec)
		if err != nil {
			res.Skipped++
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

// UpsertProduct inserta el producto si el nombre no se ha visto, o actualiza
// categoría/marca/unidad en su lugar. Devuelve true si se creó uno nuevo.
func (uc *CatalogUseCase) UpsertProduct(rec ProductRecord) (bool, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return false, domain.ErrInvalidInput
	}
	category := strings.TrimSpace(rec.Category)
	if category == "" {
		category = defaultCategory
	}
	uom := strings.TrimSpace(rec.UnitMeasure)
	if uom == "" {
		uom = defaultUnitMeasure
	}
	brand := strings.TrimSpace(rec.Brand)

	existing, err := uc.repo.GetByName(name)
	if err != nil {
		return false, err
	}
	now := time.Now()
	if existing != nil {
		existing.Category = category
		existing.Brand = brand
		existing.UnitMeasure = uom
		existing.UpdatedAt = now
		return false, uc.repo.Update(existing)
	}
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    category,
		Brand:       brand,
		UnitMeasure: uom,
		LastPrice:   decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return true, uc.repo.Create(product)
}
