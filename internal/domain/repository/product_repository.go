package repository

import (
	"github.com/shopspring/decimal"

	"github.com/comprascasa/compras-api/internal/domain/entity"
)

// CatalogRow producto con la cantidad pendiente consolidada (cero si no hay
// fila Pendiente). Es la fuente de datos de la pantalla del solicitante.
type CatalogRow struct {
	Product         entity.Product
	PendingQuantity decimal.Decimal
}

// ProductRepository define el puerto de persistencia para Product.
// Los productos nunca se eliminan; la sincronización del catálogo
// inserta o actualiza por nombre.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateLastPrice(productID string, price decimal.Decimal) error
	ListCatalog() ([]CatalogRow, error)
}
