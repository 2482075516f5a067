package usecase

import (
	"context"

	"github.com/comprascasa/compras-api/internal/domain/repository"
)

// Actor identifica quién dispara una operación sobre el libro de solicitudes.
// Todas las operaciones mutadoras se atribuyen a un (userID, rol).
type Actor struct {
	UserID string
	Role   string
}

// TxRunner ejecuta un callback con repos atados a una transacción; Commit si
// el callback retorna nil, Rollback si no. Lo implementa postgres.TxRunner.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ShoppingItemRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ProductRecord tupla (nombre, categoría, marca, unidad) producida por el
// feed tabular del catálogo.
type ProductRecord struct {
	Name        string
	Category    string
	Brand       string
	UnitMeasure string
}

// CatalogFeed puerto del colaborador externo que obtiene y parsea el feed
// tabular. Devuelve los registros y una etiqueta de la fuente usada.
type CatalogFeed interface {
	Fetch(ctx context.Context) ([]ProductRecord, string, error)
}
