package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo del hogar. Name es la llave
// natural de sincronización: nombres duplicados colapsan en un solo producto.
// LastPrice es el último precio real registrado por el flujo de compra.
type Product struct {
	ID          string
	Name        string
	Category    string
	Brand       string
	UnitMeasure string
	LastPrice   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
