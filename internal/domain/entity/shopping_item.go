package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingItem es una línea del libro de solicitudes: referencia un producto
// y al usuario solicitante, y avanza por el ciclo de vida
// Pendiente → Aprobado/Rechazado → Comprado/Postergado.
//
// Invariante: a lo sumo una línea Pendiente por producto. Las cantidades
// deseadas de todos los solicitantes se consolidan en esa única fila
// (la última escritura gana).
type ShoppingItem struct {
	ID                string
	ProductID         string
	RequesterID       string
	QuantityRequested decimal.Decimal
	QuantityApproved  *decimal.Decimal // nil hasta la aprobación
	Status            string           // ver internal/domain/lifecycle
	PriceReal         *decimal.Decimal // total de línea pagado, nil hasta la compra
	ShoppingDate      *time.Time       // nil hasta la compra
	CreatedAt         time.Time
}
