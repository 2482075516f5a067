package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comprascasa/compras-api/internal/application/dto"
	"github.com/comprascasa/compras-api/internal/domain"
	"github.com/comprascasa/compras-api/internal/domain/entity"
	"github.com/comprascasa/compras-api/internal/domain/lifecycle"
	"github.com/comprascasa/compras-api/internal/domain/repository"
)

// RequestUseCase operaciones del libro de solicitudes: upsert de la fila
// pendiente, aprobación/rechazo, compra y postergación. Los permisos por rol
// se verifican una sola vez aquí, contra la tabla de internal/domain/lifecycle;
// las transiciones se ejecutan como compare-and-set en el repositorio, de modo
// que la precondición de estado y la escritura son atómicas.
type RequestUseCase struct {
	txRunner    TxRunner
	itemRepo    repository.ShoppingItemRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(
	txRunner TxRunner,
	itemRepo repository.ShoppingItemRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *RequestUseCase {
	return &RequestUseCase{
		txRunner:    txRunner,
		itemRepo:    itemRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// resultado de aplicar un cambio de cantidad sobre un producto.
type upsertOutcome int

const (
	outcomeSaved upsertOutcome = iota
	outcomeRemoved
	outcomeNoop
)

// UpsertPendingRequest fija la cantidad deseada de un producto. Con cantidad
// positiva crea o sobrescribe la única fila Pendiente del producto (la última
// escritura gana, incluida la atribución del solicitante); con cantidad cero
// elimina la fila si existe. Idempotente: repetir el mismo (producto,
// cantidad) converge a una sola fila.
func (uc *RequestUseCase) UpsertPendingRequest(ctx context.Context, actor Actor, productID string, quantity decimal.Decimal) (*dto.ItemResponse, error) {
	if !lifecycle.Allowed(actor.Role, lifecycle.ActionSolicitar) {
		return nil, domain.ErrForbidden
	}
	outcome, item, err := uc.applyQuantity(ctx, actor, productID, quantity)
	if err != nil {
		return nil, err
	}
	if outcome != outcomeSaved {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// applyQuantity ejecuta el upsert/eliminación dentro de una transacción.
// El índice único parcial serializa upserts concurrentes del mismo producto.
func (uc *RequestUseCase) applyQuantity(ctx context.Context, actor Actor, productID string, quantity decimal.Decimal) (upsertOutcome, *entity.ShoppingItem, error) {
	if quantity.IsNegative() {
		return outcomeNoop, nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return outcomeNoop, nil, err
	}
	if product == nil {
		return outcomeNoop, nil, domain.ErrNotFound
	}
	requester, err := uc.userRepo.GetByID(actor.UserID)
	if err != nil {
		return outcomeNoop, nil, err
	}
	if requester == nil {
		return outcomeNoop, nil, domain.ErrUserNotFound
	}

	var outcome upsertOutcome
	var result *entity.ShoppingItem
	err = uc.txRunner.Run(ctx, func(itemRepo repository.ShoppingItemRepository, _ repository.ProductRepository) error {
		existing, err := itemRepo.GetPendingByProduct(productID)
		if err != nil {
			return err
		}

		if quantity.IsZero() {
			if existing == nil {
				outcome = outcomeNoop // nada que borrar
				return nil
			}
			if _, err := itemRepo.DeletePending(existing.ID); err != nil {
				return err
			}
			outcome = outcomeRemoved
			return nil
		}

		if existing != nil {
			ok, err := itemRepo.UpdatePendingQuantity(existing.ID, actor.UserID, quantity)
			if err != nil {
				return err
			}
			if ok {
				existing.RequesterID = actor.UserID
				existing.QuantityRequested = quantity
				outcome = outcomeSaved
				result = existing
				return nil
			}
			// La fila dejó de estar Pendiente entre la lectura y la
			// escritura: cae al insert de una fila nueva.
		}

		item := &entity.ShoppingItem{
			ID:                uuid.New().String(),
			ProductID:         productID,
			RequesterID:       actor.UserID,
			QuantityRequested: quantity,
			Status:            string(lifecycle.StatusPendiente),
			CreatedAt:         time.Now(),
		}
		if err := itemRepo.InsertPending(item); err != nil {
			return err
		}
		outcome = outcomeSaved
		result = item
		return nil
	})
	if err != nil {
		return outcomeNoop, nil, err
	}
	return outcome, result, nil
}

// ApplyChangeSet aplica el conjunto de cambios acumulados por el solicitante.
// Cada fila se procesa de forma independiente: una fila mala no aborta el
// lote, y el resultado reporta conteos agregados.
func (uc *RequestUseCase) ApplyChangeSet(ctx context.Context, actor Actor, in dto.ChangeSetRequest) (*dto.ChangeSetResult, error) {
	if !lifecycle.Allowed(actor.Role, lifecycle.ActionSolicitar) {
		return nil, domain.ErrForbidden
	}
	res := &dto.ChangeSetResult{}
	for _, change := range in.Items {
		outcome, _, err := uc.applyQuantity(ctx, actor, change.ProductID, change.Quantity)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("producto %s: %v", change.ProductID, err))
			continue
		}
		switch outcome {
		case outcomeSaved:
			res.Saved++
		case outcomeRemoved:
			res.Removed++
		}
	}
	return res, nil
}

// Approve transiciona una línea Pendiente a Aprobado con la cantidad final
// (el aprobador puede ajustarla hacia arriba o hacia abajo).
func (uc *RequestUseCase) Approve(ctx context.Context, actor Actor, itemID string, quantity decimal.Decimal) (*dto.ItemResponse, error) {
	if !lifecycle.Allowed(actor.Role, lifecycle.ActionAprobar) {
		return nil, domain.ErrForbidden
	}
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	ok, err := uc.itemRepo.Approve(itemID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, uc.classifyFailure(itemID)
	}
	return uc.refreshed(itemID)
}

// Reject transiciona una línea Pendiente a Rechazado (terminal).
func (uc *RequestUseCase) Reject(ctx context.Context, actor Actor, itemID string) (*dto.ItemResponse, error) {
	if !lifecycle.Allowed(actor.Role, lifecycle.ActionRechazar) {
		return nil, domain.ErrForbidden
	}
	ok, err := uc.itemRepo.Reject(itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, uc.classifyFailure(itemID)
	}
	return uc.refreshed(itemID)
}

// ProcessApprovals procesa un lote de decisiones. Si una fila viene marcada
// con aprobar y rechazar a la vez gana el rechazo. Cada fila es independiente
// y el resultado reporta conteos de éxito y fallo.
func (uc *RequestUseCase) ProcessApprovals(ctx context.Context, actor Actor, in dto.ApprovalsRequest) (*dto.ApprovalsResult, error) {
	if !lifecycle.Allowed(actor.Role, lifecycle.ActionAprobar) {
		return nil, domain.ErrForbidden
	}
	res := &dto.ApprovalsResult{}
	for _, d := range in.Items {
		switch {
		case d.Reject:
			// Rechazo gana sobre aprobación marcada por error.
			if _, err := uc.Reject(ctx, actor, d.ItemID); err != nil {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Sprintf("línea %s: %v", d.ItemID, err))
				continue
			}
			res.Rejected++
		case d.Approve:
			if _, err := uc.Approve(ctx, actor, d.ItemID, d.Quantity); err != nil {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Sprintf("línea %s: %v", d.ItemID, err))
				continue
			}
			res.Approved++
		}
		// Sin marcas: la fila se deja intacta.
	}
	return res, nil
}

// MarkPurchased transiciona Aprobado/Postergado a Comprado, estampando el
// total de línea pagado y la cantidad real, y propaga el precio como
// referencia del producto. Transición y propagación comparten transacción.
func (uc *RequestUseCase) MarkPurchased(ctx context.Context, actor Actor, itemID string, price, quantity decimal.Decimal) (*dto.ItemResponse, error) {
	if !lifecycle.Allowed(actor.Role, lifecycle.ActionComprar) {
		return nil, domain.ErrForbidden
	}
	if price.IsNegative() || !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ShoppingItemRepository, productRepo repository.ProductRepository) error {
		item, err := itemRepo.GetByID(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		ok, err := itemRepo.MarkPurchased(itemID, price, quantity, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidTransition
		}
		return productRepo.UpdateLastPrice(item.ProductID, price)
	})
	if err != nil {
		return nil, err
	}
	return uc.refreshed(itemID)
}

// Defer transiciona Aprobado/Postergado a Postergado: la línea se salta en
// esta pasada de compra pero sigue accionable. Idempotente.
func (uc *RequestUseCase) Defer(ctx context.Context, actor Actor, itemID string) (*dto.ItemResponse, error) {
	if !lifecycle.Allowed(actor.Role, lifecycle.ActionPostergar) {
		return nil, domain.ErrForbidden
	}
	ok, err := uc.itemRepo.Defer(itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, uc.classifyFailure(itemID)
	}
	return uc.refreshed(itemID)
}

// ListPending devuelve la cola de aprobación en orden de llegada.
func (uc *RequestUseCase) ListPending() ([]dto.PendingItemResponse, error) {
	rows, err := uc.itemRepo.ListPending()
	if err != nil {
		return nil, err
	}
	items := make([]dto.PendingItemResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.PendingItemResponse{
			ID:          r.Item.ID,
			ProductName: r.ProductName,
			UnitMeasure: r.UnitMeasure,
			Quantity:    r.Item.QuantityRequested,
			Requester:   r.Requester,
			CreatedAt:   r.Item.CreatedAt,
		})
	}
	return items, nil
}

// ListBuyable devuelve las líneas por comprar agrupadas por categoría y
// nombre, con el último precio conocido como referencia.
func (uc *RequestUseCase) ListBuyable() ([]dto.BuyableItemResponse, error) {
	rows, err := uc.itemRepo.ListBuyable()
	if err != nil {
		return nil, err
	}
	items := make([]dto.BuyableItemResponse, 0, len(rows))
	for _, r := range rows {
		qty := r.Item.QuantityRequested
		if r.Item.QuantityApproved != nil {
			qty = *r.Item.QuantityApproved
		}
		items = append(items, dto.BuyableItemResponse{
			ID:               r.Item.ID,
			ProductName:      r.ProductName,
			Category:         r.Category,
			UnitMeasure:      r.UnitMeasure,
			QuantityApproved: qty,
			LastPrice:        r.LastPrice,
			Status:           r.Item.Status,
		})
	}
	return items, nil
}

// classifyFailure distingue por qué falló un compare-and-set: la línea no
// existe (NotFound) o está en un estado que no cumple la precondición
// (InvalidTransition). En ambos casos no se escribió nada.
func (uc *RequestUseCase) classifyFailure(itemID string) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidTransition
}

func (uc *RequestUseCase) refreshed(itemID string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

func toItemResponse(it *entity.ShoppingItem) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:               it.ID,
		ProductID:        it.ProductID,
		RequesterID:      it.RequesterID,
		Quantity:         it.QuantityRequested,
		QuantityApproved: it.QuantityApproved,
		Status:           it.Status,
		PriceReal:        it.PriceReal,
		ShoppingDate:     it.ShoppingDate,
		CreatedAt:        it.CreatedAt,
	}
}
