package usecase_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/comprascasa/compras-api/internal/application/usecase"
	"github.com/comprascasa/compras-api/internal/domain"
	"github.com/comprascasa/compras-api/internal/domain/entity"
	"github.com/comprascasa/compras-api/internal/domain/lifecycle"
	"github.com/comprascasa/compras-api/internal/domain/repository"
)

// fakeStore guarda en memoria usuarios, productos y líneas, con la misma
// semántica compare-and-set y el mismo índice único parcial que el esquema
// PostgreSQL real.
type fakeStore struct {
	users    map[string]*entity.User
	products map[string]*entity.Product
	items    map[string]*entity.ShoppingItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*entity.User),
		products: make(map[string]*entity.Product),
		items:    make(map[string]*entity.ShoppingItem),
	}
}

func (s *fakeStore) addUser(id, username, role string) {
	s.users[id] = &entity.User{ID: id, Username: username, Role: role}
}

func (s *fakeStore) addProduct(id, name, category, uom string, lastPrice decimal.Decimal) {
	s.products[id] = &entity.Product{
		ID: id, Name: name, Category: category, UnitMeasure: uom, LastPrice: lastPrice,
	}
}

func copyItem(it *entity.ShoppingItem) *entity.ShoppingItem {
	if it == nil {
		return nil
	}
	c := *it
	return &c
}

// ── UserRepository ────────────────────────────────────────────────────────────

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(u *entity.User) error {
	for _, ex := range r.s.users {
		if ex.Username == u.Username {
			return domain.ErrUsernameExists
		}
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return r.s.users[id], nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePassword(id, hash string) error {
	if u, ok := r.s.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *fakeUserRepo) Count() (int, error) { return len(r.s.users), nil }

func (r *fakeUserRepo) List() ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	return out, nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *fakeProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) UpdateLastPrice(productID string, price decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.LastPrice = price
	return nil
}

func (r *fakeProductRepo) ListCatalog() ([]repository.CatalogRow, error) {
	rows := make([]repository.CatalogRow, 0, len(r.s.products))
	for _, p := range r.s.products {
		pending := decimal.Zero
		for _, it := range r.s.items {
			if it.ProductID == p.ID && it.Status == string(lifecycle.StatusPendiente) {
				pending = pending.Add(it.QuantityRequested)
			}
		}
		rows = append(rows, repository.CatalogRow{Product: *p, PendingQuantity: pending})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Product.Name < rows[j].Product.Name })
	return rows, nil
}

// ── ShoppingItemRepository ────────────────────────────────────────────────────

type fakeItemRepo struct{ s *fakeStore }

func (r *fakeItemRepo) GetByID(id string) (*entity.ShoppingItem, error) {
	return copyItem(r.s.items[id]), nil
}

func (r *fakeItemRepo) GetPendingByProduct(productID string) (*entity.ShoppingItem, error) {
	for _, it := range r.s.items {
		if it.ProductID == productID && it.Status == string(lifecycle.StatusPendiente) {
			return copyItem(it), nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) InsertPending(item *entity.ShoppingItem) error {
	// Índice único parcial: una sola fila Pendiente por producto.
	for _, it := range r.s.items {
		if it.ProductID == item.ProductID && it.Status == string(lifecycle.StatusPendiente) {
			return domain.ErrDuplicate
		}
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.s.items[item.ID] = copyItem(item)
	return nil
}

func (r *fakeItemRepo) UpdatePendingQuantity(itemID, requesterID string, quantity decimal.Decimal) (bool, error) {
	it, ok := r.s.items[itemID]
	if !ok || it.Status != string(lifecycle.StatusPendiente) {
		return false, nil
	}
	it.RequesterID = requesterID
	it.QuantityRequested = quantity
	return true, nil
}

func (r *fakeItemRepo) DeletePending(itemID string) (bool, error) {
	it, ok := r.s.items[itemID]
	if !ok || it.Status != string(lifecycle.StatusPendiente) {
		return false, nil
	}
	delete(r.s.items, itemID)
	return true, nil
}

func (r *fakeItemRepo) Approve(itemID string, quantity decimal.Decimal) (bool, error) {
	it, ok := r.s.items[itemID]
	if !ok || it.Status != string(lifecycle.StatusPendiente) {
		return false, nil
	}
	it.Status = string(lifecycle.StatusAprobado)
	it.QuantityApproved = &quantity
	return true, nil
}

func (r *fakeItemRepo) Reject(itemID string) (bool, error) {
	it, ok := r.s.items[itemID]
	if !ok || it.Status != string(lifecycle.StatusPendiente) {
		return false, nil
	}
	it.Status = string(lifecycle.StatusRechazado)
	return true, nil
}

func buyableStatus(status string) bool {
	return status == string(lifecycle.StatusAprobado) || status == string(lifecycle.StatusPostergado)
}

func (r *fakeItemRepo) MarkPurchased(itemID string, price, quantity decimal.Decimal, date time.Time) (bool, error) {
	it, ok := r.s.items[itemID]
	if !ok || !buyableStatus(it.Status) {
		return false, nil
	}
	it.Status = string(lifecycle.StatusComprado)
	it.PriceReal = &price
	it.QuantityApproved = &quantity
	it.ShoppingDate = &date
	return true, nil
}

func (r *fakeItemRepo) Defer(itemID string) (bool, error) {
	it, ok := r.s.items[itemID]
	if !ok || !buyableStatus(it.Status) {
		return false, nil
	}
	it.Status = string(lifecycle.StatusPostergado)
	return true, nil
}

func (r *fakeItemRepo) ListPending() ([]repository.PendingRow, error) {
	var rows []repository.PendingRow
	for _, it := range r.s.items {
		if it.Status != string(lifecycle.StatusPendiente) {
			continue
		}
		row := repository.PendingRow{Item: *it}
		if p, ok := r.s.products[it.ProductID]; ok {
			row.ProductName = p.Name
			row.UnitMeasure = p.UnitMeasure
		}
		if u, ok := r.s.users[it.RequesterID]; ok {
			row.Requester = u.Username
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Item.CreatedAt.Before(rows[j].Item.CreatedAt)
	})
	return rows, nil
}

func (r *fakeItemRepo) ListBuyable() ([]repository.BuyableRow, error) {
	var rows []repository.BuyableRow
	for _, it := range r.s.items {
		if !buyableStatus(it.Status) {
			continue
		}
		row := repository.BuyableRow{Item: *it}
		if p, ok := r.s.products[it.ProductID]; ok {
			row.ProductName = p.Name
			row.Category = p.Category
			row.UnitMeasure = p.UnitMeasure
			row.LastPrice = p.LastPrice
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].ProductName < rows[j].ProductName
	})
	return rows, nil
}

func (r *fakeItemRepo) ListPurchased() ([]repository.PurchasedRow, error) {
	var rows []repository.PurchasedRow
	for _, it := range r.s.items {
		if it.Status != string(lifecycle.StatusComprado) {
			continue
		}
		row := repository.PurchasedRow{Item: *it}
		if p, ok := r.s.products[it.ProductID]; ok {
			row.ProductName = p.Name
			row.Category = p.Category
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		di, dj := rows[i].Item.ShoppingDate, rows[j].Item.ShoppingDate
		if di == nil || dj == nil {
			return dj == nil
		}
		return di.After(*dj)
	})
	return rows, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta el callback contra los mismos repos en memoria; no hay
// transaccionalidad real que emular en un test de un solo hilo.
type fakeTxRunner struct {
	itemRepo    repository.ShoppingItemRepository
	productRepo repository.ProductRepository
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	itemRepo repository.ShoppingItemRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(r.itemRepo, r.productRepo)
}

// ── Armado del entorno de test ────────────────────────────────────────────────

type env struct {
	store     *fakeStore
	userRepo  *fakeUserRepo
	prodRepo  *fakeProductRepo
	itemRepo  *fakeItemRepo
	requestUC *usecase.RequestUseCase
}

func newEnv() *env {
	s := newFakeStore()
	userRepo := &fakeUserRepo{s: s}
	prodRepo := &fakeProductRepo{s: s}
	itemRepo := &fakeItemRepo{s: s}
	tx := &fakeTxRunner{itemRepo: itemRepo, productRepo: prodRepo}
	return &env{
		store:     s,
		userRepo:  userRepo,
		prodRepo:  prodRepo,
		itemRepo:  itemRepo,
		requestUC: usecase.NewRequestUseCase(tx, itemRepo, prodRepo, userRepo),
	}
}
