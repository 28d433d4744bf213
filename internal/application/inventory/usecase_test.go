package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmavida/farmavida-api/internal/application/inventory"
	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
	invdomain "github.com/farmavida/farmavida-api/internal/domain/inventory"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore guarda el estado; el fakeTxRunner clona el estado antes de ejecutar el
// callback y solo publica el clon si no hubo error, imitando commit/rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	items     map[string]*entity.Item
	lots      map[string]*entity.Lot
	movements []*entity.Movement
}

func newMemStore() *memStore {
	return &memStore{
		items: make(map[string]*entity.Item),
		lots:  make(map[string]*entity.Lot),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, it := range s.items {
		cp := *it
		c.items[id] = &cp
	}
	for id, l := range s.lots {
		cp := *l
		c.lots[id] = &cp
	}
	c.movements = append(c.movements, s.movements...)
	return c
}

type fakeItemRepo struct{ s *memStore }

func (r *fakeItemRepo) Create(item *entity.Item) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) GetByBarcode(barcode string) (*entity.Item, error) {
	for _, it := range r.s.items {
		if it.Barcode == barcode {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error) { return r.GetByID(id) }

func (r *fakeItemRepo) Update(item *entity.Item) error {
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) UpdateStock(id string, stock int64, updatedAt time.Time) error {
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Stock = stock
	it.UpdatedAt = updatedAt
	return nil
}

func (r *fakeItemRepo) List(repository.ItemFilter) ([]*entity.Item, int64, error) {
	return nil, 0, nil
}

func (r *fakeItemRepo) ListLowStock(int64, int) ([]*entity.Item, error) { return nil, nil }

func (r *fakeItemRepo) Delete(id string) error {
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

type fakeLotRepo struct{ s *memStore }

func sameKey(a *string, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameExpiry(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (r *fakeLotRepo) GetByKeyForUpdate(itemID string, code *string, expiry *time.Time) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.ItemID == itemID && sameKey(l.Code, code) && sameExpiry(l.Expiry, expiry) {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeLotRepo) Create(lot *entity.Lot) error {
	if existing, _ := r.GetByKeyForUpdate(lot.ItemID, lot.Code, lot.Expiry); existing != nil {
		return domain.ErrDuplicate
	}
	cp := *lot
	r.s.lots[lot.ID] = &cp
	return nil
}

func (r *fakeLotRepo) UpdateStock(id string, stock int64, updatedAt time.Time) error {
	l, ok := r.s.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Stock = stock
	l.UpdatedAt = updatedAt
	return nil
}

func (r *fakeLotRepo) ListByItemForUpdate(itemID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.s.lots {
		if l.ItemID == itemID {
			out = append(out, l)
		}
	}
	invdomain.SortFEFO(out)
	return out, nil
}

func (r *fakeLotRepo) ListByItem(itemID string) ([]*entity.Lot, error) {
	return r.ListByItemForUpdate(itemID)
}

func (r *fakeLotRepo) ListExpiringBefore(time.Time, int) ([]repository.ExpiringLot, error) {
	return nil, nil
}

func (r *fakeLotRepo) DeleteByItem(itemID string) error {
	for id, l := range r.s.lots {
		if l.ItemID == itemID {
			delete(r.s.lots, id)
		}
	}
	return nil
}

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMovementRepo) DeleteByItem(itemID string) error {
	var kept []*entity.Movement
	for _, m := range r.s.movements {
		if m.ItemID != itemID {
			kept = append(kept, m)
		}
	}
	r.s.movements = kept
	return nil
}

type fakeTxRunner struct{ s *memStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx := r.s.clone()
	err := fn(&fakeItemRepo{s: tx}, &fakeLotRepo{s: tx}, &fakeMovementRepo{s: tx})
	if err != nil {
		return err
	}
	*r.s = *tx
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func strPtr(s string) *string { return &s }

func seedItem(s *memStore, id string, stock int64, barcode string) {
	s.items[id] = &entity.Item{ID: id, Name: "Paracetamol 500mg", Stock: stock, Barcode: barcode, Active: true}
}

func seedLot(s *memStore, id, itemID string, code *string, expiry *time.Time, stock int64) {
	s.lots[id] = &entity.Lot{ID: id, ItemID: itemID, Code: code, Expiry: expiry, Stock: stock}
}

func newUseCase(s *memStore) *inventory.ApplyMovementUseCase {
	return inventory.NewApplyMovementUseCase(&fakeTxRunner{s: s})
}

func sumLots(s *memStore, itemID string) int64 {
	var total int64
	for _, l := range s.lots {
		if l.ItemID == itemID {
			total += l.Stock
		}
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_EntradaCreaLoteYAcredita(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 0, "")
	uc := newUseCase(store)

	result, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementKindEntry,
		Quantity: 10,
		LotCode:  strPtr("L-001"),
		Expiry:   date("2026-05-01"),
		UserID:   "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), result.Item.Stock)
	require.Len(t, result.Movements, 1)
	assert.Equal(t, entity.MovementKindEntry, result.Movements[0].Kind)
	assert.Equal(t, int64(10), result.Movements[0].Quantity)
	assert.Equal(t, "compra", result.Movements[0].Motive, "motivo por defecto de entrada")
	assert.Equal(t, "user-1", result.Movements[0].CreatedBy)

	require.Len(t, store.lots, 1)
	assert.Equal(t, int64(10), sumLots(store, "item-1"))
	assert.Equal(t, store.items["item-1"].Stock, sumLots(store, "item-1"),
		"agregado == suma de lotes tras commit")

	// Item, lote y movimiento comparten la misma marca de tiempo.
	assert.True(t, store.items["item-1"].UpdatedAt.Equal(result.Movements[0].CreatedAt))
	for _, l := range store.lots {
		assert.True(t, l.UpdatedAt.Equal(result.Movements[0].CreatedAt))
	}
}

// Simula al perdedor de una creación concurrente de lote: entre la búsqueda y el
// insert otra transacción toma la clave, el insert condicional no inserta nada y
// la relectura debe converger en la fila ganadora.
type racingLotRepo struct {
	*fakeLotRepo
	raced bool
}

func (r *racingLotRepo) GetByKeyForUpdate(itemID string, code *string, expiry *time.Time) (*entity.Lot, error) {
	if !r.raced {
		r.raced = true
		return nil, nil
	}
	return r.fakeLotRepo.GetByKeyForUpdate(itemID, code, expiry)
}

func (r *racingLotRepo) Create(lot *entity.Lot) error {
	winner := *lot
	winner.ID = "lot-ganador"
	r.s.lots[winner.ID] = &winner
	return domain.ErrDuplicate
}

type racingTxRunner struct{ s *memStore }

func (r *racingTxRunner) Run(_ context.Context, fn func(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx := r.s.clone()
	err := fn(&fakeItemRepo{s: tx}, &racingLotRepo{fakeLotRepo: &fakeLotRepo{s: tx}}, &fakeMovementRepo{s: tx})
	if err != nil {
		return err
	}
	*r.s = *tx
	return nil
}

func TestApplyMovement_EntradaConcurrenteConvergeEnLoteGanador(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 0, "")
	uc := inventory.NewApplyMovementUseCase(&racingTxRunner{s: store})

	result, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementKindEntry,
		Quantity: 10,
		LotCode:  strPtr("L-001"),
		Expiry:   date("2026-05-01"),
	})
	require.NoError(t, err, "perder la carrera del insert no debe abortar la entrada")

	require.Len(t, store.lots, 1, "ambas entradas concurrentes acaban en un único lote")
	assert.Equal(t, int64(10), store.lots["lot-ganador"].Stock)
	assert.Equal(t, "lot-ganador", result.Movements[0].LotID)
	assert.Equal(t, int64(10), store.items["item-1"].Stock)
}

func TestApplyMovement_EntradaReutilizaLoteExistente(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 5, "")
	seedLot(store, "lot-1", "item-1", strPtr("L-001"), date("2026-05-01"), 5)
	uc := newUseCase(store)

	_, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementKindEntry,
		Quantity: 3,
		LotCode:  strPtr("L-001"),
		Expiry:   date("2026-05-01"),
	})
	require.NoError(t, err)

	require.Len(t, store.lots, 1, "misma tripleta (item, código, caducidad) no crea otro lote")
	assert.Equal(t, int64(8), store.lots["lot-1"].Stock)
	assert.Equal(t, int64(8), store.items["item-1"].Stock)
}

func TestApplyMovement_EntradaSinLoteUsaLoteNulo(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 0, "")
	uc := newUseCase(store)

	// Dos entradas sin pista de lote deben caer en el mismo lote "sin código,
	// sin caducidad".
	for i := 0; i < 2; i++ {
		_, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
			ItemID:   "item-1",
			Kind:     entity.MovementKindEntry,
			Quantity: 4,
		})
		require.NoError(t, err)
	}

	require.Len(t, store.lots, 1)
	assert.Equal(t, int64(8), store.items["item-1"].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas FEFO
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_SalidaFEFOCruzaLotes(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 18, "")
	seedLot(store, "lot-a", "item-1", strPtr("A"), date("2025-01-01"), 3)
	seedLot(store, "lot-b", "item-1", strPtr("B"), date("2025-02-01"), 5)
	seedLot(store, "lot-c", "item-1", nil, nil, 10)
	uc := newUseCase(store)

	result, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementKindExit,
		Quantity: 6,
	})
	require.NoError(t, err)

	require.Len(t, result.Movements, 2, "una salida que cruza dos lotes produce dos movimientos")
	assert.Equal(t, int64(3), result.Movements[0].Quantity)
	assert.Equal(t, "lot-a", result.Movements[0].LotID)
	assert.Equal(t, int64(3), result.Movements[1].Quantity)
	assert.Equal(t, "lot-b", result.Movements[1].LotID)
	assert.Equal(t, "venta", result.Movements[0].Motive, "motivo por defecto de salida")

	assert.Equal(t, int64(0), store.lots["lot-a"].Stock)
	assert.Equal(t, int64(2), store.lots["lot-b"].Stock)
	assert.Equal(t, int64(10), store.lots["lot-c"].Stock, "el lote sin caducidad no se toca")
	assert.Equal(t, int64(12), store.items["item-1"].Stock)
	assert.Equal(t, store.items["item-1"].Stock, sumLots(store, "item-1"))
}

func TestApplyMovement_SalidaInsuficiente_NoMuta(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 5, "")
	seedLot(store, "lot-a", "item-1", strPtr("A"), date("2025-01-01"), 5)
	uc := newUseCase(store)

	_, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementKindExit,
		Quantity: 6,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), store.items["item-1"].Stock, "sin mutación parcial")
	assert.Equal(t, int64(5), store.lots["lot-a"].Stock)
	assert.Empty(t, store.movements)
}

// El agregado dice que alcanza pero los lotes no lo cubren: descuadre, la
// transacción entera se aborta.
func TestApplyMovement_DescuadreAgregadoLotes_Aborta(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 10, "")
	seedLot(store, "lot-a", "item-1", strPtr("A"), date("2025-01-01"), 4)
	uc := newUseCase(store)

	_, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementKindExit,
		Quantity: 7,
	})
	assert.ErrorIs(t, err, domain.ErrStockMismatch)

	assert.Equal(t, int64(10), store.items["item-1"].Stock)
	assert.Equal(t, int64(4), store.lots["lot-a"].Stock)
	assert.Empty(t, store.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas con lote explícito
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_SalidaLoteExplicito(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 15, "")
	seedLot(store, "lot-a", "item-1", strPtr("A"), date("2025-01-01"), 5)
	seedLot(store, "lot-b", "item-1", strPtr("B"), date("2025-06-01"), 10)
	uc := newUseCase(store)

	result, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementKindExit,
		Quantity: 4,
		LotCode:  strPtr("B"),
		Expiry:   date("2025-06-01"),
	})
	require.NoError(t, err)

	require.Len(t, result.Movements, 1)
	assert.Equal(t, "lot-b", result.Movements[0].LotID, "ignora FEFO y usa el lote pedido")
	assert.Equal(t, int64(5), store.lots["lot-a"].Stock, "el lote que caduca antes queda intacto")
	assert.Equal(t, int64(6), store.lots["lot-b"].Stock)
	assert.Equal(t, int64(11), store.items["item-1"].Stock)
}

func TestApplyMovement_LoteExplicitoCorto_NoDesborda(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 15, "")
	seedLot(store, "lot-a", "item-1", strPtr("A"), date("2025-01-01"), 5)
	seedLot(store, "lot-b", "item-1", strPtr("B"), date("2025-06-01"), 10)
	uc := newUseCase(store)

	_, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementKindExit,
		Quantity: 7,
		LotCode:  strPtr("A"),
		Expiry:   date("2025-01-01"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"un lote explícito corto no se completa con otros lotes")
	assert.Equal(t, int64(5), store.lots["lot-a"].Stock)
	assert.Equal(t, int64(10), store.lots["lot-b"].Stock)
}

// La clave del lote explícito es estricta: código correcto con caducidad distinta
// (o nula) no matchea.
func TestApplyMovement_LoteExplicitoClaveEstricta(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 5, "")
	seedLot(store, "lot-a", "item-1", strPtr("A"), date("2025-01-01"), 5)
	uc := newUseCase(store)

	_, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "item-1",
		Kind:     entity.MovementKindExit,
		Quantity: 2,
		LotCode:  strPtr("A"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"código igual pero caducidad nula no matchea un lote con caducidad")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución del item y validación
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_ResuelvePorBarcode(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 0, "7701234567890")
	uc := newUseCase(store)

	result, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		Barcode:  "7701234567890",
		Kind:     entity.MovementKindEntry,
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "item-1", result.Item.ID)
	assert.Equal(t, int64(2), result.Item.Stock)
}

func TestApplyMovement_ItemInexistente(t *testing.T) {
	store := newMemStore()
	uc := newUseCase(store)

	_, err := uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID:   "nope",
		Kind:     entity.MovementKindEntry,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		Barcode:  "0000000000000",
		Kind:     entity.MovementKindEntry,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyMovement_ValidaEntrada(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", 0, "")
	uc := newUseCase(store)

	cases := []inventory.ApplyMovementInput{
		{ItemID: "item-1", Kind: "transfer", Quantity: 1},
		{ItemID: "item-1", Kind: entity.MovementKindEntry, Quantity: 0},
		{ItemID: "item-1", Kind: entity.MovementKindExit, Quantity: -5},
		{Kind: entity.MovementKindEntry, Quantity: 1},
	}
	for _, in := range cases {
		_, err := uc.ApplyMovement(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, store.movements)
}
