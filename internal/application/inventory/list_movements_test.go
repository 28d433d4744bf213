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
)

func TestListMovements_FiltraPorItemYKind(t *testing.T) {
	store := newMemStore()
	store.movements = []*entity.Movement{
		{ID: "m-1", ItemID: "item-1", Kind: entity.MovementKindEntry, Quantity: 5},
		{ID: "m-2", ItemID: "item-1", Kind: entity.MovementKindExit, Quantity: 2},
		{ID: "m-3", ItemID: "item-2", Kind: entity.MovementKindEntry, Quantity: 1},
	}
	uc := inventory.NewListMovementsUseCase(&fakeMovementRepo{s: store})

	out, err := uc.ListMovements(context.Background(), inventory.ListMovementsInput{
		ItemID: "item-1",
		Kind:   entity.MovementKindExit,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "m-2", out[0].ID)
}

func TestListMovements_KindInvalido(t *testing.T) {
	uc := inventory.NewListMovementsUseCase(&fakeMovementRepo{s: newMemStore()})

	_, err := uc.ListMovements(context.Background(), inventory.ListMovementsInput{Kind: "transfer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_RangoInvertido(t *testing.T) {
	uc := inventory.NewListMovementsUseCase(&fakeMovementRepo{s: newMemStore()})

	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -7)
	_, err := uc.ListMovements(context.Background(), inventory.ListMovementsInput{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
