package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"richmarket-bot/internal/models"
	"richmarket-bot/internal/store"
)

type memSessions struct {
	sessions map[int64]Session
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[int64]Session)}
}

func (m *memSessions) Get(_ context.Context, operatorID int64) (Session, error) {
	return m.sessions[operatorID], nil
}

func (m *memSessions) Put(_ context.Context, operatorID int64, session Session) error {
	m.sessions[operatorID] = session
	return nil
}

func (m *memSessions) Delete(_ context.Context, operatorID int64) error {
	delete(m.sessions, operatorID)
	return nil
}

type fakeCatalog struct {
	categories []models.Category
	items      map[uint][]models.Item
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: []models.Category{{ID: 1, Name: "Standoff 2"}, {ID: 2, Name: "Roblox"}},
		items: map[uint][]models.Item{
			1: {
				{ID: 10, CategoryID: 1, Name: "1 голда", Price: 0.7},
				{ID: 11, CategoryID: 1, Name: "Клан", Price: 170},
			},
		},
	}
}

func (f *fakeCatalog) Categories(context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) ItemsByCategory(_ context.Context, categoryID uint) ([]models.Item, error) {
	return f.items[categoryID], nil
}

func (f *fakeCatalog) ItemByID(_ context.Context, itemID uint) (*models.Item, error) {
	for _, items := range f.items {
		for i := range items {
			if items[i].ID == itemID {
				return &items[i], nil
			}
		}
	}
	return nil, store.ErrItemNotFound
}

func (f *fakeCatalog) UpdateItemPrice(_ context.Context, itemID uint, price float64) error {
	for _, items := range f.items {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Price = price
				return nil
			}
		}
	}
	return store.ErrItemNotFound
}

func (f *fakeCatalog) UpdateItemName(_ context.Context, itemID uint, name string) error {
	for _, items := range f.items {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Name = name
				return nil
			}
		}
	}
	return store.ErrItemNotFound
}

func (f *fakeCatalog) price(t *testing.T, itemID uint) float64 {
	t.Helper()
	item, err := f.ItemByID(context.Background(), itemID)
	require.NoError(t, err)
	return item.Price
}

const operator = int64(100)

func TestEditPriceFullWalk(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	editor := NewEditor(catalog, newMemSessions(), []string{"yesbeers"})

	prompt, err := editor.Begin(ctx, operator)
	require.NoError(t, err)
	assert.Len(t, prompt.Categories, 2)

	prompt, err = editor.SelectCategory(ctx, operator, 1)
	require.NoError(t, err)
	assert.Len(t, prompt.Items, 2)

	_, err = editor.SelectItem(ctx, operator, 11)
	require.NoError(t, err)

	_, err = editor.EditPrice(ctx, operator)
	require.NoError(t, err)

	prompt, handled, err := editor.HandleText(ctx, operator, "199")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, prompt.Done)
	assert.Equal(t, 199.0, catalog.price(t, 11))
}

func TestEditPriceBadInputReprompts(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	sessions := newMemSessions()
	editor := NewEditor(catalog, sessions, nil)

	_, err := editor.Begin(ctx, operator)
	require.NoError(t, err)
	_, err = editor.SelectCategory(ctx, operator, 1)
	require.NoError(t, err)
	_, err = editor.SelectItem(ctx, operator, 11)
	require.NoError(t, err)
	_, err = editor.EditPrice(ctx, operator)
	require.NoError(t, err)

	for _, input := range []string{"дорого", "-5", ""} {
		prompt, handled, err := editor.HandleText(ctx, operator, input)
		require.NoError(t, err)
		assert.True(t, handled)
		assert.False(t, prompt.Done)
	}

	// No transition happened and nothing was written.
	assert.Equal(t, StateEnterNewPrice, sessions.sessions[operator].State)
	assert.Equal(t, 170.0, catalog.price(t, 11))

	// The dialog still completes with valid input afterwards.
	prompt, handled, err := editor.HandleText(ctx, operator, "210.50")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, prompt.Done)
	assert.Equal(t, 210.5, catalog.price(t, 11))
}

func TestAbandonedEditWritesNothing(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	editor := NewEditor(catalog, newMemSessions(), nil)

	_, err := editor.Begin(ctx, operator)
	require.NoError(t, err)
	_, err = editor.SelectCategory(ctx, operator, 1)
	require.NoError(t, err)
	_, err = editor.SelectItem(ctx, operator, 10)
	require.NoError(t, err)
	_, err = editor.EditPrice(ctx, operator)
	require.NoError(t, err)

	require.NoError(t, editor.Cancel(ctx, operator))
	assert.Equal(t, 0.7, catalog.price(t, 10))

	// After cancelling, stray text no longer belongs to the dialog.
	_, handled, err := editor.HandleText(ctx, operator, "999")
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, 0.7, catalog.price(t, 10))
}

func TestEditName(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	editor := NewEditor(catalog, newMemSessions(), nil)

	_, err := editor.Begin(ctx, operator)
	require.NoError(t, err)
	_, err = editor.SelectCategory(ctx, operator, 1)
	require.NoError(t, err)
	_, err = editor.SelectItem(ctx, operator, 10)
	require.NoError(t, err)
	_, err = editor.EditName(ctx, operator)
	require.NoError(t, err)

	_, handled, err := editor.HandleText(ctx, operator, "  ")
	require.NoError(t, err)
	assert.True(t, handled)

	prompt, handled, err := editor.HandleText(ctx, operator, "2 голды")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, prompt.Done)

	item, err := catalog.ItemByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "2 голды", item.Name)
}

func TestOperatorSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog()
	editor := NewEditor(catalog, newMemSessions(), nil)

	first, second := int64(100), int64(200)

	_, err := editor.Begin(ctx, first)
	require.NoError(t, err)
	_, err = editor.Begin(ctx, second)
	require.NoError(t, err)

	_, err = editor.SelectCategory(ctx, first, 1)
	require.NoError(t, err)
	_, err = editor.SelectItem(ctx, first, 10)
	require.NoError(t, err)
	_, err = editor.EditPrice(ctx, first)
	require.NoError(t, err)

	// The second operator is still at category selection.
	_, err = editor.SelectItem(ctx, second, 10)
	assert.ErrorIs(t, err, ErrNoSession)

	prompt, handled, err := editor.HandleText(ctx, first, "1.5")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, prompt.Done)

	// The first operator's completion did not touch the second session.
	_, handled, err = editor.HandleText(ctx, second, "1.5")
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, 1.5, catalog.price(t, 10))
}

func TestStepsOutOfOrder(t *testing.T) {
	ctx := context.Background()
	editor := NewEditor(newFakeCatalog(), newMemSessions(), nil)

	_, err := editor.SelectCategory(ctx, operator, 1)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = editor.SelectItem(ctx, operator, 10)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = editor.EditPrice(ctx, operator)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestIsAdmin(t *testing.T) {
	editor := NewEditor(newFakeCatalog(), newMemSessions(), []string{"yesbeers", "@second"})

	assert.True(t, editor.IsAdmin("yesbeers"))
	assert.True(t, editor.IsAdmin("@yesbeers"))
	assert.True(t, editor.IsAdmin("second"))
	assert.False(t, editor.IsAdmin("stranger"))
	assert.False(t, editor.IsAdmin(""))
}
