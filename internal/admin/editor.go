package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"richmarket-bot/internal/models"
)

// ErrNoSession means a dialog step arrived without the preceding state, for
// example an item callback after the session expired.
var ErrNoSession = errors.New("no active admin session")

// Catalog is the slice of the account store the editor needs.
type Catalog interface {
	Categories(ctx context.Context) ([]models.Category, error)
	ItemsByCategory(ctx context.Context, categoryID uint) ([]models.Item, error)
	ItemByID(ctx context.Context, itemID uint) (*models.Item, error)
	UpdateItemPrice(ctx context.Context, itemID uint, price float64) error
	UpdateItemName(ctx context.Context, itemID uint, name string) error
}

// Prompt is what the dialog wants shown next. Categories or Items are set
// when the presentation layer should render a selection keyboard.
type Prompt struct {
	Text       string
	Categories []models.Category
	Items      []models.Item
	Done       bool
}

// Editor drives the price-edit dialog: Idle → SelectCategory → SelectItem →
// {EnterNewPrice | EnterNewName} → Idle. A completed dialog persists exactly
// one field of exactly one item; anything short of completion writes nothing.
type Editor struct {
	catalog  Catalog
	sessions Sessions
	admins   map[string]struct{}
}

func NewEditor(catalog Catalog, sessions Sessions, adminUsernames []string) *Editor {
	admins := make(map[string]struct{}, len(adminUsernames))
	for _, name := range adminUsernames {
		admins[strings.TrimPrefix(name, "@")] = struct{}{}
	}
	return &Editor{catalog: catalog, sessions: sessions, admins: admins}
}

// IsAdmin checks the operator allow-list.
func (e *Editor) IsAdmin(username string) bool {
	if username == "" {
		return false
	}
	_, ok := e.admins[strings.TrimPrefix(username, "@")]
	return ok
}

// Begin starts a fresh dialog, discarding any previous selection.
func (e *Editor) Begin(ctx context.Context, operatorID int64) (Prompt, error) {
	categories, err := e.catalog.Categories(ctx)
	if err != nil {
		return Prompt{}, err
	}
	if err := e.sessions.Put(ctx, operatorID, Session{State: StateSelectCategory}); err != nil {
		return Prompt{}, err
	}
	return Prompt{Text: "🛠 Редактор цен. Выберите категорию:", Categories: categories}, nil
}

func (e *Editor) SelectCategory(ctx context.Context, operatorID int64, categoryID uint) (Prompt, error) {
	session, err := e.sessions.Get(ctx, operatorID)
	if err != nil {
		return Prompt{}, err
	}
	if session.State != StateSelectCategory {
		return Prompt{}, ErrNoSession
	}

	items, err := e.catalog.ItemsByCategory(ctx, categoryID)
	if err != nil {
		return Prompt{}, err
	}
	if len(items) == 0 {
		return Prompt{Text: "В этой категории пока нет товаров. Выберите другую категорию."}, nil
	}

	session.State = StateSelectItem
	session.CategoryID = categoryID
	if err := e.sessions.Put(ctx, operatorID, session); err != nil {
		return Prompt{}, err
	}
	return Prompt{Text: "Выберите товар:", Items: items}, nil
}

func (e *Editor) SelectItem(ctx context.Context, operatorID int64, itemID uint) (Prompt, error) {
	session, err := e.sessions.Get(ctx, operatorID)
	if err != nil {
		return Prompt{}, err
	}
	if session.State != StateSelectItem {
		return Prompt{}, ErrNoSession
	}

	item, err := e.catalog.ItemByID(ctx, itemID)
	if err != nil {
		return Prompt{}, err
	}

	session.ItemID = itemID
	if err := e.sessions.Put(ctx, operatorID, session); err != nil {
		return Prompt{}, err
	}
	return Prompt{Text: fmt.Sprintf("Товар: %s\nЦена: %.2f₽\n\nЧто изменить?", item.Name, item.Price)}, nil
}

// EditPrice transitions to waiting for a price after an item is selected.
func (e *Editor) EditPrice(ctx context.Context, operatorID int64) (Prompt, error) {
	return e.awaitInput(ctx, operatorID, StateEnterNewPrice, "Введите новую цену (число, не меньше 0):")
}

// EditName transitions to waiting for a name after an item is selected.
func (e *Editor) EditName(ctx context.Context, operatorID int64) (Prompt, error) {
	return e.awaitInput(ctx, operatorID, StateEnterNewName, "Введите новое название товара:")
}

func (e *Editor) awaitInput(ctx context.Context, operatorID int64, next State, prompt string) (Prompt, error) {
	session, err := e.sessions.Get(ctx, operatorID)
	if err != nil {
		return Prompt{}, err
	}
	if session.State != StateSelectItem || session.ItemID == 0 {
		return Prompt{}, ErrNoSession
	}

	session.State = next
	if err := e.sessions.Put(ctx, operatorID, session); err != nil {
		return Prompt{}, err
	}
	return Prompt{Text: prompt}, nil
}

// HandleText consumes a text message while an input state is active. The
// second return value reports whether the message belonged to the dialog;
// bad input re-prompts without transitioning or writing anything.
func (e *Editor) HandleText(ctx context.Context, operatorID int64, text string) (Prompt, bool, error) {
	session, err := e.sessions.Get(ctx, operatorID)
	if err != nil {
		return Prompt{}, false, err
	}

	switch session.State {
	case StateEnterNewPrice:
		price, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || price < 0 {
			return Prompt{Text: "❌ Некорректная цена. Введите число, не меньше 0:"}, true, nil
		}
		if err := e.catalog.UpdateItemPrice(ctx, session.ItemID, price); err != nil {
			return Prompt{}, true, err
		}
		if err := e.sessions.Delete(ctx, operatorID); err != nil {
			return Prompt{}, true, err
		}
		log.WithFields(log.Fields{"operator_id": operatorID, "item_id": session.ItemID, "price": price}).
			Info("Item price updated")
		return Prompt{Text: fmt.Sprintf("✅ Цена обновлена: %.2f₽", price), Done: true}, true, nil

	case StateEnterNewName:
		name := strings.TrimSpace(text)
		if name == "" {
			return Prompt{Text: "❌ Название не может быть пустым. Введите новое название:"}, true, nil
		}
		if err := e.catalog.UpdateItemName(ctx, session.ItemID, name); err != nil {
			return Prompt{}, true, err
		}
		if err := e.sessions.Delete(ctx, operatorID); err != nil {
			return Prompt{}, true, err
		}
		log.WithFields(log.Fields{"operator_id": operatorID, "item_id": session.ItemID}).
			Info("Item name updated")
		return Prompt{Text: fmt.Sprintf("✅ Название обновлено: %s", name), Done: true}, true, nil

	default:
		return Prompt{}, false, nil
	}
}

// Cancel drops the session without writing anything.
func (e *Editor) Cancel(ctx context.Context, operatorID int64) error {
	return e.sessions.Delete(ctx, operatorID)
}
