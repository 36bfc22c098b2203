package bot

import (
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"richmarket-bot/internal/models"
)

func mainKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🛒 Каталог").WithCallbackData("catalog"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("💰 Реферальная система").WithCallbackData("referral"),
			tu.InlineKeyboardButton("💳 Баланс").WithCallbackData("balance"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("ℹ️ Помощь").WithCallbackData("help"),
			tu.InlineKeyboardButton("📞 Контакты").WithCallbackData("contacts"),
		),
	)
}

func backKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🔙 Назад").WithCallbackData("start_back"),
		),
	)
}

// categoryKeyboard renders every category uniformly, two per row. One data
// structure drives all category screens.
func categoryKeyboard(categories []models.Category, prefix string) *telego.InlineKeyboardMarkup {
	var rows [][]telego.InlineKeyboardButton
	var row []telego.InlineKeyboardButton
	for _, category := range categories {
		row = append(row, tu.InlineKeyboardButton(category.Name).
			WithCallbackData(fmt.Sprintf("%s%d", prefix, category.ID)))
		if len(row) == 2 {
			rows = append(rows, tu.InlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tu.InlineKeyboardRow(row...))
	}
	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("🔙 Назад").WithCallbackData("start_back"),
	))
	return tu.InlineKeyboard(rows...)
}

func itemKeyboard(items []models.Item, prefix string) *telego.InlineKeyboardMarkup {
	var rows [][]telego.InlineKeyboardButton
	for _, item := range items {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("%s — %.2f₽", item.Name, item.Price)).
				WithCallbackData(fmt.Sprintf("%s%d", prefix, item.ID)),
		))
	}
	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("🔙 Назад").WithCallbackData("catalog"),
	))
	return tu.InlineKeyboard(rows...)
}

func adminFieldKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("💰 Цена").WithCallbackData("adm:price"),
			tu.InlineKeyboardButton("✏️ Название").WithCallbackData("adm:name"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("❌ Отмена").WithCallbackData("adm:cancel"),
		),
	)
}
