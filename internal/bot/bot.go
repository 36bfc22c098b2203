package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"richmarket-bot/internal/admin"
	"richmarket-bot/internal/config"
	"richmarket-bot/internal/referral"
	"richmarket-bot/internal/store"
)

type Bot struct {
	Instance *telego.Bot
	Store    *store.Store
	Ledger   *referral.Ledger
	Editor   *admin.Editor
	Cfg      *config.Config
}

func NewBot(cfg *config.Config, st *store.Store, ledger *referral.Ledger, editor *admin.Editor) (*Bot, error) {
	tgBot, err := telego.NewBot(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		Instance: tgBot,
		Store:    st,
		Ledger:   ledger,
		Editor:   editor,
		Cfg:      cfg,
	}, nil
}

// SendMessage delivers one plain message; the broadcast dispatcher uses the
// bot through this method.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	return err
}

func (b *Bot) Start(runCtx context.Context) error {
	updates, err := b.Instance.UpdatesViaLongPolling(runCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	handler, err := th.NewBotHandler(b.Instance, updates)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	// /start command: the join event. Referral attribution runs only when
	// the user was just created; the ledger guards duplicates anyway.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		telegramID := message.From.ID

		code := ""
		if parts := strings.Split(message.Text, " "); len(parts) > 1 {
			code = parts[1]
		}

		created, err := b.Store.UpsertUser(ctx.Context(), telegramID,
			message.From.Username, message.From.FirstName, message.From.LastName, nil)
		if err != nil {
			log.WithField("user_id", telegramID).WithError(err).Error("Failed to upsert user")
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), genericErrorText))
			return nil
		}

		if created && code != "" {
			outcome, err := b.Ledger.AttributeAndCredit(ctx.Context(), telegramID, code)
			if err != nil {
				// The user stays registered, just unattributed.
				log.WithField("user_id", telegramID).WithError(err).Error("Referral attribution failed")
			} else {
				log.WithFields(log.Fields{"user_id": telegramID, "outcome": outcome}).
					Debug("Referral attribution processed")
			}
		}

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(message.Chat.ID), welcomeText,
		).WithReplyMarkup(mainKeyboard()))
		return nil
	}, th.CommandEqual("start"))

	// /info: user count.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		count, err := b.Store.CountUsers(ctx.Context())
		if err != nil {
			log.WithError(err).Error("Failed to count users")
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(update.Message.Chat.ID), genericErrorText))
			return nil
		}
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(update.Message.Chat.ID),
			fmt.Sprintf("👥 Пользователей в боте: %d", count),
		))
		return nil
	}, th.CommandEqual("info"))

	// /balance command.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		b.sendBalance(ctx, update.Message.From.ID)
		return nil
	}, th.CommandEqual("balance"))

	// /admin: entry into the price editor.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if !b.Editor.IsAdmin(message.From.Username) {
			return nil
		}

		prompt, err := b.Editor.Begin(ctx.Context(), message.From.ID)
		if err != nil {
			log.WithField("operator_id", message.From.ID).WithError(err).Error("Failed to start admin session")
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), genericErrorText))
			return nil
		}

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(message.Chat.ID), prompt.Text,
		).WithReplyMarkup(categoryKeyboard(prompt.Categories, "adm:cat:")))
		return nil
	}, th.CommandEqual("admin"))

	// Catalog: categories rendered uniformly from the catalog tables.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		categories, err := b.Store.Categories(ctx.Context())
		if err != nil {
			log.WithError(err).Error("Failed to list categories")
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(callback.From.ID), genericErrorText))
			return b.answerCallback(ctx, callback.ID)
		}

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(callback.From.ID), catalogText,
		).WithReplyMarkup(categoryKeyboard(categories, "cat:")))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataEqual("catalog"))

	// Category contents.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		categoryID, ok := parseID(callback.Data, "cat:")
		if !ok {
			return b.answerCallback(ctx, callback.ID)
		}

		items, err := b.Store.ItemsByCategory(ctx.Context(), categoryID)
		if err != nil {
			log.WithField("category_id", categoryID).WithError(err).Error("Failed to list items")
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(callback.From.ID), genericErrorText))
			return b.answerCallback(ctx, callback.ID)
		}

		if len(items) == 0 {
			text := fmt.Sprintf("Ассортимент уточняется.\n\n💬 Для заказа напишите менеджеру: %s", b.Cfg.ManagerContact)
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
				tu.ID(callback.From.ID), text,
			).WithReplyMarkup(backKeyboard()))
			return b.answerCallback(ctx, callback.ID)
		}

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(callback.From.ID), "🎁 Выберите товар:",
		).WithReplyMarkup(itemKeyboard(items, "item:")))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataPrefix("cat:"))

	// Item order card.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		itemID, ok := parseID(callback.Data, "item:")
		if !ok {
			return b.answerCallback(ctx, callback.ID)
		}

		item, err := b.Store.ItemByID(ctx.Context(), itemID)
		if err != nil {
			if !errors.Is(err, store.ErrItemNotFound) {
				log.WithField("item_id", itemID).WithError(err).Error("Failed to load item")
			}
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(callback.From.ID), genericErrorText))
			return b.answerCallback(ctx, callback.ID)
		}

		text := fmt.Sprintf("🛒 Заказ: %s - %s\n\n💰 Цена: %.2f₽\n⚡ Мгновенная доставка\n\n💬 Для заказа: %s",
			item.Name, item.Category.Name, item.Price, b.Cfg.ManagerContact)
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(callback.From.ID), text,
		).WithReplyMarkup(backKeyboard()))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataPrefix("item:"))

	// Balance button.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		b.sendBalance(ctx, callback.From.ID)
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataEqual("balance"))

	// Referral programme.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		telegramID := callback.From.ID

		user, err := b.Store.UserByID(ctx.Context(), telegramID)
		if err != nil || user == nil {
			if err != nil {
				log.WithField("user_id", telegramID).WithError(err).Error("Failed to load user")
			}
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(telegramID), genericErrorText))
			return b.answerCallback(ctx, callback.ID)
		}

		count, earned, err := b.Ledger.Stats(ctx.Context(), telegramID)
		if err != nil {
			log.WithField("user_id", telegramID).WithError(err).Error("Failed to load referral stats")
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(telegramID), genericErrorText))
			return b.answerCallback(ctx, callback.ID)
		}

		botUsername := ""
		if info, err := b.Instance.GetMe(ctx.Context()); err == nil {
			botUsername = info.Username
		}
		link := fmt.Sprintf("https://t.me/%s?start=%s", botUsername, user.ReferralCode)

		text := fmt.Sprintf("💎 Реферальная система\n\n"+
			"🔗 Ваша реферальная ссылка:\n`%s`\n\n"+
			"📊 Статистика:\n"+
			"• 👥 Приглашено: %d\n"+
			"• 💵 Заработано: %.2f руб.\n"+
			"• 🎁 Бонус за друга: %.2f руб.\n\n"+
			"💌 Приглашайте друзей и получайте бонусы!",
			link, count, earned, b.Ledger.Bonus())

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(telegramID), text,
		).WithParseMode(telego.ModeMarkdown).WithReplyMarkup(backKeyboard()))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataEqual("referral"))

	// Help.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		text := fmt.Sprintf("❓ Помощь по боту\n\n"+
			"🛒 Каталог - товары по играм и соцсетям\n"+
			"💰 Реферальная система - приглашайте друзей\n"+
			"💳 Баланс - ваш баланс и статистика\n"+
			"📞 Контакты - связь с менеджером\n\n"+
			"⚡ Быстрая доставка\n🔒 Безопасные платежи\n💬 Поддержка 24/7\n\n"+
			"💌 По всем вопросам: %s", b.Cfg.ManagerContact)
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(callback.From.ID), text,
		).WithReplyMarkup(backKeyboard()))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataEqual("help"))

	// Contacts.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		text := fmt.Sprintf("📞 Контакты\n\n"+
			"💬 Менеджер: %s\n"+
			"⏰ Время ответа: 5-15 минут\n"+
			"🕐 Работаем: круглосуточно\n\n"+
			"💌 Пишите по любым вопросам!", b.Cfg.ManagerContact)
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(callback.From.ID), text,
		).WithReplyMarkup(backKeyboard()))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataEqual("contacts"))

	// Back to the main menu.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(callback.From.ID), "🔙 Главное меню:",
		).WithReplyMarkup(mainKeyboard()))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataEqual("start_back"))

	b.registerAdminHandlers(handler)

	// Admin free-text input (new price or name). Registered last so command
	// and callback handlers take precedence.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if !b.Editor.IsAdmin(message.From.Username) {
			return nil
		}

		prompt, handled, err := b.Editor.HandleText(ctx.Context(), message.From.ID, message.Text)
		if err != nil {
			log.WithField("operator_id", message.From.ID).WithError(err).Error("Admin edit failed")
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), genericErrorText))
			return nil
		}
		if !handled {
			return nil
		}

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), prompt.Text))
		return nil
	}, th.AnyMessageWithText())

	handler.Start()
	return nil
}

func (b *Bot) registerAdminHandlers(handler *th.BotHandler) {
	// Category picked.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		if !b.Editor.IsAdmin(callback.From.Username) {
			return b.answerCallback(ctx, callback.ID)
		}
		categoryID, ok := parseID(callback.Data, "adm:cat:")
		if !ok {
			return b.answerCallback(ctx, callback.ID)
		}

		prompt, err := b.Editor.SelectCategory(ctx.Context(), callback.From.ID, categoryID)
		if err != nil {
			b.sendAdminError(ctx, callback.From.ID, err)
			return b.answerCallback(ctx, callback.ID)
		}

		message := tu.Message(tu.ID(callback.From.ID), prompt.Text)
		if len(prompt.Items) > 0 {
			message = message.WithReplyMarkup(itemKeyboard(prompt.Items, "adm:item:"))
		}
		_, _ = ctx.Bot().SendMessage(ctx.Context(), message)
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataPrefix("adm:cat:"))

	// Item picked: choose which field to edit.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		if !b.Editor.IsAdmin(callback.From.Username) {
			return b.answerCallback(ctx, callback.ID)
		}
		itemID, ok := parseID(callback.Data, "adm:item:")
		if !ok {
			return b.answerCallback(ctx, callback.ID)
		}

		prompt, err := b.Editor.SelectItem(ctx.Context(), callback.From.ID, itemID)
		if err != nil {
			b.sendAdminError(ctx, callback.From.ID, err)
			return b.answerCallback(ctx, callback.ID)
		}

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(callback.From.ID), prompt.Text,
		).WithReplyMarkup(adminFieldKeyboard()))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataPrefix("adm:item:"))

	// Edit the price.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		if !b.Editor.IsAdmin(callback.From.Username) {
			return b.answerCallback(ctx, callback.ID)
		}

		prompt, err := b.Editor.EditPrice(ctx.Context(), callback.From.ID)
		if err != nil {
			b.sendAdminError(ctx, callback.From.ID, err)
			return b.answerCallback(ctx, callback.ID)
		}
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(callback.From.ID), prompt.Text))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataEqual("adm:price"))

	// Edit the name.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		if !b.Editor.IsAdmin(callback.From.Username) {
			return b.answerCallback(ctx, callback.ID)
		}

		prompt, err := b.Editor.EditName(ctx.Context(), callback.From.ID)
		if err != nil {
			b.sendAdminError(ctx, callback.From.ID, err)
			return b.answerCallback(ctx, callback.ID)
		}
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(callback.From.ID), prompt.Text))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataEqual("adm:name"))

	// Cancel the dialog.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		if !b.Editor.IsAdmin(callback.From.Username) {
			return b.answerCallback(ctx, callback.ID)
		}

		if err := b.Editor.Cancel(ctx.Context(), callback.From.ID); err != nil {
			log.WithField("operator_id", callback.From.ID).WithError(err).Error("Failed to cancel admin session")
		}
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(callback.From.ID), "Редактирование отменено.",
		))
		return b.answerCallback(ctx, callback.ID)
	}, th.CallbackDataEqual("adm:cancel"))
}

func (b *Bot) sendBalance(ctx *th.Context, telegramID int64) {
	balance, err := b.Store.Balance(ctx.Context(), telegramID)
	if err != nil {
		log.WithField("user_id", telegramID).WithError(err).Error("Failed to load balance")
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(telegramID), genericErrorText))
		return
	}
	count, earned, err := b.Ledger.Stats(ctx.Context(), telegramID)
	if err != nil {
		log.WithField("user_id", telegramID).WithError(err).Error("Failed to load referral stats")
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(telegramID), genericErrorText))
		return
	}

	text := fmt.Sprintf("💰 Ваш баланс:\n\n"+
		"💵 Баланс: %.2f руб.\n"+
		"👥 Приглашено друзей: %d\n"+
		"🎁 Заработано: %.2f руб.\n\n"+
		"💌 Для вывода: %s", balance, count, earned, b.Cfg.ManagerContact)
	_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
		tu.ID(telegramID), text,
	).WithReplyMarkup(backKeyboard()))
}

func (b *Bot) sendAdminError(ctx *th.Context, operatorID int64, err error) {
	if errors.Is(err, admin.ErrNoSession) {
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(operatorID), "Сессия редактирования не найдена. Отправьте /admin, чтобы начать заново.",
		))
		return
	}
	log.WithField("operator_id", operatorID).WithError(err).Error("Admin dialog failed")
	_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(operatorID), genericErrorText))
}

func (b *Bot) answerCallback(ctx *th.Context, callbackID string) error {
	_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callbackID))
	return nil
}

func parseID(data, prefix string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimPrefix(data, prefix), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
