package telegram_bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bookclub/internal/callback"
	"bookclub/internal/models"
	"bookclub/internal/service"
)

func button(text string, cmd callback.Command) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, cmd.String())
}

func markup(rows ...[]tgbotapi.InlineKeyboardButton) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// confirmKeyboard is a single row of confirm and cancel buttons for domain:action.
func confirmKeyboard(domain callback.Domain, action, yes, no string) *tgbotapi.InlineKeyboardMarkup {
	return markup(tgbotapi.NewInlineKeyboardRow(
		button(yes, callback.New(domain, action, callback.ArgConfirm)),
		button(no, callback.New(domain, action, callback.ArgCancel)),
	))
}

func chatsKeyboard(privateChatID, selectedChatID int64, groups []models.Group) *tgbotapi.InlineKeyboardMarkup {
	privateLabel := service.PrivateChatTitle
	if selectedChatID == privateChatID {
		privateLabel = selectedMark + privateLabel
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(button(privateLabel, callback.New(callback.Chats, callback.ActionSelect, callback.ArgPrivate))),
	}
	for _, g := range groups {
		kind := "группа"
		if g.Type == models.GroupTypeSupergroup {
			kind = "супергруппа"
		}
		label := fmt.Sprintf("%s (%s)", g.Title, kind)
		if g.ChatID == selectedChatID {
			label = selectedMark + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(label, callback.WithID(callback.Chats, callback.ActionSelect, g.ChatID))))
	}
	return markup(rows...)
}

func historyYearsKeyboard(years []int) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(years))
	for _, y := range years {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(strconv.Itoa(y), callback.WithID(callback.History, callback.ActionYear, int64(y))),
		))
	}
	return markup(rows...)
}

func usersFiltersKeyboard() *tgbotapi.InlineKeyboardMarkup {
	filter := func(arg string) callback.Command {
		return callback.New(callback.Users, callback.ActionFilter, arg)
	}
	return markup(
		tgbotapi.NewInlineKeyboardRow(
			button("Все", filter(callback.ArgAll)),
			button("Неактивные месяц", filter("1")),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("Неактивные 3 месяца", filter("3")),
			button("Неактивные полгода", filter("6")),
		),
	)
}

func usersListKeyboard(users []models.UserActivity, lastActivity func(u models.UserActivity) string) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(users)+1)
	for _, u := range users {
		label := service.LabelForUser(u.UserID, u.Username) + " - " + lastActivity(u)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(label, callback.WithID(callback.Users, callback.ActionUser, u.UserID))))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(buttonBack, callback.New(callback.Users, callback.ActionBack, ""))))
	return markup(rows...)
}

func usersKickKeyboard(userID int64) *tgbotapi.InlineKeyboardMarkup {
	return markup(tgbotapi.NewInlineKeyboardRow(
		button(buttonYes, callback.WithID(callback.Users, callback.ActionConfirm, userID)),
		button(buttonNo, callback.New(callback.Users, callback.ActionCancel, "")),
	))
}
