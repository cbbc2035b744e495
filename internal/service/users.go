package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"bookclub/internal/models"
	"bookclub/internal/repository"

	"go.uber.org/zap"
)

const MaxCSVLength = 50000

type UsersService struct {
	activity repository.UserActivityRepository
	loc      *time.Location
	logger   *zap.Logger
}

func NewUsersService(activity repository.UserActivityRepository, loc *time.Location, logger *zap.Logger) *UsersService {
	return &UsersService{activity: activity, loc: loc, logger: logger}
}

// UsersForChat lists the chat's members; inactiveMonths <= 0 means everyone.
func (s *UsersService) UsersForChat(chatID int64, inactiveMonths int) []models.UserActivity {
	return s.activity.GetUsersForChat(chatID, inactiveMonths)
}

func (s *UsersService) ClearUsersForChat(chatID int64) int {
	return s.activity.ClearUserActivity(chatID)
}

func (s *UsersService) DeleteUserForChat(chatID, userID int64) bool {
	return s.activity.DeleteUserActivity(chatID, userID)
}

// TouchMember records a member immediately, bypassing the activity buffer.
func (s *UsersService) TouchMember(chatID, userID int64, username *string) bool {
	return s.activity.UpsertUserActivity(chatID, userID, username)
}

func (s *UsersService) FindUsernameForChat(chatID, userID int64) *string {
	for _, u := range s.activity.GetUsersForChat(chatID, 0) {
		if u.UserID == userID {
			return u.Username
		}
	}
	return nil
}

// ParseMembersCSV reads a roster with a user_id header column. Blank, non-numeric
// and bot rows are skipped. On failure msg is the text to show the user.
func (s *UsersService) ParseMembersCSV(text string) (ok bool, msg string, users []models.ImportedUser) {
	if len(text) > MaxCSVLength {
		return false, "Слишком длинно. Сократите и отправьте снова: /init_users", nil
	}

	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(text)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return false, "Не вижу колонку `user_id` в CSV.", nil
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	if _, found := columns["user_id"]; !found {
		return false, "Не вижу колонку `user_id` в CSV.", nil
	}

	field := func(record []string, name string) string {
		i, found := columns[name]
		if !found || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			break
		}

		rawID := field(record, "user_id")
		if rawID == "" {
			continue
		}
		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(field(record, "is_bot")) {
		case "1", "true", "yes", "y":
			continue
		}

		var username *string
		if name := field(record, "username"); name != "" {
			username = &name
		}
		users = append(users, models.ImportedUser{UserID: userID, Username: username})
	}

	if len(users) == 0 {
		return false, "В CSV не найдено ни одной строки с корректным `user_id`.", nil
	}
	return true, "OK", users
}

// ImportUsersIfMissing adds users whose user_id is unknown in every chat.
func (s *UsersService) ImportUsersIfMissing(chatID int64, users []models.ImportedUser) (inserted, skipped int) {
	inserted, skipped = s.activity.InsertIfMissingByUserID(chatID, users)
	s.logger.Info("Users imported", zap.Int64("chat_id", chatID), zap.Int("inserted", inserted), zap.Int("skipped", skipped))
	return inserted, skipped
}

func SubtitleForInactiveMonths(inactiveMonths int) string {
	if inactiveMonths <= 0 {
		return "Все"
	}
	return fmt.Sprintf("Неактивные %d мес.", inactiveMonths)
}

func LabelForUser(userID int64, username *string) string {
	if username != nil && *username != "" {
		return *username
	}
	return fmt.Sprintf("id:%d", userID)
}

// FormatLastActivity renders a timestamp as "02.01.2006 15:04" in the club's timezone.
func (s *UsersService) FormatLastActivity(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	return t.In(s.loc).Format("02.01.2006 15:04")
}
