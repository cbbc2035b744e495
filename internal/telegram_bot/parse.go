package telegram_bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"bookclub/internal/service"
)

var errBadRange = errors.New("bad range")

// inputError carries the text shown to the user.
type inputError struct {
	text string
}

func (e *inputError) Error() string { return e.text }

func inputErrorf(format string, args ...any) error {
	return &inputError{text: fmt.Sprintf(format, args...)}
}

// parseRange accepts "a-b" with any spaces around the dash. Reversed bounds
// are swapped.
func parseRange(text string) (int64, int64, error) {
	parts := strings.Split(strings.ReplaceAll(text, " ", ""), "-")
	if len(parts) != 2 {
		return 0, 0, errBadRange
	}
	a, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, errBadRange
	}
	b, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, errBadRange
	}
	if a > b {
		a, b = b, a
	}
	if b-a+1 <= 0 {
		return 0, 0, errBadRange
	}
	return a, b, nil
}

// parseIndex validates a 1-based list index typed by the user.
func parseIndex(text, cmd string) (int, error) {
	if text == "" {
		return 0, inputErrorf(errEmpty, cmd)
	}
	idx, err := strconv.Atoi(text)
	if err != nil {
		return 0, inputErrorf(errNotNumber, cmd)
	}
	if idx < 1 {
		return 0, inputErrorf(errPositive, cmd)
	}
	return idx, nil
}

// parseIndexAndMonthYear accepts "<index>" or "<index> MM-YYYY". The returned
// key is empty when no month was given.
func parseIndexAndMonthYear(text, cmd string) (int, string, error) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return 0, "", inputErrorf(errEmpty, cmd)
	}
	idx, err := parseIndex(parts[0], cmd)
	if err != nil {
		return 0, "", err
	}
	if len(parts) == 1 {
		return idx, "", nil
	}
	if len(parts) != 2 {
		return 0, "", inputErrorf(errBadFormat)
	}

	mm, yyyy, ok := strings.Cut(parts[1], "-")
	if !ok {
		return 0, "", inputErrorf(errBadFormat)
	}
	month, err := strconv.Atoi(mm)
	if err != nil || month < 1 || month > 12 {
		return 0, "", inputErrorf(errBadFormat)
	}
	year, err := strconv.Atoi(yyyy)
	if err != nil || year < 1970 || year > 3000 {
		return 0, "", inputErrorf(errBadFormat)
	}
	return idx, service.FormatMonthYear(month, year), nil
}

// validateText rejects blank and over-long free text. Length is counted in
// characters, not bytes.
func validateText(text string, maxLen int, cmd string) error {
	if strings.TrimSpace(text) == "" {
		return inputErrorf(errEmpty, cmd)
	}
	if utf8.RuneCountInString(text) > maxLen {
		return inputErrorf(errTooLong, cmd)
	}
	return nil
}
