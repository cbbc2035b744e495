package service

import (
	"fmt"
	"strconv"
	"time"
)

// Clock returns the current time in the club's timezone.
type Clock func() time.Time

func NewClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

var monthsGenitive = [...]string{"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря"}

var monthsNominative = [...]string{"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}

// PollMonth is the club month a poll started at now is about: the current
// month until the 15th, the next one from the 16th.
func PollMonth(now time.Time) (time.Month, int) {
	month, year := now.Month(), now.Year()
	if now.Day() >= 16 {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return month, year
}

// MonthYearKey is the history key of the poll month, e.g. "4_2026".
func MonthYearKey(now time.Time) string {
	month, year := PollMonth(now)
	return FormatMonthYear(int(month), year)
}

func FormatMonthYear(month, year int) string {
	return fmt.Sprintf("%d_%d", month, year)
}

// MonthGenitive names a month for poll questions ("Книга мая?").
func MonthGenitive(m time.Month) string {
	if m < time.January || m > time.December {
		return "месяца"
	}
	return monthsGenitive[m-1]
}

func MonthNominative(m int) string {
	if m < 1 || m > 12 {
		return strconv.Itoa(m)
	}
	return monthsNominative[m-1]
}
