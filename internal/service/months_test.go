package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthYearKey_Cutover(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"15th stays", time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC), "3_2026"},
		{"16th rolls", time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC), "4_2026"},
		{"december rolls year", time.Date(2026, time.December, 16, 0, 0, 0, 0, time.UTC), "1_2027"},
		{"first of january", time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), "1_2027"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MonthYearKey(tc.now))
		})
	}
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "мая", MonthGenitive(time.May))
	assert.Equal(t, "декабря", MonthGenitive(time.December))
	assert.Equal(t, "месяца", MonthGenitive(time.Month(13)))
	assert.Equal(t, "Январь", MonthNominative(1))
	assert.Equal(t, "13", MonthNominative(13))
}

func TestNewClock_UsesLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	assert.Equal(t, loc, NewClock(loc)().Location())
}
