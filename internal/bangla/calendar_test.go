package bangla_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bdportal/api/internal/bangla"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFromGregorian_NewYearBoundary(t *testing.T) {
	// Last day of the old year.
	d, err := bangla.FromGregorian(date(2025, time.April, 13))
	require.NoError(t, err)
	require.Equal(t, 1431, d.Year)
	require.Equal(t, bangla.Choitro, d.Month)
	require.Equal(t, 30, d.Day)

	// Pohela Boishakh.
	d, err = bangla.FromGregorian(date(2025, time.April, 14))
	require.NoError(t, err)
	require.Equal(t, 1432, d.Year)
	require.Equal(t, bangla.Boishakh, d.Month)
	require.Equal(t, 1, d.Day)
	require.Equal(t, bangla.Grishsho, d.Season)
}

func TestFromGregorian_YearOffsets(t *testing.T) {
	tests := []struct {
		in   time.Time
		year int
	}{
		{date(2025, time.January, 1), 2025 - 594},
		{date(2025, time.April, 13), 2025 - 594},
		{date(2025, time.April, 14), 2025 - 593},
		{date(2025, time.December, 31), 2025 - 593},
		{date(1972, time.February, 29), 1972 - 594},
	}
	for _, tc := range tests {
		d, err := bangla.FromGregorian(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.year, d.Year, "input %s", tc.in)
	}
}

func TestFromGregorian_DayWithinMonthBounds(t *testing.T) {
	// Walk a decade of days; every output must satisfy the invariants.
	cur := date(2018, time.January, 1)
	end := date(2028, time.January, 1)
	for cur.Before(end) {
		d, err := bangla.FromGregorian(cur)
		require.NoError(t, err)
		require.GreaterOrEqual(t, d.Day, 1, "input %s", cur)
		require.LessOrEqual(t, d.Day, d.Month.Days(), "input %s", cur)
		require.GreaterOrEqual(t, int(d.Month), 0)
		require.LessOrEqual(t, int(d.Month), 11)
		cur = cur.AddDate(0, 0, 1)
	}
}

func TestFromGregorian_SequentialAdvancement(t *testing.T) {
	// A Bengali year with no Gregorian leap day inside it: 14 Apr 2025 through
	// 13 Apr 2026 is exactly 365 days. Each consecutive day must advance Day
	// by one, rolling months and finally the year.
	cur := date(2025, time.April, 14)
	prev, err := bangla.FromGregorian(cur)
	require.NoError(t, err)
	require.Equal(t, bangla.Date{Year: 1432, Month: bangla.Boishakh, Day: 1, Season: bangla.Grishsho}, prev)

	for i := 0; i < 365; i++ {
		cur = cur.AddDate(0, 0, 1)
		d, err := bangla.FromGregorian(cur)
		require.NoError(t, err)

		switch {
		case d.Month == prev.Month:
			require.Equal(t, prev.Day+1, d.Day, "input %s", cur)
			require.Equal(t, prev.Year, d.Year)
		case prev.Month == bangla.Choitro:
			require.Equal(t, prev.Month.Days(), prev.Day, "year must roll on the last day of Choitro")
			require.Equal(t, bangla.Boishakh, d.Month)
			require.Equal(t, 1, d.Day)
			require.Equal(t, prev.Year+1, d.Year)
		default:
			require.Equal(t, prev.Month+1, d.Month, "input %s", cur)
			require.Equal(t, prev.Month.Days(), prev.Day)
			require.Equal(t, 1, d.Day)
			require.Equal(t, prev.Year, d.Year)
		}
		prev = d
	}

	// After 365 steps we are back at Pohela Boishakh of the next year.
	require.Equal(t, bangla.Date{Year: 1433, Month: bangla.Boishakh, Day: 1, Season: bangla.Grishsho}, prev)
}

func TestMonthTable(t *testing.T) {
	sum := 0
	for m := bangla.Boishakh; m <= bangla.Choitro; m++ {
		days := m.Days()
		if m <= bangla.Bhadro {
			require.Equal(t, 31, days, "month %s", m)
		} else {
			require.Equal(t, 30, days, "month %s", m)
		}
		sum += days
	}
	require.Equal(t, 365, sum)
}

func TestSeasonOf_CoversAllMonthsInAdjacentPairs(t *testing.T) {
	counts := map[bangla.Season][]bangla.Month{}
	for m := bangla.Boishakh; m <= bangla.Choitro; m++ {
		s := bangla.SeasonOf(m)
		require.GreaterOrEqual(t, int(s), 0)
		require.LessOrEqual(t, int(s), 5)
		counts[s] = append(counts[s], m)
	}
	require.Len(t, counts, 6)
	for s, months := range counts {
		require.Len(t, months, 2, "season %s", s)
		require.Equal(t, months[0]+1, months[1], "season %s spans adjacent months", s)
	}
}

func TestFromGregorian_ZeroTime(t *testing.T) {
	_, err := bangla.FromGregorian(time.Time{})
	require.ErrorIs(t, err, bangla.ErrInvalidDate)
}

func TestFromGregorian_LeapDayClampsToChoitro(t *testing.T) {
	// 2024 is a leap year, so the Bengali year starting 14 Apr 2023 carries
	// 366 Gregorian days. The surplus day (13 Apr 2024) clamps to 30 Choitro.
	d, err := bangla.FromGregorian(date(2024, time.April, 13))
	require.NoError(t, err)
	require.Equal(t, 1430, d.Year)
	require.Equal(t, bangla.Choitro, d.Month)
	require.Equal(t, 30, d.Day)

	d, err = bangla.FromGregorian(date(2024, time.April, 12))
	require.NoError(t, err)
	require.Equal(t, bangla.Choitro, d.Month)
	require.Equal(t, 30, d.Day)
}

func TestDateString(t *testing.T) {
	d, err := bangla.FromGregorian(date(2025, time.April, 14))
	require.NoError(t, err)
	require.Equal(t, "১ বৈশাখ ১৪৩২", d.String())
}
