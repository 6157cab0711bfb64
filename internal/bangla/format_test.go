package bangla_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bdportal/api/internal/bangla"
)

func TestToBanglaDigits(t *testing.T) {
	require.Equal(t, "০১২৩৪৫৬৭৮৯", bangla.ToBanglaDigits("0123456789"))
	require.Equal(t, "১২:০৫ PM", bangla.ToBanglaDigits("12:05 PM"))
	require.Equal(t, "", bangla.ToBanglaDigits(""))
	require.Equal(t, "কোনো সংখ্যা নেই", bangla.ToBanglaDigits("কোনো সংখ্যা নেই"))
}

func TestToBanglaDigits_Bijective(t *testing.T) {
	seen := map[string]bool{}
	for d := '0'; d <= '9'; d++ {
		out := bangla.ToBanglaDigits(string(d))
		require.NotEqual(t, string(d), out)
		require.False(t, seen[out], "digit %c maps to an already used glyph", d)
		seen[out] = true
	}
	require.Len(t, seen, 10)
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("BST", 6*60*60)
	at := time.Date(2025, time.September, 1, 18, 5, 9, 0, loc)
	require.Equal(t, "০৬:০৫:০৯ PM", bangla.FormatTime(at))

	at = time.Date(2025, time.September, 1, 0, 30, 0, 0, loc)
	require.Equal(t, "১২:৩০:০০ AM", bangla.FormatTime(at))
}

func TestFormatDate(t *testing.T) {
	// 1 September 2025 is a Monday.
	at := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "সোমবার, ১ সেপ্টেম্বর, ২০২৫", bangla.FormatDate(at))
}

func TestFormatTaka(t *testing.T) {
	require.Equal(t, "৳০", bangla.FormatTaka(0))
	require.Equal(t, "৳৯৯৯", bangla.FormatTaka(999))
	require.Equal(t, "৳১২,৫০০", bangla.FormatTaka(12500))
	require.Equal(t, "৳১,২৩৪,৫৬৭", bangla.FormatTaka(1234567))
	require.Equal(t, "৳-১,০০০", bangla.FormatTaka(-1000))
}

func TestFormatBanglaDate(t *testing.T) {
	d := bangla.Date{Year: 1432, Month: bangla.Boishakh, Day: 1, Season: bangla.Grishsho}
	require.Equal(t, "১ বৈশাখ ১৪৩২ (গ্রীষ্মকাল)", bangla.FormatBanglaDate(d))
}
