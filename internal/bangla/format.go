package bangla

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNamesBengali = [7]string{
	"রবিবার", "সোমবার", "মঙ্গলবার", "বুধবার", "বৃহস্পতিবার", "শুক্রবার", "শনিবার",
}

var gregorianMonthsBengali = [12]string{
	"জানুয়ারি", "ফেব্রুয়ারি", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

// FormatTime renders a 12-hour wall-clock time with Bengali digits and an
// English AM/PM suffix, matching the portal's clock widget.
func FormatTime(t time.Time) string {
	return fmt.Sprintf("%s %s", ToBanglaDigits(t.Format("03:04:05")), t.Format("PM"))
}

// FormatDate renders a Gregorian date in Bengali,
// e.g. "সোমবার, ১ সেপ্টেম্বর, ২০২৫".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %s %s, %s",
		weekdayNamesBengali[t.Weekday()],
		ToBanglaDigits(fmt.Sprint(t.Day())),
		gregorianMonthsBengali[t.Month()-1],
		ToBanglaDigits(fmt.Sprint(t.Year())),
	)
}

// FormatTaka renders a whole-taka amount with the currency sign and
// thousands grouping, digits transliterated: FormatTaka(12500) = "৳১২,৫০০".
func FormatTaka(amount int64) string {
	return "৳" + ToBanglaDigits(groupThousands(amount))
}

func groupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprint(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatBanglaDate renders a Bengali calendar date with its season,
// e.g. "১ বৈশাখ ১৪৩২ (গ্রীষ্মকাল)".
func FormatBanglaDate(d Date) string {
	var b strings.Builder
	b.WriteString(d.String())
	b.WriteString(" (")
	b.WriteString(d.Season.Bengali())
	b.WriteString("কাল)")
	return b.String()
}
