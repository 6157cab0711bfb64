package bangla

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when a conversion is attempted on the zero time.
var ErrInvalidDate = errors.New("invalid date")

// The civil Bengali calendar used in Bangladesh: the year starts on 14 April
// (Pohela Boishakh), the first five months have 31 days and the remaining
// seven have 30. This is the fixed-offset civil approximation, not an
// astronomical calendar; no leap day is inserted.
const (
	yearOffset    = 593
	boundaryMonth = time.April
	boundaryDay   = 14
)

type Month int

const (
	Boishakh Month = iota
	Joishtho
	Asharh
	Shrabon
	Bhadro
	Ashshin
	Kartik
	Ogrohaeon
	Poush
	Magh
	Falgun
	Choitro
)

var monthNames = [12]string{
	"Boishakh", "Joishtho", "Asharh", "Shrabon", "Bhadro", "Ashshin",
	"Kartik", "Ogrohaeon", "Poush", "Magh", "Falgun", "Choitro",
}

var monthNamesBengali = [12]string{
	"বৈশাখ", "জ্যৈষ্ঠ", "আষাঢ়", "শ্রাবণ", "ভাদ্র", "আশ্বিন",
	"কার্তিক", "অগ্রহায়ণ", "পৌষ", "মাঘ", "ফাল্গুন", "চৈত্র",
}

var monthDays = [12]int{31, 31, 31, 31, 31, 30, 30, 30, 30, 30, 30, 30}

func (m Month) String() string {
	if m < Boishakh || m > Choitro {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m]
}

func (m Month) Bengali() string {
	if m < Boishakh || m > Choitro {
		return ""
	}
	return monthNamesBengali[m]
}

// Days returns the fixed day count of the month.
func (m Month) Days() int {
	if m < Boishakh || m > Choitro {
		return 0
	}
	return monthDays[m]
}

// Season is one of the six Bengali seasons; each spans two consecutive months.
type Season int

const (
	Grishsho Season = iota // summer
	Borsha                 // monsoon
	Shorot                 // autumn
	Hemonto                // late autumn
	Sheet                  // winter
	Boshonto               // spring
)

var seasonNames = [6]string{"Grishsho", "Borsha", "Shorot", "Hemonto", "Sheet", "Boshonto"}

var seasonNamesBengali = [6]string{"গ্রীষ্ম", "বর্ষা", "শরৎ", "হেমন্ত", "শীত", "বসন্ত"}

func (s Season) String() string {
	if s < Grishsho || s > Boshonto {
		return fmt.Sprintf("Season(%d)", int(s))
	}
	return seasonNames[s]
}

func (s Season) Bengali() string {
	if s < Grishsho || s > Boshonto {
		return ""
	}
	return seasonNamesBengali[s]
}

// SeasonOf returns the season containing the month.
func SeasonOf(m Month) Season {
	return Season(m / 2)
}

// Date is a Bengali calendar date. Day is 1-based within Month.
type Date struct {
	Year   int
	Month  Month
	Day    int
	Season Season
}

// String renders the date in Bengali script, e.g. "১ বৈশাখ ১৪৩২".
func (d Date) String() string {
	return fmt.Sprintf("%s %s %s", ToBanglaDigits(fmt.Sprint(d.Day)), d.Month.Bengali(), ToBanglaDigits(fmt.Sprint(d.Year)))
}

// FromGregorian converts a Gregorian date to the civil Bengali calendar.
// Only the calendar fields of t matter; the time of day and the zone offset
// are ignored, so the caller chooses the zone first.
func FromGregorian(t time.Time) (Date, error) {
	if t.IsZero() {
		return Date{}, ErrInvalidDate
	}

	y, m, d := t.Date()
	civil := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	boundary := time.Date(y, boundaryMonth, boundaryDay, 0, 0, 0, 0, time.UTC)
	year := y - yearOffset
	if civil.Before(boundary) {
		boundary = time.Date(y-1, boundaryMonth, boundaryDay, 0, 0, 0, 0, time.UTC)
		year--
	}

	offset := int(civil.Sub(boundary).Hours() / 24)

	month := Choitro
	day := monthDays[Choitro]
	for i, days := range monthDays {
		if offset < days {
			month = Month(i)
			day = offset + 1
			break
		}
		// A Gregorian leap day before Pohela Boishakh makes the year one day
		// long; the surplus day clamps to 30 Choitro.
		offset -= days
	}

	return Date{
		Year:   year,
		Month:  month,
		Day:    day,
		Season: SeasonOf(month),
	}, nil
}
