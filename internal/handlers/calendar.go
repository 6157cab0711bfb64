package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bdportal/api/internal/bangla"
)

// dhaka is the portal's civil time zone. The IANA zone is preferred; the
// fixed +6 offset is the fallback on systems without tzdata (Bangladesh has
// no DST).
var dhaka = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Dhaka"); err == nil {
		return loc
	}
	return time.FixedZone("BST", 6*60*60)
}()

type calendarResponse struct {
	Gregorian struct {
		Date    string `json:"date"`
		Display string `json:"display"`
		Time    string `json:"time"`
	} `json:"gregorian"`
	Bangla struct {
		Year        int    `json:"year"`
		Month       int    `json:"month"`
		MonthName   string `json:"month_name"`
		MonthBangla string `json:"month_bangla"`
		Day         int    `json:"day"`
		Season      string `json:"season"`
		SeasonName  string `json:"season_bangla"`
		Display     string `json:"display"`
	} `json:"bangla"`
}

// Calendar serves today's date block: the Gregorian date rendered in Bengali
// and its Bengali calendar equivalent, both in Dhaka civil time. An optional
// date=YYYY-MM-DD query serves any other day.
func (h HandlerSet) Calendar(c *gin.Context) {
	now := time.Now().In(dhaka)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, dhaka)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "date must be YYYY-MM-DD"}})
			return
		}
		now = parsed
	}

	bd, err := bangla.FromGregorian(now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid date"}})
		return
	}

	var resp calendarResponse
	resp.Gregorian.Date = now.Format("2006-01-02")
	resp.Gregorian.Display = bangla.FormatDate(now)
	resp.Gregorian.Time = bangla.FormatTime(now)
	resp.Bangla.Year = bd.Year
	resp.Bangla.Month = int(bd.Month)
	resp.Bangla.MonthName = bd.Month.String()
	resp.Bangla.MonthBangla = bd.Month.Bengali()
	resp.Bangla.Day = bd.Day
	resp.Bangla.Season = bd.Season.String()
	resp.Bangla.SeasonName = bd.Season.Bengali()
	resp.Bangla.Display = bangla.FormatBanglaDate(bd)

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
