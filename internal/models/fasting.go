// ABOUTME: Recommended voluntary fasting days
// ABOUTME: Matches Gregorian weekdays and Hijri dates against the recommendations

package models

import "time"

// FastingDay is one kind of recommended fast.
type FastingDay struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Recommended fasts.
var (
	FastMonday    = FastingDay{Name: "صيام الاثنين", Description: "سنة عن النبي ﷺ كل أسبوع"}
	FastThursday  = FastingDay{Name: "صيام الخميس", Description: "سنة عن النبي ﷺ كل أسبوع"}
	FastAshura    = FastingDay{Name: "يوم عاشوراء", Description: "١٠ محرم"}
	FastArafah    = FastingDay{Name: "يوم عرفة", Description: "٩ ذو الحجة"}
	FastWhiteDays = FastingDay{Name: "الأيام البيض", Description: "١٣، ١٤، ١٥ من كل شهر هجري"}
)

// FastingDays lists every recommended fast.
var FastingDays = []FastingDay{FastMonday, FastThursday, FastAshura, FastArafah, FastWhiteDays}

// Hijri month numbers used by the recommendations.
const (
	Muharram   = 1
	Ramadan    = 9
	Shawwal    = 10
	DhulHijjah = 12
)

// RecommendedFasts returns the fasts that fall on a day. Nothing is returned
// during Ramadan or on the days fasting is forbidden (both Eids and the days
// of Tashreeq).
func RecommendedFasts(weekday time.Weekday, hijriDay, hijriMonth int) []FastingDay {
	if hijriMonth == Ramadan || forbiddenFast(hijriDay, hijriMonth) {
		return nil
	}

	var out []FastingDay
	switch weekday {
	case time.Monday:
		out = append(out, FastMonday)
	case time.Thursday:
		out = append(out, FastThursday)
	}
	if hijriMonth == Muharram && hijriDay == 10 {
		out = append(out, FastAshura)
	}
	if hijriMonth == DhulHijjah && hijriDay == 9 {
		out = append(out, FastArafah)
	}
	if hijriDay >= 13 && hijriDay <= 15 {
		out = append(out, FastWhiteDays)
	}
	return out
}

func forbiddenFast(day, month int) bool {
	switch month {
	case Shawwal:
		return day == 1
	case DhulHijjah:
		return day >= 10 && day <= 13
	}
	return false
}
