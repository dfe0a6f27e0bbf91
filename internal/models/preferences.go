package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Weather options. The backend treats weather as an opaque token, so the emoji prefix
// is part of the value.
const (
	WeatherWarm = "🌤️ Warm"
	WeatherCold = "❄️ Cold"
	WeatherMild = "⛅ Mild"
)

// WeatherOptions lists the selectable weather tokens in display order.
var WeatherOptions = []string{WeatherWarm, WeatherCold, WeatherMild}

// InterestOptions is the catalog of interest tags a traveler can pick from.
var InterestOptions = []string{
	"🏖️ Beach", "🏔️ Mountains", "🏙️ City", "🍕 Food", "🎨 Culture", "🛍️ Shopping",
	"🎉 Nightlife", "📸 Photography", "🚴‍♂️ Adventure", "❄️ Snow", "🌋 Nature",
	"🏛️ History", "🎭 Theater", "🎶 Music", "🍷 Wine Tasting", "🌌 Stargazing",
	"🧘‍♀️ Wellness", "🏄‍♂️ Surfing", "🐬 Wildlife", "🧗 Hiking", "⛺ Camping",
	"🎢 Theme Parks", "🖼️ Museums", "🏟️ Sports", "🛶 Water Sports", "🚂 Scenic Trains",
	"🕌 Religion", "🧳 Road Trip", "📚 Reading Retreat", "🍜 Street Food", "🛕 Temples",
}

// Preferences is the `preferences` object inside a group join request.
type Preferences struct {
	Interests []string `json:"interests"`
	MaxBudget *int     `json:"max_budget"`
	Weather   string   `json:"weather"`
	// Date is the travel month in "YYYY-MM" form.
	Date string `json:"date"`
}

// GroupJoinRequest is the body of POST /groups/groups/join/{group_id}.
type GroupJoinRequest struct {
	UserID      int         `json:"user_id"`
	Preferences Preferences `json:"preferences"`
}

// YearMonth is a travel month.
type YearMonth struct {
	Year  int
	Month int
}

// String formats the month as "YYYY-MM" with a zero-padded month.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Validate checks that the month is in 1..12 and the year is positive.
func (ym YearMonth) Validate() error {
	if ym.Month < 1 || ym.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", ym.Month)
	}
	if ym.Year <= 0 {
		return fmt.Errorf("year must be positive, got %d", ym.Year)
	}
	return nil
}

// ParseYearMonth parses a "YYYY-MM" string.
func ParseYearMonth(s string) (YearMonth, error) {
	year, month, ok := strings.Cut(s, "-")
	if !ok || len(year) != 4 || len(month) != 2 {
		return YearMonth{}, fmt.Errorf("invalid travel month %q: want YYYY-MM", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid travel month %q: %w", s, err)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid travel month %q: %w", s, err)
	}
	ym := YearMonth{Year: y, Month: m}
	if err := ym.Validate(); err != nil {
		return YearMonth{}, fmt.Errorf("invalid travel month %q: %w", s, err)
	}
	return ym, nil
}
