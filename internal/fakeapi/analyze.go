package fakeapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/triptangle/internal/models"
)

const (
	defaultOrigin  = "TLV"
	defaultBudget  = 500
	defaultWeather = "warm"
	maxSuggestions = 5
)

// catalogEntry is a destination the fake backend can suggest.
type catalogEntry struct {
	City      string
	Country   string
	IATA      string
	Price     int
	Weather   string // warm, cold or mild
	Interests []string
}

var catalog = []catalogEntry{
	{"Barcelona", "Spain", "BCN", 520, "warm", []string{"Beach", "Nightlife", "Food", "Culture"}},
	{"Reykjavik", "Iceland", "KEF", 780, "cold", []string{"Nature", "Stargazing", "Hiking", "Photography"}},
	{"Rome", "Italy", "FCO", 460, "warm", []string{"History", "Food", "Museums", "Religion"}},
	{"Zurich", "Switzerland", "ZRH", 640, "cold", []string{"Mountains", "Snow", "Scenic Trains", "Shopping"}},
	{"Lisbon", "Portugal", "LIS", 430, "mild", []string{"City", "Surfing", "Street Food", "Music"}},
	{"Kyoto", "Japan", "KIX", 1150, "mild", []string{"Temples", "Culture", "Wellness", "Photography"}},
	{"Athens", "Greece", "ATH", 310, "warm", []string{"History", "Beach", "Museums", "Wine Tasting"}},
	{"Vienna", "Austria", "VIE", 390, "mild", []string{"Music", "Theater", "Museums", "Reading Retreat"}},
	{"Tbilisi", "Georgia", "TBS", 280, "mild", []string{"Wine Tasting", "Hiking", "Street Food", "Adventure"}},
	{"Tromso", "Norway", "TOS", 890, "cold", []string{"Snow", "Wildlife", "Stargazing", "Camping"}},
}

// aggregatePreferences summarizes every member's preferences the way the backend does:
// union of interests, most common weather and month, average budget.
// Both the join payload keys (date, max_budget) and the invite keys (period, budget)
// are understood.
func aggregatePreferences(prefs []map[string]any, now time.Time) models.AggregatedPreferences {
	interestSet := map[string]bool{}
	var (
		weathers []string
		months   []string
		budgets  []int
	)

	for _, p := range prefs {
		if list, ok := p["interests"].([]any); ok {
			for _, v := range list {
				if s, ok := v.(string); ok && s != "" {
					interestSet[s] = true
				}
			}
		}
		if w := firstString(p, "weather"); w != "" {
			weathers = append(weathers, w)
		}
		if m := firstString(p, "travel_month", "date", "period"); m != "" {
			months = append(months, m)
		}
		if b, ok := firstInt(p, "budget", "max_budget"); ok {
			budgets = append(budgets, b)
		}
	}

	interests := make([]string, 0, len(interestSet))
	for s := range interestSet {
		interests = append(interests, s)
	}
	sort.Strings(interests)

	budget := defaultBudget
	if len(budgets) > 0 {
		sum := 0
		for _, b := range budgets {
			sum += b
		}
		budget = sum / len(budgets)
	}

	weather := mostCommon(weathers)
	if weather == "" {
		weather = defaultWeather
	}
	month := mostCommon(months)
	if month == "" {
		month = now.Format("2006-01")
	}

	origin := defaultOrigin
	return models.AggregatedPreferences{
		Origin:      &origin,
		TravelMonth: month,
		Budget:      &budget,
		Interests:   interests,
		Weather:     &weather,
	}
}

// suggestDestinations ranks the catalog against the aggregated preferences and returns
// the best matches with fresh vote counters.
func suggestDestinations(agg models.AggregatedPreferences) []models.Destination {
	type scored struct {
		entry catalogEntry
		score int
		hits  []string
	}

	weather := ""
	if agg.Weather != nil {
		weather = strings.ToLower(*agg.Weather)
	}

	var ranked []scored
	for _, entry := range catalog {
		sc := scored{entry: entry}
		for _, want := range agg.Interests {
			for _, tag := range entry.Interests {
				if strings.Contains(want, tag) {
					sc.score += 2
					sc.hits = append(sc.hits, tag)
				}
			}
		}
		if weather != "" && strings.Contains(weather, entry.Weather) {
			sc.score++
		}
		if agg.Budget != nil && entry.Price <= *agg.Budget {
			sc.score++
		}
		ranked = append(ranked, sc)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].entry.City < ranked[j].entry.City
	})
	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}

	origin := defaultOrigin
	if agg.Origin != nil {
		origin = *agg.Origin
	}

	out := make([]models.Destination, 0, len(ranked))
	for _, sc := range ranked {
		reason := fmt.Sprintf("%s weather", strings.ToUpper(sc.entry.Weather[:1])+sc.entry.Weather[1:])
		if len(sc.hits) > 0 {
			reason += ", " + strings.Join(sc.hits, ", ")
		}
		price := sc.entry.Price
		out = append(out, models.Destination{
			City:           sc.entry.City,
			Country:        sc.entry.Country,
			IATACode:       sc.entry.IATA,
			Reason:         reason,
			EstimatedPrice: sc.entry.Price,
			ImageURL:       "https://picsum.photos/seed/" + strings.ToLower(sc.entry.City) + "/800/600",
			SkyscannerURL:  skyscannerURL(origin, sc.entry.IATA, agg.TravelMonth),
			GeminiPrice:    &price,
			Votes:          models.Votes{Number: 0},
		})
	}
	return out
}

// skyscannerURL builds a round-trip search for the whole travel month. Dates use the
// YYMMDD form Skyscanner expects.
func skyscannerURL(origin, iata, travelMonth string) string {
	depart, ret := "250701", "250731"
	if ym, err := models.ParseYearMonth(travelMonth); err == nil {
		yy := fmt.Sprintf("%02d%02d", ym.Year%100, ym.Month)
		depart, ret = yy+"01", yy+"31"
	}
	return "https://www.skyscanner.com/transport/flights/" +
		strings.ToLower(origin) + "/" + strings.ToLower(iata) + "/" + depart + "/" + ret + "/" +
		"?adultsv2=1&cabinclass=economy&childrenv2=&ref=home&rtn=1" +
		"&preferdirects=false&outboundaltsenabled=false&inboundaltsenabled=false"
}

// mostCommon returns the most frequent value; ties go to the smallest value.
func mostCommon(values []string) string {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}
	best, bestN := "", 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstInt accepts JSON numbers and numeric strings.
func firstInt(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
