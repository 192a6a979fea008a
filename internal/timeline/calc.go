// Package timeline derives per-year projections (ages, location, savings,
// milestones) from a Plan. Every function here is pure and total: malformed
// input yields an empty or degenerate result, never a panic or error.
package timeline

import (
	"strconv"

	"github.com/theirongolddev/futureline/internal/model"
)

// Years returns the inclusive year range covered by the plan. A negative
// horizon yields an empty slice.
func Years(plan *model.Plan) []int {
	if plan == nil || plan.Horizon < 0 {
		return nil
	}
	years := make([]int, 0, plan.Horizon+1)
	for y := plan.StartYear; y <= plan.StartYear+plan.Horizon; y++ {
		years = append(years, y)
	}
	return years
}

// AgeIn returns the person's age in the given year. Negative means not yet
// born; callers decide how to render that.
func AgeIn(p model.Person, year int) int {
	return year - p.BirthYear
}

// ChildStage maps an age to a school stage label. Evaluated as an ordered
// if-chain: equality with startAge always wins K, even against the Pre-K
// rule.
func ChildStage(age, startAge int) string {
	if startAge <= 0 {
		startAge = model.DefaultSchoolStartAge
	}
	switch {
	case age <= 2:
		return "Infant"
	case age <= 4 && age != startAge:
		return "Pre-K"
	case age == startAge:
		return "K"
	case age > startAge && age <= startAge+12:
		return grade(age - startAge)
	case age < 18:
		return "Post-K"
	default:
		return "Adult"
	}
}

func grade(n int) string {
	return "G" + strconv.Itoa(n)
}

// CityIn returns the city active in the given year, or "" if none. Entries
// are scanned in list order and later matches overwrite earlier ones, so
// overlaps resolve last-listed-wins.
func CityIn(cityPlan []model.CityRange, year int) string {
	city := ""
	for _, c := range cityPlan {
		to := c.YearTo
		if to == 0 {
			to = openEndedYear
		}
		if year >= c.YearFrom && year <= to {
			city = c.City
		}
	}
	return city
}

// openEndedYear stands in for a missing YearTo.
const openEndedYear = 9999

// CumulativeSavings replays the finance plan from startYear through year
// inclusive. Each step adds the annual savings, compounds growth on the
// running balance (not on contributions), then applies that year's one-offs.
func CumulativeSavings(f model.FinancePlan, year, startYear int) float64 {
	acc := f.StartCumulative
	for y := startYear; y <= year; y++ {
		growth := 0.0
		if f.GrowthPct != 0 {
			growth = acc * (f.GrowthPct / 100)
		}
		oneOff := 0.0
		for _, o := range f.OneOffs {
			if o.Year == y {
				oneOff += o.Amount
			}
		}
		acc = acc + f.AnnualSavings + growth + oneOff
	}
	return acc
}

// SummarizeYear composes ages, city, savings, milestones, and moments for
// one year of the plan.
func SummarizeYear(plan *model.Plan, year int) model.YearSummary {
	s := model.YearSummary{
		Year: year,
		Ages: make(map[string]int, len(plan.People)),
	}

	for _, p := range plan.People {
		s.Ages[p.ID] = AgeIn(p, year)
	}

	s.City = CityIn(plan.CityPlan, year)
	s.SavingsCumulative = CumulativeSavings(plan.Finance, year, plan.StartYear)

	for _, p := range plan.People {
		if label, ok := MilestoneFor(s.Ages[p.ID]); ok {
			s.Milestones = append(s.Milestones, p.Name+": "+label)
		}
	}

	for _, e := range plan.Experiences {
		switch e.Kind {
		case model.ExperienceFixed:
			if e.Year == year {
				s.Moments = append(s.Moments, e.Label)
			}
		case model.ExperienceRecurring:
			if e.EveryNYears > 0 && year >= e.StartYear && (year-e.StartYear)%e.EveryNYears == 0 {
				s.Moments = append(s.Moments, e.Label)
			}
		}
	}

	return s
}
