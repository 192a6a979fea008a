package timeline

import (
	"math"
	"testing"

	"github.com/theirongolddev/futureline/internal/model"
)

func TestAgeIn_NegativeForUnborn(t *testing.T) {
	p := model.Person{ID: "kid", BirthYear: 2030}
	if got := AgeIn(p, 2026); got != -4 {
		t.Fatalf("AgeIn(2026) = %d, want -4", got)
	}
	if got := AgeIn(p, 2030); got != 0 {
		t.Fatalf("AgeIn(2030) = %d, want 0", got)
	}
}

func TestChildStage(t *testing.T) {
	cases := []struct {
		age, startAge int
		want          string
	}{
		{0, 5, "Infant"},
		{2, 5, "Infant"},
		{3, 5, "Pre-K"},
		{4, 5, "Pre-K"},
		{5, 5, "K"},
		{6, 5, "G1"},
		{17, 5, "G12"},
		{18, 5, "Adult"},
		{30, 5, "Adult"},
		// startAge within the Pre-K band still wins K on equality
		{4, 4, "K"},
		{3, 4, "Pre-K"},
	}
	for _, c := range cases {
		if got := ChildStage(c.age, c.startAge); got != c.want {
			t.Errorf("ChildStage(%d, %d) = %q, want %q", c.age, c.startAge, got, c.want)
		}
	}
}

func TestChildStage_GradeBandEnd(t *testing.T) {
	// startAge+13 must never be a grade; it falls through by age.
	if got := ChildStage(5+13, 5); got == "G13" {
		t.Fatalf("ChildStage(18, 5) = %q, want non-grade", got)
	}
	if got := ChildStage(4+13, 4); got != "Post-K" {
		t.Fatalf("ChildStage(17, 4) = %q, want Post-K", got)
	}
}

func TestCityIn_LastListedWins(t *testing.T) {
	cityPlan := []model.CityRange{
		{YearFrom: 2024, City: "A"},
		{YearFrom: 2024, YearTo: 2026, City: "B"},
	}
	if got := CityIn(cityPlan, 2025); got != "B" {
		t.Fatalf("CityIn(2025) = %q, want B", got)
	}
	// After B's range closes, the open-ended A applies again.
	if got := CityIn(cityPlan, 2027); got != "A" {
		t.Fatalf("CityIn(2027) = %q, want A", got)
	}
	if got := CityIn(cityPlan, 2020); got != "" {
		t.Fatalf("CityIn(2020) = %q, want empty", got)
	}
}

func TestCumulativeSavings_CompoundsOnBalance(t *testing.T) {
	f := model.FinancePlan{AnnualSavings: 100, GrowthPct: 10}
	if got := CumulativeSavings(f, 2024, 2024); got != 100 {
		t.Fatalf("year 1 = %v, want 100", got)
	}
	// year 2: 100 + 10% of 100 + 100 = 210 (growth on balance, not contributions)
	if got := CumulativeSavings(f, 2025, 2024); got != 210 {
		t.Fatalf("year 2 = %v, want 210", got)
	}
}

func TestCumulativeSavings_OneOffsApplyInTheirYear(t *testing.T) {
	f := model.FinancePlan{
		AnnualSavings: 50,
		OneOffs: []model.OneOff{
			{Year: 2025, Amount: -30},
			{Year: 2025, Amount: 10},
			{Year: 2030, Amount: 999},
		},
	}
	got := CumulativeSavings(f, 2025, 2024)
	if got != 50+50-30+10 {
		t.Fatalf("CumulativeSavings = %v, want 80", got)
	}
}

func TestYears(t *testing.T) {
	plan := &model.Plan{StartYear: 2026, Horizon: 3}
	years := Years(plan)
	if len(years) != 4 {
		t.Fatalf("len(Years) = %d, want horizon+1 = 4", len(years))
	}
	for i, y := range years {
		if y != 2026+i {
			t.Fatalf("Years[%d] = %d, want %d", i, y, 2026+i)
		}
	}
}

func TestYears_NegativeHorizon(t *testing.T) {
	plan := &model.Plan{StartYear: 2026, Horizon: -1}
	if years := Years(plan); len(years) != 0 {
		t.Fatalf("Years with negative horizon = %v, want empty", years)
	}
}

func TestSummarizeYear(t *testing.T) {
	plan := &model.Plan{
		StartYear: 2026,
		Horizon:   10,
		People: []model.Person{
			{ID: "self", Name: "Ana", BirthYear: 1996, Role: model.RoleSelf},
			{ID: "kid", Name: "Leo", BirthYear: 2021, Role: model.RoleChild},
		},
		CityPlan: []model.CityRange{{YearFrom: 2026, City: "Austin"}},
		Finance:  model.FinancePlan{AnnualSavings: 1000},
		Experiences: []model.Experience{
			{Kind: model.ExperienceFixed, Label: "Sabbatical", Year: 2028},
			{Kind: model.ExperienceRecurring, Label: "Summer Abroad", EveryNYears: 2, StartYear: 2026},
		},
	}

	s := SummarizeYear(plan, 2026)
	if s.Ages["self"] != 30 || s.Ages["kid"] != 5 {
		t.Fatalf("ages = %v, want self=30 kid=5", s.Ages)
	}
	if s.City != "Austin" {
		t.Fatalf("city = %q, want Austin", s.City)
	}
	if s.SavingsCumulative != 1000 {
		t.Fatalf("savings = %v, want 1000", s.SavingsCumulative)
	}
	// Both a decade milestone (30) and a table milestone (5) fire.
	if len(s.Milestones) != 2 {
		t.Fatalf("milestones = %v, want 2 entries", s.Milestones)
	}
	// Recurring experience fires in its start year.
	if len(s.Moments) != 1 || s.Moments[0] != "Summer Abroad" {
		t.Fatalf("moments = %v, want [Summer Abroad]", s.Moments)
	}

	s28 := SummarizeYear(plan, 2028)
	found := map[string]bool{}
	for _, m := range s28.Moments {
		found[m] = true
	}
	if !found["Sabbatical"] || !found["Summer Abroad"] {
		t.Fatalf("2028 moments = %v, want fixed and recurring", s28.Moments)
	}

	if got := SummarizeYear(plan, 2027); len(got.Moments) != 0 {
		t.Fatalf("2027 moments = %v, want none", got.Moments)
	}
}

func TestMilestoneFor(t *testing.T) {
	if label, ok := MilestoneFor(0); !ok || label != "born" {
		t.Fatalf("MilestoneFor(0) = %q,%v", label, ok)
	}
	if label, ok := MilestoneFor(65); !ok || label != "retirement age" {
		t.Fatalf("MilestoneFor(65) = %q,%v", label, ok)
	}
	if label, ok := MilestoneFor(90); !ok || label != "turns 90" {
		t.Fatalf("MilestoneFor(90) = %q,%v", label, ok)
	}
	if _, ok := MilestoneFor(7); ok {
		t.Fatal("MilestoneFor(7) should not match")
	}
	if _, ok := MilestoneFor(-10); ok {
		t.Fatal("negative decades are not milestones")
	}
}

func TestCumulativeSavings_NoGrowthNoNaN(t *testing.T) {
	f := model.FinancePlan{}
	got := CumulativeSavings(f, 2030, 2024)
	if math.IsNaN(got) || got != 0 {
		t.Fatalf("empty plan savings = %v, want 0", got)
	}
}
