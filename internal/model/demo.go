package model

// DemoPlan returns the starter plan used on first run and after a reset.
func DemoPlan() *Plan {
	y := ThisYear()
	return &Plan{
		Version:   PlanVersion,
		StartYear: y,
		Horizon:   20,
		People: []Person{
			{ID: "self", Name: "You", BirthYear: y - 42, Role: RoleSelf},
			{ID: "partner", Name: "Partner", BirthYear: y - 38, Role: RolePartner},
			{ID: "kid1", Name: "Nikolai", BirthYear: y - 5, Role: RoleChild, SchoolStartAge: 5},
			{ID: "kid2", Name: "Baby", BirthYear: y - 1, Role: RoleChild, SchoolStartAge: 5},
		},
		CityPlan: []CityRange{
			{YearFrom: y, City: "Austin"},
		},
		Finance: FinancePlan{
			AnnualSavings: 120000,
			GrowthPct:     2,
			OneOffs: []OneOff{
				{ID: "downpayment", Year: y + 1, Label: "House Down Payment", Amount: -250000},
			},
		},
		Experiences: []Experience{
			{Kind: ExperienceRecurring, Label: "Summer Abroad", EveryNYears: 3, StartYear: y + 1},
		},
		Focus: []FocusMix{
			{DecadeStart: y, Work: 40, Family: 40, Health: 15, Friends: 5},
			{DecadeStart: y + 10, Work: 35, Family: 35, Health: 25, Friends: 5},
		},
		Journal: make(map[int]DayJournals),
	}
}
