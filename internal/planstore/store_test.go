package planstore

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/futureline/internal/model"
)

func testPlan() *model.Plan {
	plan := model.DemoPlan()
	plan.StartYear = 2026
	plan.SetJournalText(2027, model.DayChristmas, "Snow in Austin for once.")
	return plan
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	store := NewFileStore(path, DefaultBudget())

	want := testPlan()
	if _, err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(got.People) != len(want.People) {
		t.Fatalf("people = %d, want %d", len(got.People), len(want.People))
	}
	for i := range want.People {
		if got.People[i] != want.People[i] {
			t.Fatalf("person %d = %+v, want %+v", i, got.People[i], want.People[i])
		}
	}
	if len(got.CityPlan) != 1 || got.CityPlan[0].City != "Austin" {
		t.Fatalf("cityPlan = %+v", got.CityPlan)
	}
	if got.Finance.AnnualSavings != want.Finance.AnnualSavings ||
		len(got.Finance.OneOffs) != len(want.Finance.OneOffs) {
		t.Fatalf("finance = %+v, want %+v", got.Finance, want.Finance)
	}
	if len(got.Experiences) != 1 || got.Experiences[0].Label != "Summer Abroad" {
		t.Fatalf("experiences = %+v", got.Experiences)
	}
	if got.JournalText(2027, model.DayChristmas) != "Snow in Austin for once." {
		t.Fatalf("journal lost in round trip: %+v", got.Journal)
	}
	if got.Version != model.PlanVersion {
		t.Fatalf("version = %d, want %d", got.Version, model.PlanVersion)
	}
}

func TestStore_LoadMissingReturnsErrNoPlan(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"), DefaultBudget())
	if _, err := store.Load(); !errors.Is(err, ErrNoPlan) {
		t.Fatalf("Load on missing file = %v, want ErrNoPlan", err)
	}

	plan, err := store.LoadOrDemo()
	if err != nil {
		t.Fatalf("LoadOrDemo: %v", err)
	}
	if len(plan.People) == 0 {
		t.Fatal("LoadOrDemo returned an empty plan, want the demo plan")
	}
}

func TestStore_Mutate(t *testing.T) {
	store := New(&MemoryBackend{}, DefaultBudget())

	if _, err := store.Mutate(func(p *model.Plan) error {
		p.Horizon = 30
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load after Mutate: %v", err)
	}
	if got.Horizon != 30 {
		t.Fatalf("horizon = %d, want 30", got.Horizon)
	}
}

func TestStore_ConcurrentMutateLosesNothing(t *testing.T) {
	store := New(&MemoryBackend{}, DefaultBudget())
	if _, err := store.Save(testPlan()); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Mutate(func(p *model.Plan) error {
				p.SetJournalText(2030+i, model.DaySummer, "entry")
				return nil
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Mutate %d: %v", i, err)
		}
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := 0; i < writers; i++ {
		if got.JournalText(2030+i, model.DaySummer) != "entry" {
			t.Fatalf("journal entry for %d lost: %+v", 2030+i, got.Journal)
		}
	}
}

func TestBudget_DropsSectionsInOrder(t *testing.T) {
	plan := testPlan()
	big := strings.Repeat("x", 2000)
	plan.VisionBoards = map[string][]model.BoardImage{
		model.BoardKey(2027, model.DayChristmas): {{Index: 0, ImageURL: big}},
	}
	plan.TimelineImages = map[int]string{2027: big}
	plan.FamilyPhotos = []model.FamilyPhoto{
		{ID: "p1", DataURL: big},
		{ID: "p2", DataURL: big},
	}

	// Budget large enough once boards are gone but images remain.
	base, _, err := Budget{}.Fit(testPlan())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	budget := Budget{MaxBytes: len(base) + 3*len(big) + 1000, MaxPhotos: 3}

	blob, dropped, err := budget.Fit(plan)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(blob) > budget.MaxBytes {
		t.Fatalf("blob %d bytes exceeds budget %d", len(blob), budget.MaxBytes)
	}
	if len(dropped) == 0 || dropped[0] != SectionVisionBoards {
		t.Fatalf("dropped = %v, want vision boards dropped first", dropped)
	}
	for _, d := range dropped {
		if d == SectionTimelineImages {
			t.Fatalf("dropped = %v; timeline images should have survived this budget", dropped)
		}
	}

	// Untouched input.
	if len(plan.VisionBoards) != 1 {
		t.Fatal("Fit mutated the caller's plan")
	}
}

func TestBudget_PhotoCapBeforeFullDrop(t *testing.T) {
	plan := testPlan()
	big := strings.Repeat("y", 1000)
	for i := 0; i < 6; i++ {
		plan.FamilyPhotos = append(plan.FamilyPhotos, model.FamilyPhoto{ID: model.NewID("photo"), DataURL: big})
	}

	base, _, err := Budget{}.Fit(testPlan())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	budget := Budget{MaxBytes: len(base) + 3*len(big) + 500, MaxPhotos: 2}

	blob, dropped, err := budget.Fit(plan)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(blob) > budget.MaxBytes {
		t.Fatalf("blob %d bytes exceeds budget %d", len(blob), budget.MaxBytes)
	}

	capped := false
	for _, d := range dropped {
		if d == SectionPhotoCap {
			capped = true
		}
		if d == SectionPhotos {
			t.Fatalf("dropped = %v; cap should have been enough", dropped)
		}
	}
	if !capped {
		t.Fatalf("dropped = %v, want photo cap applied", dropped)
	}
}

func TestBudget_NoLimit(t *testing.T) {
	plan := testPlan()
	plan.TimelineImages = map[int]string{2030: strings.Repeat("z", 100000)}
	_, dropped, err := Budget{}.Fit(plan)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(dropped) != 0 {
		t.Fatalf("dropped = %v, want nothing dropped without a limit", dropped)
	}
}
