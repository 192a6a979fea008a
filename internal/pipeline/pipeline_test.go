package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/openai"
)

type fakeGen struct {
	mu        sync.Mutex
	textFn    func(req gemini.TextRequest) (string, error)
	imageFn   func(req gemini.ImageRequest) (*gemini.InlineImage, error)
	chatFn    func() (SeriesChat, error)
	textReqs  []gemini.TextRequest
	imageReqs []gemini.ImageRequest
}

func (f *fakeGen) GenerateText(_ context.Context, req gemini.TextRequest) (string, error) {
	f.mu.Lock()
	f.textReqs = append(f.textReqs, req)
	f.mu.Unlock()
	return f.textFn(req)
}

func (f *fakeGen) GenerateImage(_ context.Context, req gemini.ImageRequest) (*gemini.InlineImage, error) {
	f.mu.Lock()
	f.imageReqs = append(f.imageReqs, req)
	f.mu.Unlock()
	return f.imageFn(req)
}

func (f *fakeGen) NewImageChat(context.Context) (SeriesChat, error) {
	if f.chatFn == nil {
		return nil, errors.New("no chat")
	}
	return f.chatFn()
}

func (f *fakeGen) imageCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.imageReqs)
}

type fakeChat struct {
	fn func(req openai.ChatRequest) (string, error)
}

func (f *fakeChat) Complete(_ context.Context, req openai.ChatRequest) (string, error) {
	return f.fn(req)
}

func testImage(tag string) *gemini.InlineImage {
	return &gemini.InlineImage{MIMEType: "image/png", Data: []byte(tag)}
}

func testContext() YearContext {
	return YearContext{
		Summary: model.YearSummary{
			Year: 2030,
			Ages: map[string]int{"p1": 46, "p2": 9},
			City: "Austin, TX",
		},
		People: []model.Person{
			{ID: "p1", Name: "Alex", Role: model.RoleSelf, BirthYear: 1984},
			{ID: "p2", Name: "Nikolai", Role: model.RoleChild, BirthYear: 2021},
		},
	}
}

func sceneJSON(n int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(`{"index":%d,"sceneDescription":"Scene %d by the lake.","timeOfDay":"morning"}`, i, i))
	}
	return `{"sceneIdeas":[` + strings.Join(items, ",") + `]}`
}

func segmentText(segments []gemini.Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestDayTextFallsBackWithoutCompleter(t *testing.T) {
	p := New(Options{})
	got := p.DayText(context.Background(), 2030, model.DayChristmas, testContext())
	want := FallbackDayText(model.DayChristmas, 2030)
	if got != want {
		t.Fatalf("DayText = %q, want fallback %q", got, want)
	}
	if !strings.Contains(got, "2030") {
		t.Fatalf("fallback text %q does not mention the year", got)
	}
}

func TestDayTextFallsBackOnError(t *testing.T) {
	chat := &fakeChat{fn: func(openai.ChatRequest) (string, error) {
		return "", errors.New("upstream down")
	}}
	p := New(Options{Completer: chat})
	got := p.DayText(context.Background(), 2031, model.DaySummer, testContext())
	if got != FallbackDayText(model.DaySummer, 2031) {
		t.Fatalf("DayText = %q, want summer fallback", got)
	}
}

func TestDayTextUsesCompleter(t *testing.T) {
	var captured openai.ChatRequest
	chat := &fakeChat{fn: func(req openai.ChatRequest) (string, error) {
		captured = req
		return "A generated vignette.", nil
	}}
	p := New(Options{Completer: chat})

	got := p.DayText(context.Background(), 2030, model.DayThanksgiving, testContext())
	if got != "A generated vignette." {
		t.Fatalf("DayText = %q, want completer output", got)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("got %d messages, want system+user", len(captured.Messages))
	}
	user, _ := captured.Messages[1].Content.(string)
	if !strings.Contains(user, "Thanksgiving Day") || !strings.Contains(user, "2030") {
		t.Fatalf("user prompt %q missing day phrase or year", user)
	}
	if !strings.Contains(user, "Austin, TX") {
		t.Fatalf("user prompt %q missing city context", user)
	}
}

func TestAllDayTextsAlwaysComplete(t *testing.T) {
	chat := &fakeChat{fn: func(req openai.ChatRequest) (string, error) {
		user, _ := req.Messages[1].Content.(string)
		if strings.Contains(user, "birthday") {
			return "", errors.New("flaky")
		}
		return "ok: " + user[:20], nil
	}}
	p := New(Options{Completer: chat})

	texts := p.AllDayTexts(context.Background(), 2030, testContext())
	if len(texts) != len(model.DayTypes) {
		t.Fatalf("got %d day texts, want %d", len(texts), len(model.DayTypes))
	}
	if texts[model.DayBirthday] != FallbackDayText(model.DayBirthday, 2030) {
		t.Fatalf("failed day type did not fall back: %q", texts[model.DayBirthday])
	}
	for _, dt := range model.DayTypes {
		if texts[dt] == "" {
			t.Fatalf("day type %s has empty text", dt)
		}
	}
}

func TestPlanScenesExactlyFive(t *testing.T) {
	gen := &fakeGen{textFn: func(gemini.TextRequest) (string, error) {
		return sceneJSON(5), nil
	}}
	p := New(Options{Generator: gen})

	scenes, err := p.PlanScenes(context.Background(), 2030, model.DayChristmas, "a quiet morning", testContext())
	if err != nil {
		t.Fatalf("PlanScenes: %v", err)
	}
	if len(scenes) != 5 {
		t.Fatalf("got %d scenes, want 5", len(scenes))
	}
	for i, s := range scenes {
		if s.Index != i {
			t.Fatalf("scene %d has index %d", i, s.Index)
		}
	}
	if gen.textReqs[0].Schema == nil {
		t.Fatal("scene plan request has no response schema")
	}
}

func TestPlanScenesRejectsShortPlan(t *testing.T) {
	gen := &fakeGen{textFn: func(gemini.TextRequest) (string, error) {
		return sceneJSON(4), nil
	}}
	p := New(Options{Generator: gen})

	if _, err := p.PlanScenes(context.Background(), 2030, model.DaySummer, "", testContext()); !errors.Is(err, ErrScenePlan) {
		t.Fatalf("err = %v, want ErrScenePlan", err)
	}
}

func TestPlanScenesRejectsBlankScene(t *testing.T) {
	blank := strings.Replace(sceneJSON(5), "Scene 2 by the lake.", "   ", 1)
	gen := &fakeGen{textFn: func(gemini.TextRequest) (string, error) {
		return blank, nil
	}}
	p := New(Options{Generator: gen})

	if _, err := p.PlanScenes(context.Background(), 2030, model.DaySummer, "", testContext()); !errors.Is(err, ErrScenePlan) {
		t.Fatalf("err = %v, want ErrScenePlan", err)
	}
}

func TestPlanScenesWithoutGenerator(t *testing.T) {
	p := New(Options{})
	if _, err := p.PlanScenes(context.Background(), 2030, model.DaySpring, "", testContext()); !errors.Is(err, ErrImagesNotConfigured) {
		t.Fatalf("err = %v, want ErrImagesNotConfigured", err)
	}
}

func TestSceneImageRetriesOnceOnMajorIssue(t *testing.T) {
	gen := &fakeGen{
		textFn: func(gemini.TextRequest) (string, error) {
			return `{"consistent":false,"issues":[{"person":"Alex","issue":"different face","severity":4}],"fixPrompt":"match the anchor face"}`, nil
		},
		imageFn: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
			return testImage("img"), nil
		},
	}
	p := New(Options{Generator: gen})

	img, err := p.SceneImage(context.Background(), SceneImageRequest{
		Year:    2030,
		Scene:   model.SceneIdea{Index: 2, SceneDescription: "Lunch outside.", TimeOfDay: "noon"},
		Context: testContext(),
		Anchor:  testImage("anchor"),
	})
	if err != nil {
		t.Fatalf("SceneImage: %v", err)
	}
	if got := gen.imageCalls(); got != 2 {
		t.Fatalf("image generation called %d times, want 2 (original + one retry)", got)
	}
	if img.Index != 2 || img.SceneDescription != "Lunch outside." {
		t.Fatalf("unexpected board image %+v", img)
	}
	retry := segmentText(gen.imageReqs[1].Segments)
	if !strings.Contains(retry, "match the anchor face") {
		t.Fatal("retry prompt missing judge fix prompt")
	}
	if !strings.Contains(retry, "CURRENT IMAGE") {
		t.Fatal("retry prompt missing the failed image as base")
	}
}

func TestSceneImageNoRetryWhenConsistent(t *testing.T) {
	gen := &fakeGen{
		textFn: func(gemini.TextRequest) (string, error) {
			return `{"consistent":true,"issues":[],"fixPrompt":""}`, nil
		},
		imageFn: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
			return testImage("img"), nil
		},
	}
	p := New(Options{Generator: gen})

	if _, err := p.SceneImage(context.Background(), SceneImageRequest{
		Year:    2030,
		Scene:   model.SceneIdea{Index: 0, SceneDescription: "Breakfast."},
		Context: testContext(),
		Anchor:  testImage("anchor"),
	}); err != nil {
		t.Fatalf("SceneImage: %v", err)
	}
	if got := gen.imageCalls(); got != 1 {
		t.Fatalf("image generation called %d times, want 1", got)
	}
}

func TestSceneImageNoRetryOnMinorIssueWithoutFix(t *testing.T) {
	gen := &fakeGen{
		textFn: func(gemini.TextRequest) (string, error) {
			return `{"consistent":false,"issues":[{"person":"Alex","issue":"slight hair change","severity":2}],"fixPrompt":""}`, nil
		},
		imageFn: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
			return testImage("img"), nil
		},
	}
	p := New(Options{Generator: gen})

	if _, err := p.SceneImage(context.Background(), SceneImageRequest{
		Year:    2030,
		Scene:   model.SceneIdea{Index: 1, SceneDescription: "A walk."},
		Context: testContext(),
		Anchor:  testImage("anchor"),
	}); err != nil {
		t.Fatalf("SceneImage: %v", err)
	}
	if got := gen.imageCalls(); got != 1 {
		t.Fatalf("image generation called %d times, want 1", got)
	}
}

func TestSceneImageKeepsImageWhenJudgeFails(t *testing.T) {
	gen := &fakeGen{
		textFn: func(gemini.TextRequest) (string, error) {
			return "", errors.New("judge unavailable")
		},
		imageFn: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
			return testImage("img"), nil
		},
	}
	p := New(Options{Generator: gen})

	img, err := p.SceneImage(context.Background(), SceneImageRequest{
		Year:    2030,
		Scene:   model.SceneIdea{Index: 3, SceneDescription: "Dinner."},
		Context: testContext(),
		Anchor:  testImage("anchor"),
	})
	if err != nil {
		t.Fatalf("SceneImage: %v", err)
	}
	if img.ImageURL == "" {
		t.Fatal("image discarded after judge failure")
	}
	if got := gen.imageCalls(); got != 1 {
		t.Fatalf("image generation called %d times, want 1", got)
	}
}

func TestNeedsRetry(t *testing.T) {
	tests := []struct {
		name    string
		verdict ConsistencyVerdict
		want    bool
	}{
		{"consistent", ConsistencyVerdict{Consistent: true}, false},
		{"inconsistent no signal", ConsistencyVerdict{Consistent: false}, false},
		{"major issue", ConsistencyVerdict{Consistent: false, Issues: []ConsistencyIssue{{Severity: 3}}}, true},
		{"minor issue only", ConsistencyVerdict{Consistent: false, Issues: []ConsistencyIssue{{Severity: 2}}}, false},
		{"fix prompt only", ConsistencyVerdict{Consistent: false, FixPrompt: "fix the eyes"}, true},
		{"blank fix prompt", ConsistencyVerdict{Consistent: false, FixPrompt: "  \n"}, false},
		{"consistent with fix prompt", ConsistencyVerdict{Consistent: true, FixPrompt: "irrelevant"}, false},
	}
	for _, tt := range tests {
		if got := tt.verdict.needsRetry(); got != tt.want {
			t.Fatalf("%s: needsRetry = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func boardFakeGen(failScenes map[int]bool) *fakeGen {
	gen := &fakeGen{}
	gen.textFn = func(req gemini.TextRequest) (string, error) {
		if strings.Contains(segmentText(req.Segments), "creative director") {
			return sceneJSON(5), nil
		}
		return `{"consistent":true,"issues":[],"fixPrompt":""}`, nil
	}
	gen.imageFn = func(req gemini.ImageRequest) (*gemini.InlineImage, error) {
		text := segmentText(req.Segments)
		if strings.Contains(text, "ANCHOR photo") {
			return testImage("anchor"), nil
		}
		for i := 0; i < 5; i++ {
			if strings.Contains(text, fmt.Sprintf("Scene %d by the lake.", i)) {
				if failScenes[i] {
					return nil, errors.New("scene failed")
				}
				return testImage(fmt.Sprintf("scene-%d", i)), nil
			}
		}
		return nil, errors.New("unexpected image request")
	}
	return gen
}

func TestVisionBoardAssemblesInOrder(t *testing.T) {
	gen := boardFakeGen(nil)
	p := New(Options{Generator: gen, Parallel: 2})

	res, err := p.VisionBoard(context.Background(), 2030, model.DayChristmas, "cozy morning", testContext(), nil, nil)
	if err != nil {
		t.Fatalf("VisionBoard: %v", err)
	}
	if len(res.Images) != 5 {
		t.Fatalf("got %d images, want 5", len(res.Images))
	}
	for i, img := range res.Images {
		if img.Index != i {
			t.Fatalf("image %d has index %d, want sorted order", i, img.Index)
		}
	}
	if len(res.FailedScenes) != 0 {
		t.Fatalf("unexpected failed scenes %v", res.FailedScenes)
	}
}

func TestVisionBoardSkipsFailedScenes(t *testing.T) {
	gen := boardFakeGen(map[int]bool{2: true})
	p := New(Options{Generator: gen})

	res, err := p.VisionBoard(context.Background(), 2030, model.DaySummer, "", testContext(), nil, nil)
	if err != nil {
		t.Fatalf("VisionBoard: %v", err)
	}
	if len(res.Images) != 4 {
		t.Fatalf("got %d images, want 4", len(res.Images))
	}
	if len(res.FailedScenes) != 1 || res.FailedScenes[0] != 2 {
		t.Fatalf("failed scenes = %v, want [2]", res.FailedScenes)
	}
	for _, img := range res.Images {
		if img.Index == 2 {
			t.Fatal("failed scene present in results")
		}
	}
}

func TestVisionBoardFailsWhenAllScenesFail(t *testing.T) {
	gen := boardFakeGen(map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true})
	p := New(Options{Generator: gen})

	if _, err := p.VisionBoard(context.Background(), 2030, model.DaySpring, "", testContext(), nil, nil); !errors.Is(err, ErrNoImages) {
		t.Fatalf("err = %v, want ErrNoImages", err)
	}
}

func TestVisionBoardAbortsWithoutAnchor(t *testing.T) {
	gen := &fakeGen{
		textFn: func(gemini.TextRequest) (string, error) {
			return sceneJSON(5), nil
		},
		imageFn: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
			return nil, errors.New("model overloaded")
		},
	}
	p := New(Options{Generator: gen})

	if _, err := p.VisionBoard(context.Background(), 2030, model.DayBirthday, "", testContext(), nil, nil); !errors.Is(err, ErrAnchor) {
		t.Fatalf("err = %v, want ErrAnchor", err)
	}
	if got := gen.imageCalls(); got != 1 {
		t.Fatalf("image generation called %d times after anchor failure, want 1", got)
	}
}

func TestAnalyzePhotoMatchesPeople(t *testing.T) {
	chat := &fakeChat{fn: func(openai.ChatRequest) (string, error) {
		return "```json\n{\"descriptions\":[{\"name\":\"alex\",\"description\":\"Tall, brown hair.\"},{\"name\":\"Grandma June\",\"description\":\"Silver hair.\"}]}\n```", nil
	}}
	p := New(Options{Completer: chat})

	people := testContext().People
	descs, err := p.AnalyzePhoto(context.Background(), "data:image/jpeg;base64,AAAA", people)
	if err != nil {
		t.Fatalf("AnalyzePhoto: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("got %d descriptions, want 2", len(descs))
	}
	if descs[0].PersonID != "p1" || descs[0].PersonName != "Alex" {
		t.Fatalf("name match failed: %+v", descs[0])
	}
	if descs[1].PersonID != "unknown" || descs[1].PersonName != "Grandma June" {
		t.Fatalf("unmatched person mishandled: %+v", descs[1])
	}
}

func TestAnalyzePhotoFallsBackToRawText(t *testing.T) {
	chat := &fakeChat{fn: func(openai.ChatRequest) (string, error) {
		return "The family appears to be two adults and a child, all with dark hair.", nil
	}}
	p := New(Options{Completer: chat})

	descs, err := p.AnalyzePhoto(context.Background(), "data:image/jpeg;base64,AAAA", testContext().People)
	if err != nil {
		t.Fatalf("AnalyzePhoto: %v", err)
	}
	if len(descs) != 1 || descs[0].PersonName != "Family" || descs[0].PersonID != "p1" {
		t.Fatalf("raw-text fallback wrong: %+v", descs)
	}
}

func TestAnalyzePhotoWithoutCompleter(t *testing.T) {
	p := New(Options{})
	if _, err := p.AnalyzePhoto(context.Background(), "data:image/jpeg;base64,AAAA", nil); !errors.Is(err, ErrTextNotConfigured) {
		t.Fatalf("err = %v, want ErrTextNotConfigured", err)
	}
}

type fakeSeriesChat struct {
	mu    sync.Mutex
	turns []string
	fail  map[int]bool // turn index (0 = setup) -> fail
}

func (f *fakeSeriesChat) Send(_ context.Context, segments []gemini.Segment) (*gemini.InlineImage, error) {
	f.mu.Lock()
	idx := len(f.turns)
	f.turns = append(f.turns, segmentText(segments))
	f.mu.Unlock()
	if f.fail[idx] {
		return nil, errors.New("turn failed")
	}
	return testImage(fmt.Sprintf("turn-%d", idx)), nil
}

func multiYearContexts(years ...int) []YearContext {
	out := make([]YearContext, 0, len(years))
	base := testContext()
	for _, y := range years {
		yc := base
		yc.Summary.Year = y
		out = append(out, yc)
	}
	return out
}

func TestTimelineImagesUsesChatForMultipleYears(t *testing.T) {
	chat := &fakeSeriesChat{}
	gen := &fakeGen{chatFn: func() (SeriesChat, error) { return chat, nil }}
	p := New(Options{Generator: gen})

	images, err := p.TimelineImages(context.Background(), multiYearContexts(2030, 2031, 2032), nil, nil)
	if err != nil {
		t.Fatalf("TimelineImages: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("got %d images, want 3", len(images))
	}
	if len(chat.turns) != 4 {
		t.Fatalf("got %d chat turns, want setup + 3 years", len(chat.turns))
	}
	if !strings.Contains(chat.turns[0], "ANCHOR family photo") {
		t.Fatal("first turn is not the anchor setup")
	}
	for i, img := range images {
		if img.Year != 2030+i {
			t.Fatalf("image %d has year %d", i, img.Year)
		}
		if img.ImageURL == "" {
			t.Fatalf("image %d has empty URL", i)
		}
	}
	if gen.imageCalls() != 0 {
		t.Fatal("multi-year run should not use one-shot generation")
	}
}

func TestTimelineImagesSkipsFailedYears(t *testing.T) {
	chat := &fakeSeriesChat{fail: map[int]bool{2: true}} // second year turn
	gen := &fakeGen{chatFn: func() (SeriesChat, error) { return chat, nil }}
	p := New(Options{Generator: gen})

	images, err := p.TimelineImages(context.Background(), multiYearContexts(2030, 2031, 2032), nil, nil)
	if err != nil {
		t.Fatalf("TimelineImages: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	for _, img := range images {
		if img.Year == 2031 {
			t.Fatal("failed year present in results")
		}
	}
}

func TestTimelineImagesSingleYearSkipsChat(t *testing.T) {
	gen := &fakeGen{imageFn: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
		return testImage("single"), nil
	}}
	p := New(Options{Generator: gen})

	images, err := p.TimelineImages(context.Background(), multiYearContexts(2035), nil, nil)
	if err != nil {
		t.Fatalf("TimelineImages: %v", err)
	}
	if len(images) != 1 || images[0].Year != 2035 {
		t.Fatalf("unexpected images %+v", images)
	}
	if gen.imageCalls() != 1 {
		t.Fatalf("image generation called %d times, want 1", gen.imageCalls())
	}
}
