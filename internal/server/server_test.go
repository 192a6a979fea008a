package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/openai"
	"github.com/theirongolddev/futureline/internal/pipeline"
	"github.com/theirongolddev/futureline/internal/planstore"
)

type scriptedGen struct {
	text  func(req gemini.TextRequest) (string, error)
	image func(req gemini.ImageRequest) (*gemini.InlineImage, error)
}

func (g *scriptedGen) GenerateText(_ context.Context, req gemini.TextRequest) (string, error) {
	return g.text(req)
}

func (g *scriptedGen) GenerateImage(_ context.Context, req gemini.ImageRequest) (*gemini.InlineImage, error) {
	return g.image(req)
}

func (g *scriptedGen) NewImageChat(context.Context) (pipeline.SeriesChat, error) {
	return nil, errors.New("not used")
}

type scriptedChat struct {
	fn func(req openai.ChatRequest) (string, error)
}

func (c *scriptedChat) Complete(_ context.Context, req openai.ChatRequest) (string, error) {
	return c.fn(req)
}

func sceneJSON() string {
	items := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		items = append(items, fmt.Sprintf(`{"index":%d,"sceneDescription":"Moment %d.","timeOfDay":"morning"}`, i, i))
	}
	return `{"sceneIdeas":[` + strings.Join(items, ",") + `]}`
}

func newTestService(t *testing.T, opts pipeline.Options) (*Service, *planstore.Store) {
	t.Helper()
	store := planstore.New(&planstore.MemoryBackend{}, planstore.Budget{})
	if _, err := store.Save(model.DemoPlan()); err != nil {
		t.Fatalf("seeding plan: %v", err)
	}
	svc := New(Config{}, store, pipeline.New(opts), nil, nil)
	return svc, store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetPlan(t *testing.T) {
	svc, _ := newTestService(t, pipeline.Options{})
	rec := doJSON(t, svc.Handler(), http.MethodGet, "/v1/plan", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var plan model.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decoding plan: %v", err)
	}
	if len(plan.People) == 0 {
		t.Fatal("plan has no people")
	}
}

func TestGetPlanMissing(t *testing.T) {
	store := planstore.New(&planstore.MemoryBackend{}, planstore.Budget{})
	svc := New(Config{}, store, pipeline.New(pipeline.Options{}), nil, nil)

	rec := doJSON(t, svc.Handler(), http.MethodGet, "/v1/plan", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPutPlanRoundTrip(t *testing.T) {
	svc, store := newTestService(t, pipeline.Options{})

	plan := model.DemoPlan()
	plan.Horizon = 12
	rec := doJSON(t, svc.Handler(), http.MethodPut, "/v1/plan", plan)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	saved, err := store.Load()
	if err != nil {
		t.Fatalf("loading saved plan: %v", err)
	}
	if saved.Horizon != 12 {
		t.Fatalf("Horizon = %d, want 12", saved.Horizon)
	}
	if saved.Version != model.PlanVersion {
		t.Fatalf("Version = %d, want %d", saved.Version, model.PlanVersion)
	}
}

func TestTimelineEndpoint(t *testing.T) {
	svc, store := newTestService(t, pipeline.Options{})
	plan, _ := store.Load()

	rec := doJSON(t, svc.Handler(), http.MethodGet, "/v1/timeline", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Years []model.YearSummary `json:"years"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(resp.Years) != plan.Horizon+1 {
		t.Fatalf("got %d years, want %d", len(resp.Years), plan.Horizon+1)
	}
	if resp.Years[0].Year != plan.StartYear {
		t.Fatalf("first year = %d, want %d", resp.Years[0].Year, plan.StartYear)
	}
}

func TestDayTextFallsBackWithoutKey(t *testing.T) {
	svc, _ := newTestService(t, pipeline.Options{})

	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/day-text", map[string]any{
		"year": 2030, "dayType": "summer",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (day text never hard-fails)", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp["text"] != pipeline.FallbackDayText(model.DaySummer, 2030) {
		t.Fatalf("text = %q, want summer fallback", resp["text"])
	}
}

func TestDayTextRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t, pipeline.Options{})
	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/day-text", map[string]any{
		"year": 2030, "dayType": "halloween",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestDayTextsCoverAllTypes(t *testing.T) {
	svc, _ := newTestService(t, pipeline.Options{})
	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/day-texts", map[string]any{"year": 2031})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		AllDayTexts map[model.DayType]string `json:"allDayTexts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(resp.AllDayTexts) != len(model.DayTypes) {
		t.Fatalf("got %d texts, want %d", len(resp.AllDayTexts), len(model.DayTypes))
	}
}

func TestScenesWithoutGeneratorIsBadRequest(t *testing.T) {
	svc, _ := newTestService(t, pipeline.Options{})
	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/scenes", map[string]any{
		"year": 2030, "dayType": "christmas",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when images are not configured", rec.Code)
	}
}

func TestScenesShortPlanIsUnprocessable(t *testing.T) {
	gen := &scriptedGen{text: func(gemini.TextRequest) (string, error) {
		return `{"sceneIdeas":[{"index":0,"sceneDescription":"only one","timeOfDay":"am"}]}`, nil
	}}
	svc, _ := newTestService(t, pipeline.Options{Generator: gen})

	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/scenes", map[string]any{
		"year": 2030, "dayType": "christmas",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for short scene plan", rec.Code)
	}
}

func TestScenesUpstreamFailureIsBadGateway(t *testing.T) {
	gen := &scriptedGen{text: func(gemini.TextRequest) (string, error) {
		return "", errors.New("model overloaded")
	}}
	svc, _ := newTestService(t, pipeline.Options{Generator: gen})

	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/scenes", map[string]any{
		"year": 2030, "dayType": "christmas",
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestAnchorWithoutGeneratorIsBadRequest(t *testing.T) {
	svc, _ := newTestService(t, pipeline.Options{})
	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/anchor", map[string]any{"year": 2030})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when images are not configured", rec.Code)
	}
}

func TestAnchorReturnsDataURL(t *testing.T) {
	gen := &scriptedGen{image: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
		return &gemini.InlineImage{MIMEType: "image/png", Data: []byte("anchor")}, nil
	}}
	svc, _ := newTestService(t, pipeline.Options{Generator: gen})

	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/anchor", map[string]any{"year": 2030})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !strings.HasPrefix(resp["anchorImage"], "data:image/png;base64,") {
		t.Fatalf("anchorImage = %q, want png data URL", resp["anchorImage"])
	}
}

func TestSceneImageRejectsBadAnchor(t *testing.T) {
	gen := &scriptedGen{image: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
		return &gemini.InlineImage{MIMEType: "image/png", Data: []byte("x")}, nil
	}}
	svc, _ := newTestService(t, pipeline.Options{Generator: gen})

	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/scene-image", map[string]any{
		"year":        2030,
		"scene":       model.SceneIdea{Index: 0, SceneDescription: "Morning walk.", TimeOfDay: "morning"},
		"anchorImage": "not-a-data-url",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for malformed anchor", rec.Code)
	}
}

func TestSceneImageGeneratesOne(t *testing.T) {
	gen := &scriptedGen{
		text: func(gemini.TextRequest) (string, error) {
			return `{"consistent":true,"issues":[],"fixPrompt":""}`, nil
		},
		image: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
			return &gemini.InlineImage{MIMEType: "image/png", Data: []byte("scene")}, nil
		},
	}
	svc, _ := newTestService(t, pipeline.Options{Generator: gen})

	anchor := gemini.InlineImage{MIMEType: "image/png", Data: []byte("anchor")}
	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/scene-image", map[string]any{
		"year":        2030,
		"scene":       model.SceneIdea{Index: 2, SceneDescription: "Dinner together.", TimeOfDay: "evening"},
		"anchorImage": anchor.DataURL(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var img model.BoardImage
	if err := json.Unmarshal(rec.Body.Bytes(), &img); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if img.Index != 2 {
		t.Fatalf("Index = %d, want 2", img.Index)
	}
}

func TestVisionBoardPersistsToPlan(t *testing.T) {
	gen := &scriptedGen{
		text: func(req gemini.TextRequest) (string, error) {
			for _, seg := range req.Segments {
				if strings.Contains(seg.Text, "creative director") {
					return sceneJSON(), nil
				}
			}
			return `{"consistent":true,"issues":[],"fixPrompt":""}`, nil
		},
		image: func(gemini.ImageRequest) (*gemini.InlineImage, error) {
			return &gemini.InlineImage{MIMEType: "image/png", Data: []byte("x")}, nil
		},
	}
	svc, store := newTestService(t, pipeline.Options{Generator: gen})

	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/vision-board", map[string]any{
		"year": 2030, "dayType": "christmas",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	plan, err := store.Load()
	if err != nil {
		t.Fatalf("loading plan: %v", err)
	}
	images := plan.VisionBoards[model.BoardKey(2030, model.DayChristmas)]
	if len(images) != 5 {
		t.Fatalf("got %d persisted board images, want 5", len(images))
	}

	events := doJSON(t, svc.Handler(), http.MethodGet, "/v1/events", nil)
	if !strings.Contains(events.Body.String(), "vision_board") {
		t.Fatal("no vision_board event published")
	}
}

func TestAnalyzePhotoPersistsDescriptions(t *testing.T) {
	chat := &scriptedChat{fn: func(openai.ChatRequest) (string, error) {
		return `{"descriptions":[{"name":"You","description":"Tall, short dark hair."}]}`, nil
	}}
	svc, store := newTestService(t, pipeline.Options{Completer: chat})

	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/analyze-photo", map[string]any{
		"photoDataUrl": "data:image/jpeg;base64,AAAA",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	plan, err := store.Load()
	if err != nil {
		t.Fatalf("loading plan: %v", err)
	}
	if len(plan.CharacterDescriptions) != 1 {
		t.Fatalf("got %d descriptions, want 1", len(plan.CharacterDescriptions))
	}
	if plan.CharacterDescriptions[0].PersonID == "unknown" {
		t.Fatal("description not matched to a plan person")
	}
}

func TestAnalyzePhotoWithoutKeyIsBadRequest(t *testing.T) {
	svc, _ := newTestService(t, pipeline.Options{})
	rec := doJSON(t, svc.Handler(), http.MethodPost, "/v1/analyze-photo", map[string]any{
		"photoDataUrl": "data:image/jpeg;base64,AAAA",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEventRingBuffer(t *testing.T) {
	store := planstore.New(&planstore.MemoryBackend{}, planstore.Budget{})
	svc := New(Config{EventsBuffer: 2}, store, pipeline.New(pipeline.Options{}), nil, nil)

	svc.publish(Event{Type: "a"})
	svc.publish(Event{Type: "b"})
	svc.publish(Event{Type: "c"})

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if len(svc.events) != 2 {
		t.Fatalf("got %d buffered events, want 2", len(svc.events))
	}
	if svc.events[0].Type != "b" || svc.events[1].Type != "c" {
		t.Fatalf("wrong events retained: %+v", svc.events)
	}
	if svc.events[1].ID != 3 {
		t.Fatalf("event IDs not monotonic: %+v", svc.events)
	}
}

func TestStatusEndpoint(t *testing.T) {
	svc, _ := newTestService(t, pipeline.Options{})
	rec := doJSON(t, svc.Handler(), http.MethodGet, "/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !st.PlanExists {
		t.Fatal("status reports no plan despite seeded store")
	}
}
