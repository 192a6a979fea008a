package mediacache

import (
	"path/filepath"
	"testing"

	"github.com/theirongolddev/futureline/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "media.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestTimelineImageRoundTrip(t *testing.T) {
	c := openTestCache(t)

	if _, ok, err := c.TimelineImage(2030); err != nil || ok {
		t.Fatalf("empty cache lookup = ok=%v err=%v", ok, err)
	}

	img := model.TimelineImage{Year: 2030, ImageURL: "data:image/png;base64,AAAA"}
	if err := c.SaveTimelineImage(img); err != nil {
		t.Fatalf("SaveTimelineImage: %v", err)
	}

	got, ok, err := c.TimelineImage(2030)
	if err != nil || !ok {
		t.Fatalf("TimelineImage = ok=%v err=%v", ok, err)
	}
	if got != img {
		t.Fatalf("got %+v, want %+v", got, img)
	}

	// Replace is idempotent per year.
	img.ImageURL = "data:image/png;base64,BBBB"
	if err := c.SaveTimelineImage(img); err != nil {
		t.Fatalf("replace: %v", err)
	}
	all, err := c.TimelineImages()
	if err != nil {
		t.Fatalf("TimelineImages: %v", err)
	}
	if len(all) != 1 || all[2030] != img.ImageURL {
		t.Fatalf("TimelineImages = %v", all)
	}
}

func TestBoardReplacesPriorSet(t *testing.T) {
	c := openTestCache(t)

	first := []model.BoardImage{
		{Index: 0, ImageURL: "a", SceneDescription: "morning"},
		{Index: 1, ImageURL: "b", SceneDescription: "noon"},
		{Index: 2, ImageURL: "c", SceneDescription: "dusk"},
	}
	if err := c.SaveBoard(2031, model.DayChristmas, first); err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}

	second := []model.BoardImage{
		{Index: 0, ImageURL: "x", SceneDescription: "tree"},
		{Index: 1, ImageURL: "y", SceneDescription: "gifts"},
	}
	if err := c.SaveBoard(2031, model.DayChristmas, second); err != nil {
		t.Fatalf("SaveBoard replace: %v", err)
	}

	got, err := c.Board(2031, model.DayChristmas)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("board has %d images after replace, want 2", len(got))
	}
	if got[0].ImageURL != "x" || got[1].ImageURL != "y" {
		t.Fatalf("board order wrong: %+v", got)
	}

	// Other keys are untouched.
	other, err := c.Board(2031, model.DaySummer)
	if err != nil {
		t.Fatalf("Board other key: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("unrelated key has %d images", len(other))
	}
}

func TestDeleteBoard(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveBoard(2032, model.DayBirthday, []model.BoardImage{{Index: 0, ImageURL: "i"}}); err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
	if err := c.DeleteBoard(2032, model.DayBirthday); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	got, err := c.Board(2032, model.DayBirthday)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("board not deleted: %+v", got)
	}

	n, err := c.BoardCount()
	if err != nil {
		t.Fatalf("BoardCount: %v", err)
	}
	if n != 0 {
		t.Fatalf("BoardCount = %d, want 0", n)
	}
}
