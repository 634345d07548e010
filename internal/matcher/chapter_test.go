package matcher

import "testing"

func TestChapterCount(t *testing.T) {
	cases := map[int]int{0: 1, 5: 1, 20: 1, 21: 2, 40: 2, 41: 3}
	for size, want := range cases {
		if got := ChapterCount(size); got != want {
			t.Fatalf("size %d: expected %d chapters, got %d", size, want, got)
		}
	}
}

func TestChapterBounds(t *testing.T) {
	start, end := ChapterBounds(2, 35)
	if start != 20 || end != 35 {
		t.Fatalf("unexpected bounds %d..%d", start, end)
	}
	start, end = ChapterBounds(3, 35)
	if start != 35 || end != 35 {
		t.Fatalf("expected empty range past the end, got %d..%d", start, end)
	}
}

func TestIsChapterEnd(t *testing.T) {
	if !IsChapterEnd(19, 100) || !IsChapterEnd(39, 100) {
		t.Fatalf("expected chapter boundaries")
	}
	if IsChapterEnd(18, 100) {
		t.Fatalf("unexpected boundary at 18")
	}
	if !IsChapterEnd(24, 25) {
		t.Fatalf("expected end of list to finish the chapter")
	}
	if ChapterOf(19) != 1 || ChapterOf(20) != 2 {
		t.Fatalf("unexpected chapter numbers")
	}
}
