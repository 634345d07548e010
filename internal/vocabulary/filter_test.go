package vocabulary

import "testing"

func TestFilterEnglish(t *testing.T) {
	filter := FilterForLang("english")
	for _, word := range []string{"hello", "don't", "co-op", "New York", "Mr."} {
		if !filter(word) {
			t.Fatalf("expected %q to pass english filter", word)
		}
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "a1"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterTypable(t *testing.T) {
	filter := FilterForLang("")
	if !filter("résumé") {
		t.Fatalf("expected non-english words to pass the default filter")
	}
	if filter("bad\x00word") {
		t.Fatalf("expected control characters to be rejected")
	}
}
