package voice

import (
	"strings"
	"testing"
)

func TestCleanStripsMarkupAndSymbols(t *testing.T) {
	t.Parallel()

	in := "**Growth** is at 40% & rising, segment #2 leads"
	out := Clean(in)
	if strings.ContainsAny(out, "*&#%") {
		t.Fatalf("markup or symbols survived: %q", out)
	}
	if !strings.Contains(out, "40percent") {
		t.Fatalf("percent substitution missing: %q", out)
	}
	if !strings.Contains(out, "number2") {
		t.Fatalf("number substitution missing: %q", out)
	}
}

func TestCleanConversationalSwaps(t *testing.T) {
	t.Parallel()

	out := Clean("Com base na análise, Recomendo foco no segmento A. Sugiro revisar o funil.")
	if !strings.Contains(out, "Based on my analysis") {
		t.Fatalf("missing analysis swap: %q", out)
	}
	if !strings.Contains(out, "I recommend") || !strings.Contains(out, "I suggest") {
		t.Fatalf("missing recommendation swaps: %q", out)
	}
}

func TestTruncateWordsOverBudget(t *testing.T) {
	t.Parallel()

	in := strings.TrimSpace(strings.Repeat("word ", 250))
	out := TruncateWords(in, MaxWords, ContinuationSuffix)
	if !strings.HasSuffix(out, ContinuationSuffix) {
		t.Fatalf("expected continuation suffix, got tail %q", out[len(out)-40:])
	}
	body := strings.TrimSuffix(out, ContinuationSuffix)
	if got := len(strings.Fields(body)); got != MaxWords {
		t.Fatalf("expected %d words, got %d", MaxWords, got)
	}
}

func TestTruncateWordsUnderBudget(t *testing.T) {
	t.Parallel()

	in := strings.TrimSpace(strings.Repeat("word ", 150))
	if out := TruncateWords(in, MaxWords, ContinuationSuffix); out != in {
		t.Fatalf("under-budget text must pass through unmodified")
	}
}

func TestTruncateWordsExactBudget(t *testing.T) {
	t.Parallel()

	in := strings.TrimSpace(strings.Repeat("word ", MaxWords))
	if out := TruncateWords(in, MaxWords, ContinuationSuffix); out != in {
		t.Fatalf("exact-budget text must pass through unmodified")
	}
}
