package perspectives

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"biaslens/nlp"
	"biaslens/types"
)

type fakeEmbedder struct {
	fail bool
}

func (f *fakeEmbedder) EmbedTexts(texts []string) ([][]float32, error) {
	if f.fail {
		return nil, errors.New("embedding backend down")
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 4)
		for j, r := range text {
			vec[(j+int(r))%4] += 1
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-embedder" }

type fakeGenerator struct {
	calls  int
	prompt string
	fail   bool
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, minWords, maxWords int) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.fail {
		return "", errors.New("generation backend down")
	}
	return fmt.Sprintf("generated summary %d", f.calls), nil
}

func toolkit(gen nlp.Generator) *nlp.Toolkit {
	return &nlp.Toolkit{Embedder: &fakeEmbedder{}, Generator: gen}
}

func sampleArticles(n int) []types.Article {
	articles := make([]types.Article, n)
	for i := range articles {
		articles[i] = types.Article{
			Title: fmt.Sprintf("headline number %d about the talks", i),
			Text:  strings.Repeat(fmt.Sprintf("body text variant %d for clustering. ", i), 5),
			URL:   fmt.Sprintf("https://example.com/story-%d", i),
		}
	}
	return articles
}

func TestExtractEmptyInput(t *testing.T) {
	if got := Extract(context.Background(), toolkit(&fakeGenerator{}), nil, "topic", 4); got != nil {
		t.Errorf("Extract(no articles) = %v, want nil", got)
	}
}

func TestExtractWithoutEmbedder(t *testing.T) {
	articles := sampleArticles(3)
	if got := Extract(context.Background(), &nlp.Toolkit{Generator: &fakeGenerator{}}, articles, "topic", 4); got != nil {
		t.Errorf("Extract(no embedder) = %v, want nil", got)
	}
	if got := Extract(context.Background(), nil, articles, "topic", 4); got != nil {
		t.Errorf("Extract(nil toolkit) = %v, want nil", got)
	}
}

func TestExtractClampsClusterCount(t *testing.T) {
	// 2 articles, 4 requested clusters: every article must still land in
	// exactly one perspective and none may be empty.
	articles := sampleArticles(2)
	perspectives := Extract(context.Background(), toolkit(&fakeGenerator{}), articles, "topic", 4)

	if len(perspectives) == 0 || len(perspectives) > 2 {
		t.Fatalf("perspective count = %d, want 1..2", len(perspectives))
	}
	for _, p := range perspectives {
		if p.Label == "" {
			t.Error("perspective has empty label")
		}
		if p.Summary == "" {
			t.Error("perspective has empty summary")
		}
	}
}

func TestExtractSingleArticle(t *testing.T) {
	gen := &fakeGenerator{}
	perspectives := Extract(context.Background(), toolkit(gen), sampleArticles(1), "topic", 4)

	if len(perspectives) != 1 {
		t.Fatalf("perspective count = %d, want 1", len(perspectives))
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
	if !strings.HasSuffix(perspectives[0].Label, "Perspective") {
		t.Errorf("label = %q, want a ... Perspective label", perspectives[0].Label)
	}
}

func TestExtractGeneratorFailureIsPerCluster(t *testing.T) {
	perspectives := Extract(context.Background(), toolkit(&fakeGenerator{fail: true}), sampleArticles(2), "topic", 2)

	if len(perspectives) == 0 {
		t.Fatal("Extract() returned nothing despite embedder working")
	}
	for _, p := range perspectives {
		if !strings.HasPrefix(p.Summary, "Error generating summary:") {
			t.Errorf("summary = %q, want an error placeholder", p.Summary)
		}
	}
}

func TestExtractWithoutGenerator(t *testing.T) {
	perspectives := Extract(context.Background(), toolkit(nil), sampleArticles(1), "topic", 1)

	if len(perspectives) != 1 {
		t.Fatalf("perspective count = %d, want 1", len(perspectives))
	}
	if perspectives[0].Summary != "Summarizer model not available." {
		t.Errorf("summary = %q, want unavailability placeholder", perspectives[0].Summary)
	}
}

func TestClusterLabelPrefersPlaces(t *testing.T) {
	cluster := []types.Article{
		{Title: "Trade talks continue", Text: "Officials in Singapore said the deal with Singapore is close. Singapore expects progress."},
	}
	label := clusterLabel(cluster)
	if label != "Singapore Perspective" {
		t.Errorf("label = %q, want %q", label, "Singapore Perspective")
	}
}

func TestClusterLabelFallsBackToTitleWord(t *testing.T) {
	cluster := []types.Article{
		{Title: "widget widget gadget", Text: "unremarkable body without any recognizable proper nouns."},
		{Title: "widget report", Text: "more plain body copy here."},
	}
	label := clusterLabel(cluster)
	if label != "Widget Perspective" {
		t.Errorf("label = %q, want %q", label, "Widget Perspective")
	}
}

func TestSummarizeClusterTruncatesOnRuneBoundary(t *testing.T) {
	// Three-byte runes positioned so a byte-indexed cut lands mid-rune:
	// the cluster text opens with "FX. " (4 bytes) and byte 2000 falls
	// inside a rune of the repeated sequence.
	cluster := []types.Article{{
		Title: "FX",
		Text:  strings.Repeat("€", clusterContextLimit),
	}}
	gen := &fakeGenerator{}

	summarizeCluster(context.Background(), gen, cluster, "Currency Perspective", "currencies")

	if !utf8.ValidString(gen.prompt) {
		t.Fatal("prompt contains a split multi-byte rune")
	}
	// The limit counts characters: "FX. " plus the remainder of the
	// budget in euro signs survives, nothing more.
	if got, want := strings.Count(gen.prompt, "€"), clusterContextLimit-len("FX. "); got != want {
		t.Errorf("context kept %d runes of cluster text, want %d", got, want)
	}
}

func TestMostFrequentFirstSeenWinsTies(t *testing.T) {
	if got := mostFrequent([]string{"b", "a", "a", "b"}); got != "b" {
		t.Errorf("mostFrequent() = %q, want first-seen %q", got, "b")
	}
	if got := mostFrequent(nil); got != "" {
		t.Errorf("mostFrequent(nil) = %q, want empty", got)
	}
}

func TestKMeansAssignsEveryVector(t *testing.T) {
	vectors := [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}
	labels := kMeans(vectors, 2)

	if len(labels) != len(vectors) {
		t.Fatalf("label count = %d, want %d", len(labels), len(vectors))
	}
	for i, label := range labels {
		if label < 0 || label >= 2 {
			t.Errorf("label[%d] = %d, out of range", i, label)
		}
	}
	if labels[0] != labels[1] || labels[2] != labels[3] {
		t.Errorf("labels = %v, want the near pairs grouped together", labels)
	}
	if labels[0] == labels[2] {
		t.Errorf("labels = %v, want the far pairs separated", labels)
	}
}

func TestKMeansDeterministic(t *testing.T) {
	vectors := [][]float64{{0, 0}, {1, 0}, {5, 5}, {6, 5}, {0, 9}}
	first := kMeans(vectors, 3)
	second := kMeans(vectors, 3)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("assignments differ between runs: %v vs %v", first, second)
		}
	}
}
