// Package analysis composes acquisition, retrieval, summarization,
// scoring, the temporal feedback loop and chart rendering into one
// synchronous pipeline invocation per topic request.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"biaslens/bias"
	"biaslens/evaluate"
	"biaslens/nlp"
	"biaslens/perspectives"
	"biaslens/ragindex"
	"biaslens/summarize"
	"biaslens/temporal"
	"biaslens/types"
	"biaslens/visualize"

	log "github.com/sirupsen/logrus"
)

// NoArticlesMessage is the exact error payload for a topic that yields no
// usable articles.
const NoArticlesMessage = "No articles found for the given topic."

// ErrNoArticles signals that acquisition produced zero usable articles.
// The request surface maps it to a not-found response carrying
// NoArticlesMessage; nothing is persisted or rendered in that case.
var ErrNoArticles = errors.New("no articles found for the given topic")

// ArticleFetcher is the acquisition dependency of the pipeline.
type ArticleFetcher interface {
	Fetch(ctx context.Context, topic string, count int) ([]types.Article, error)
}

// Runner holds the long-lived collaborators of the analysis pipeline.
type Runner struct {
	Fetcher      ArticleFetcher
	Toolkit      *nlp.Toolkit
	Index        *ragindex.Builder
	Temporal     *temporal.Analyzer
	VisualsPath  string
	ArticleCount int

	// Now is the clock used for artifact names; tests pin it.
	Now func() time.Time
}

// Analyze runs the full pipeline for one topic and returns the aggregate
// result record.
func (r *Runner) Analyze(ctx context.Context, topic string) (*types.Result, error) {
	log.Printf("===== STARTING ANALYSIS FOR: %s =====", strings.ToUpper(topic))

	articles, err := r.Fetcher.Fetch(ctx, topic, r.articleCount())
	if err != nil {
		return nil, fmt.Errorf("article acquisition failed: %w", err)
	}
	if len(articles) == 0 {
		log.Warn("No articles found. Halting analysis.")
		return nil, ErrNoArticles
	}

	idx := r.Index.Build(ctx, articles, topic)
	defer idx.Destroy()

	summary, ragContext := summarize.Generate(ctx, r.Toolkit, topic, idx)

	result := &types.Result{
		ExecutiveSummary:   summary,
		DetailedBiasReport: bias.Report(articles),
		Perspectives:       perspectives.Extract(ctx, r.Toolkit, articles, topic, perspectives.DefaultClusterCount),
	}

	evalQuery := fmt.Sprintf("Summarize the key events and perspectives about %s", topic)
	evaluation, err := evaluate.Evaluate(r.Toolkit, summary, ragContext, evalQuery)
	if err != nil {
		result.EvaluationError = err.Error()
	} else {
		result.SummaryEvaluation = evaluation
	}

	observations := temporal.FromArticles(articles)
	model, history, err := r.Temporal.Update(observations)
	if err != nil {
		return nil, fmt.Errorf("temporal update failed: %w", err)
	}

	historicalChart, sourceChart, err := r.renderCharts(history, articles, model)
	if err != nil {
		return nil, err
	}
	result.Visualizations = types.Visualizations{
		HistoricalBiasChartURL: "/static/visuals/" + historicalChart,
		SourceBiasChartURL:     "/static/visuals/" + sourceChart,
	}

	log.Println("Analysis complete.")
	return result, nil
}

// renderCharts writes both chart files and returns their file names.
func (r *Runner) renderCharts(history []temporal.Row, articles []types.Article, model *temporal.Forest) (string, string, error) {
	if err := os.MkdirAll(r.VisualsPath, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create visuals directory: %w", err)
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	timestamp := now().Format("20060102_150405")
	historicalChart := fmt.Sprintf("historical_bias_%s.png", timestamp)
	sourceChart := fmt.Sprintf("source_bias_%s.png", timestamp)

	if err := visualize.Evolution(history, filepath.Join(r.VisualsPath, historicalChart), model); err != nil {
		return "", "", err
	}
	if err := visualize.Sources(articles, filepath.Join(r.VisualsPath, sourceChart)); err != nil {
		return "", "", err
	}
	return historicalChart, sourceChart, nil
}

func (r *Runner) articleCount() int {
	if r.ArticleCount > 0 {
		return r.ArticleCount
	}
	return 25
}
