package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/pkg/embedding"
	"bayan-ai-be/pkg/lexical"
	"bayan-ai-be/pkg/rag/intent"
	"bayan-ai-be/pkg/rag/response"
	"bayan-ai-be/pkg/rag/search"
	"bayan-ai-be/pkg/rag/state"
	"bayan-ai-be/pkg/store"
)

// Retriever runs merged searches and full-record lookups
type Retriever interface {
	Search(ctx context.Context, q search.Query) ([]store.VerseRecord, error)
	FetchFull(ctx context.Context, surah string, verse int) *store.VerseRecord
}

// Config holds the turn defaults
type Config struct {
	Mode               state.Mode
	PageSize           int
	DefaultSearchLimit int
	DefaultShowCount   int
	EmbedTimeout       time.Duration
}

func DefaultConfig() Config {
	return Config{
		Mode:               state.ModeShown,
		PageSize:           store.DefaultPageSize,
		DefaultSearchLimit: lexical.DefaultSearchLimit,
		DefaultShowCount:   lexical.DefaultShowCount,
		EmbedTimeout:       15 * time.Second,
	}
}

// Reply is the outcome of a successful turn
type Reply struct {
	Text     string
	Action   intent.Action
	Rendered int
}

// TurnExecutor applies one routed decision to a session state. The caller
// holds the session lock for the whole call.
type TurnExecutor struct {
	retriever Retriever
	embedder  embedding.EmbeddingProvider
	narrator  response.Narrator
	renderer  *response.Renderer
	config    Config
	logger    logger.ILogger
}

func NewTurnExecutor(
	retriever Retriever,
	embedder embedding.EmbeddingProvider,
	narrator response.Narrator,
	log logger.ILogger,
	cfg Config,
) *TurnExecutor {
	def := DefaultConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.DefaultSearchLimit <= 0 {
		cfg.DefaultSearchLimit = def.DefaultSearchLimit
	}
	if cfg.DefaultShowCount <= 0 {
		cfg.DefaultShowCount = def.DefaultShowCount
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = def.EmbedTimeout
	}
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}
	if narrator == nil {
		narrator = response.StaticNarrator{}
	}
	return &TurnExecutor{
		retriever: retriever,
		embedder:  embedder,
		narrator:  narrator,
		renderer:  response.NewRenderer(retriever),
		config:    cfg,
		logger:    log,
	}
}

// Execute runs the branch selected by d. Failures are returned as *Failure and
// leave st untouched.
func (e *TurnExecutor) Execute(ctx context.Context, d intent.Decision, text string, st *store.SessionState) (Reply, error) {
	switch v := d.(type) {
	case intent.New:
		return e.newSearch(ctx, v, text, st)
	case intent.More:
		if e.config.Mode == state.ModeCursor {
			return e.advanceCursor(ctx, intent.ActionMore, v.Count, v.Focus, st)
		}
		return e.more(ctx, v, st)
	case intent.Continue:
		if e.config.Mode == state.ModeCursor {
			step, _ := lexical.ExtractNumber(text)
			if step <= 0 {
				step = e.pageSize(st)
			}
			return e.advanceCursor(ctx, intent.ActionContinue, step, v.Focus, st)
		}
		return e.replay(ctx, v, st)
	case intent.Detail:
		return e.detail(ctx, v, st)
	case intent.Clarify:
		msg := strings.TrimSpace(v.Message)
		if msg == "" {
			msg = response.MsgClarify
		}
		return Reply{Text: msg, Action: intent.ActionClarify}, nil
	}
	return Reply{}, &Failure{
		Kind:   response.FailureInternal,
		Reason: fmt.Sprintf("unsupported decision %T", d),
	}
}

func (e *TurnExecutor) newSearch(ctx context.Context, d intent.New, text string, st *store.SessionState) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, fail(response.FailureEmptyInput, "empty query")
	}

	topic := lexical.EnrichTopic(text, text)
	limit := lexical.SmartSearchLimit(text, e.config.DefaultSearchLimit)

	vec, err := e.embed(ctx, topic)
	if err != nil {
		return Reply{}, retrievalFailure("embed query", err)
	}

	results, err := e.retriever.Search(ctx, search.Query{
		Embedding: vec,
		Text:      text,
		Limit:     limit,
		Threshold: st.ScoreThreshold,
	})
	if err != nil {
		return Reply{}, retrievalFailure("search", err)
	}

	shown := lexical.SmartCount(text, len(results), e.config.DefaultShowCount)

	st.LastQueryText = topic
	st.LastUserText = text
	st.ActiveTopic = topic
	st.LastQueryEmbedding = vec
	st.LastLimit = limit
	st.LastFocus = d.Focus
	st.ReplaceResults(results, shown)

	e.logger.Info("Executor", "New search", map[string]interface{}{
		"topic":   topic,
		"limit":   limit,
		"results": len(results),
		"shown":   st.Shown,
	})

	if len(results) == 0 {
		return Reply{Text: response.MsgNoMatch, Action: intent.ActionNew}, nil
	}
	if st.Shown == 0 {
		return Reply{Text: response.MsgEmptyFirstBatch, Action: intent.ActionNew}, nil
	}

	batch := results[:st.Shown]
	var b strings.Builder
	b.WriteString(e.narrator.Generate(ctx, response.KindOpening, text, nil, nil))
	b.WriteString(e.renderer.Render(ctx, batch, d.Focus))
	if e.narrator.Concludes() {
		concl := e.narrator.Generate(ctx, response.KindConclusion, topic, batch, d.Focus)
		b.WriteString("\n\n📌 **Kesimpulan:**\n" + concl)
	}
	if remaining := state.Remaining(st.Shown, len(results)); remaining > 0 {
		b.WriteString("\n\n" + response.RemainingHint(remaining))
	}

	return Reply{Text: b.String(), Action: intent.ActionNew, Rendered: len(batch)}, nil
}

// more re-runs the stored query at a larger limit and shows the next slice
func (e *TurnExecutor) more(ctx context.Context, d intent.More, st *store.SessionState) (Reply, error) {
	if !st.HasContext() {
		return Reply{}, fail(response.FailureNoContext, "more without results")
	}

	step := d.Count
	if step <= 0 {
		step = e.pageSize(st)
	}
	newLimit := st.LastLimit + step

	results, err := e.retriever.Search(ctx, search.Query{
		Embedding: st.LastQueryEmbedding,
		Text:      st.UserQuery(),
		Limit:     newLimit,
		Threshold: st.ScoreThreshold,
	})
	if err != nil {
		return Reply{}, retrievalFailure("search more", err)
	}

	window, err := state.NextShown(st.Shown, len(results), step)
	if errors.Is(err, state.ErrExhausted) {
		if st.Shown >= st.Total() {
			return Reply{}, fail(response.FailureExhausted, "more after last result")
		}
		st.LastLimit = newLimit
		st.LastResults = results
		st.Shown = min(st.Shown, len(results))
		st.Cursor = min(st.Cursor, len(results))
		return Reply{Text: response.MsgNoAdditional, Action: intent.ActionMore}, nil
	}

	st.LastLimit = newLimit
	st.LastResults = results
	st.Shown = window.End
	st.Cursor = min(st.Cursor, len(results))
	st.LastFocus = d.Focus

	e.logger.Debug("Executor", "More results", map[string]interface{}{
		"limit": newLimit,
		"total": len(results),
		"start": window.Start,
		"end":   window.End,
	})

	batch := window.Slice(results)
	return Reply{
		Text:     e.renderer.Render(ctx, batch, d.Focus),
		Action:   intent.ActionMore,
		Rendered: len(batch),
	}, nil
}

// replay shows everything shown so far again under the current focus
func (e *TurnExecutor) replay(ctx context.Context, d intent.Continue, st *store.SessionState) (Reply, error) {
	if !st.HasContext() {
		return Reply{}, fail(response.FailureNoContext, "continue without results")
	}
	if st.Shown >= st.Total() {
		return Reply{}, fail(response.FailureExhausted, "continue after last result")
	}

	st.LastFocus = d.Focus
	batch := st.LastResults[:st.Shown]
	text := response.ContinueOpening(st.Topic()) + e.renderer.Render(ctx, batch, d.Focus)
	return Reply{Text: text, Action: intent.ActionContinue, Rendered: len(batch)}, nil
}

// advanceCursor walks the frozen result list of the last new search
func (e *TurnExecutor) advanceCursor(ctx context.Context, action intent.Action, step int, focus store.Focus, st *store.SessionState) (Reply, error) {
	if !st.HasContext() {
		return Reply{}, fail(response.FailureNoContext, "cursor without results")
	}

	total := st.Total()
	window, err := state.NextCursor(st.Cursor, total, step)
	if err != nil {
		return Reply{}, fail(response.FailureExhausted, "cursor at end")
	}

	st.Cursor = window.End
	st.Shown = max(st.Shown, window.End)
	st.LastFocus = focus

	batch := window.Slice(st.LastResults)
	remaining := state.Remaining(window.End, total)

	var b strings.Builder
	b.WriteString(response.MsgResuming + "\n\n")
	b.WriteString(e.renderer.Render(ctx, batch, focus))

	concludes := e.narrator.Concludes()
	if remaining == 0 {
		if concludes {
			concl := e.narrator.Generate(ctx, response.KindFinalConclusion, st.Topic(), st.LastResults, focus)
			b.WriteString("\n\n📌 **Kesimpulan Akhir:**\n" + concl)
		}
		b.WriteString("\n" + response.MsgAllDisplayed)
	} else {
		if concludes {
			concl := e.narrator.Generate(ctx, response.KindConclusion, st.Topic(), batch, focus)
			b.WriteString("\n\n📌 **Kesimpulan Sementara:**\n" + concl + "\n")
		}
		b.WriteString("\n" + response.MoreHint(remaining))
	}

	e.logger.Debug("Executor", "Cursor advanced", map[string]interface{}{
		"start":     window.Start,
		"end":       window.End,
		"remaining": remaining,
	})

	return Reply{Text: b.String(), Action: action, Rendered: len(batch)}, nil
}

func (e *TurnExecutor) detail(ctx context.Context, d intent.Detail, st *store.SessionState) (Reply, error) {
	if !st.HasContext() {
		return Reply{}, fail(response.FailureNoDetailContext, "detail without results")
	}
	total := st.Total()
	if d.Index == 0 {
		return Reply{}, fail(response.FailureMissingIndex, "detail without index")
	}
	if d.Index < 0 || d.Index > total {
		return Reply{}, &Failure{
			Kind:   response.FailureInvalidIndex,
			Reason: fmt.Sprintf("index %d out of range", d.Index),
			Total:  total,
		}
	}

	rec := st.LastResults[d.Index-1]
	if full := e.retriever.FetchFull(ctx, rec.Surah, rec.Verse); full != nil {
		score := rec.Score
		rec = *full
		rec.Score = score
	}
	st.LastFocus = d.Focus

	return Reply{
		Text:     e.renderer.Render(ctx, []store.VerseRecord{rec}, d.Focus),
		Action:   intent.ActionDetail,
		Rendered: 1,
	}, nil
}

func (e *TurnExecutor) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.EmbedTimeout)
	defer cancel()

	res, err := e.embedder.Generate(ctx, text, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("empty embedding")
	}
	return res.Embedding.Values, nil
}

func (e *TurnExecutor) pageSize(st *store.SessionState) int {
	if st.PageSize > 0 {
		return st.PageSize
	}
	return e.config.PageSize
}
