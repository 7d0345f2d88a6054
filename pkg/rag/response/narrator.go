package response

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/pkg/llm"
	"bayan-ai-be/pkg/store"
)

// Kind selects which piece of narration to produce
type Kind int

const (
	KindOpening Kind = iota
	KindConclusion
	KindFinalConclusion
)

// Record caps for the conclusion prompt
const (
	ConclusionRecords      = 12
	FinalConclusionRecords = 30
)

const DefaultNarrationTimeout = 60 * time.Second

// Narrator writes the prose surrounding a batch of rendered verses
type Narrator interface {
	Generate(ctx context.Context, kind Kind, topic string, records []store.VerseRecord, focus store.Focus) string
	// Concludes reports whether conclusion blocks should be appended at all
	Concludes() bool
}

// LLMNarrator summarises the displayed verses with the configured model.
// The opening sentence is always deterministic; any model failure degrades to a
// fixed Indonesian message instead of failing the turn.
type LLMNarrator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	timeout     time.Duration
}

func NewLLMNarrator(llmProvider llm.LLMProvider, log logger.ILogger, timeout time.Duration) *LLMNarrator {
	if timeout <= 0 {
		timeout = DefaultNarrationTimeout
	}
	return &LLMNarrator{llmProvider: llmProvider, logger: log, timeout: timeout}
}

func (n *LLMNarrator) Concludes() bool { return true }

func (n *LLMNarrator) Generate(ctx context.Context, kind Kind, topic string, records []store.VerseRecord, focus store.Focus) string {
	switch kind {
	case KindOpening:
		return Opening(topic)
	case KindFinalConclusion:
		return n.conclude(ctx, topic, records, focus, FinalConclusionRecords)
	default:
		return n.conclude(ctx, topic, records, focus, ConclusionRecords)
	}
}

func (n *LLMNarrator) conclude(ctx context.Context, topic string, records []store.VerseRecord, focus store.Focus, limit int) string {
	if len(records) == 0 {
		return MsgConclusionNoData
	}
	if len(records) > limit {
		records = records[:limit]
	}

	chunks := conclusionChunks(records, focus)
	if len(chunks) == 0 {
		return MsgConclusionNoText
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	answer, err := n.llmProvider.Generate(ctx, ConclusionPrompt(topic, chunks), llm.WithTemperature(0.2))
	if err != nil {
		n.logger.Warn("NARRATOR", "Conclusion generation failed", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
		return MsgConclusionTechnical
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return MsgConclusionEmpty
	}
	return answer
}

// ConclusionPrompt builds the summarisation prompt over the chunk lines
func ConclusionPrompt(topic string, chunks []string) string {
	return fmt.Sprintf(`Berdasarkan potongan terjemahan & tafsir berikut tentang "%s":
%s

Tulis kesimpulan yang BENAR-BENAR merangkum isi ayat yang ditampilkan.
- 2 paragraf, total 8–12 kalimat.
- Paragraf 1: benang merah tema & makna utama.
- Paragraf 2: implikasi perilaku manusia di dunia (tetap berbasis teks).
- Hindari pengulangan.
- Bahasa Indonesia formal dan jelas.`, topic, strings.Join(chunks, "\n"))
}

func conclusionChunks(records []store.VerseRecord, focus store.Focus) []string {
	var chunks []string
	for _, r := range records {
		if t := strings.TrimSpace(r.Translation); t != "" {
			chunks = append(chunks, "- TERJ: "+t)
		}
		for _, c := range []struct {
			source store.Source
			label  string
		}{
			{store.SourceTahlili, "TAHLILI"},
			{store.SourceWajiz, "WAJIZ"},
			{store.SourceHamka, "HAMKA"},
		} {
			text := strings.TrimSpace(r.Commentary(c.source))
			if text != "" && focus.Includes(c.source) {
				chunks = append(chunks, "- "+c.label+": "+text)
			}
		}
	}
	return chunks
}

// StaticNarrator never calls a model: openings only, no conclusions
type StaticNarrator struct{}

func (StaticNarrator) Concludes() bool { return false }

func (StaticNarrator) Generate(_ context.Context, kind Kind, topic string, _ []store.VerseRecord, _ store.Focus) string {
	if kind == KindOpening {
		return Opening(topic)
	}
	return ""
}
