package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/pkg/embedding"
	"bayan-ai-be/pkg/rag/intent"
	"bayan-ai-be/pkg/rag/response"
	"bayan-ai-be/pkg/rag/search"
	"bayan-ai-be/pkg/rag/state"
	"bayan-ai-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	results []store.VerseRecord
	full    map[string]store.VerseRecord
	err     error
	queries []search.Query
}

func (f *fakeRetriever) Search(_ context.Context, q search.Query) ([]store.VerseRecord, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]store.VerseRecord, len(f.results))
	copy(out, f.results)
	return out, nil
}

func (f *fakeRetriever) FetchFull(_ context.Context, surah string, verse int) *store.VerseRecord {
	rec, ok := f.full[fmt.Sprintf("%s:%d", surah, verse)]
	if !ok {
		return nil
	}
	return &rec
}

func (f *fakeRetriever) lastQuery() search.Query {
	return f.queries[len(f.queries)-1]
}

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Generate(_ context.Context, _ string, _ string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type narration struct {
	kind    response.Kind
	records int
}

type fakeNarrator struct {
	calls []narration
}

func (f *fakeNarrator) Concludes() bool { return true }

func (f *fakeNarrator) Generate(_ context.Context, kind response.Kind, topic string, records []store.VerseRecord, _ store.Focus) string {
	f.calls = append(f.calls, narration{kind: kind, records: len(records)})
	if kind == response.KindOpening {
		return response.Opening(topic)
	}
	return "ringkasan"
}

func verses(n int) []store.VerseRecord {
	out := make([]store.VerseRecord, n)
	for i := range out {
		out[i] = store.VerseRecord{
			Surah:       "AN-NABA",
			Verse:       i + 1,
			Translation: fmt.Sprintf("terjemahan %d", i+1),
			Tahlili:     fmt.Sprintf("tahlili %d", i+1),
			Score:       0.9 - float64(i)*0.01,
		}
	}
	return out
}

// activeSession looks like a session after a new search that showed shown of n results
func activeSession(n, shown int) *store.SessionState {
	st := store.NewSessionState("s1")
	st.LastQueryText = "sabar"
	st.ActiveTopic = "sabar"
	st.LastQueryEmbedding = []float32{0.1, 0.2, 0.3}
	st.LastLimit = 20
	st.ReplaceResults(verses(n), shown)
	return st
}

func newTestExecutor(r *fakeRetriever, e *fakeEmbedder, n response.Narrator, mode state.Mode) *TurnExecutor {
	cfg := DefaultConfig()
	cfg.Mode = mode
	return NewTurnExecutor(r, e, n, logger.NewNopLogger(), cfg)
}

func asFailure(t *testing.T, err error) *Failure {
	t.Helper()
	var f *Failure
	require.True(t, errors.As(err, &f), "expected *Failure, got %v", err)
	return f
}

func TestNewSearchResetsState(t *testing.T) {
	r := &fakeRetriever{results: verses(12)}
	st := activeSession(30, 25)
	st.Cursor = 25
	st.LastFocus = store.Focus{store.SourceHamka}

	exec := newTestExecutor(r, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)
	reply, err := exec.Execute(context.Background(), intent.New{}, "ayat tentang rezeki", st)
	require.NoError(t, err)

	assert.Equal(t, intent.ActionNew, reply.Action)
	assert.Len(t, st.LastResults, 12)
	assert.Equal(t, 10, st.Shown)
	assert.Equal(t, 10, st.Cursor)
	assert.Equal(t, 20, st.LastLimit)
	assert.Empty(t, st.LastFocus)
	assert.Contains(t, st.LastQueryText, "rezeki")
	assert.Equal(t, st.LastQueryText, st.ActiveTopic)
	assert.Equal(t, "ayat tentang rezeki", st.LastUserText)
	assert.NotEmpty(t, st.LastQueryEmbedding)

	assert.Equal(t, 10, reply.Rendered)
	assert.Contains(t, reply.Text, "Baik, saya akan jelaskan tentang rezeki berdasarkan Al-Qur'an.")
	assert.Contains(t, reply.Text, "📖 **Surat AN-NABA ayat 10**")
	assert.NotContains(t, reply.Text, "ayat 11**")
	assert.Contains(t, reply.Text, "📌 **Kesimpulan:**\nringkasan")
	assert.Contains(t, reply.Text, "📝 Ketik **lanjut** untuk lihat sisa 2 ayat.")

	q := r.lastQuery()
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, "ayat tentang rezeki", q.Text)
	assert.InDelta(t, store.DefaultScoreThreshold, q.Threshold, 1e-9)
}

func TestNewSearchConclusionCoversFirstWindow(t *testing.T) {
	n := &fakeNarrator{}
	exec := newTestExecutor(&fakeRetriever{results: verses(12)}, &fakeEmbedder{}, n, state.ModeShown)

	_, err := exec.Execute(context.Background(), intent.New{}, "tampilkan 3 ayat tentang sabar", store.NewSessionState("s"))
	require.NoError(t, err)

	require.Len(t, n.calls, 2)
	assert.Equal(t, narration{kind: response.KindOpening}, n.calls[0])
	assert.Equal(t, narration{kind: response.KindConclusion, records: 3}, n.calls[1])
}

func TestNewSearchNoMatchStillReplacesState(t *testing.T) {
	st := activeSession(12, 5)
	exec := newTestExecutor(&fakeRetriever{}, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)

	reply, err := exec.Execute(context.Background(), intent.New{}, "topik yang tidak ada", st)
	require.NoError(t, err)

	assert.Equal(t, response.MsgNoMatch, reply.Text)
	assert.Empty(t, st.LastResults)
	assert.Zero(t, st.Shown)
	assert.Zero(t, st.Cursor)
}

func TestNewSearchRetrievalFailureLeavesState(t *testing.T) {
	tests := []struct {
		name      string
		retriever *fakeRetriever
		embedder  *fakeEmbedder
	}{
		{"embedding", &fakeRetriever{results: verses(3)}, &fakeEmbedder{err: errors.New("timeout")}},
		{"search", &fakeRetriever{err: errors.New("db down")}, &fakeEmbedder{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := activeSession(12, 5)
			before := *st

			exec := newTestExecutor(tt.retriever, tt.embedder, &fakeNarrator{}, state.ModeShown)
			_, err := exec.Execute(context.Background(), intent.New{}, "sabar", st)

			f := asFailure(t, err)
			assert.Equal(t, response.FailureRetrieval, f.Kind)
			assert.Equal(t, response.MsgRetrieval, f.Text())
			assert.NotNil(t, errors.Unwrap(f))
			assert.Equal(t, before, *st)
		})
	}
}

func TestNewSearchEmptyInput(t *testing.T) {
	e := &fakeEmbedder{}
	exec := newTestExecutor(&fakeRetriever{}, e, &fakeNarrator{}, state.ModeShown)

	_, err := exec.Execute(context.Background(), intent.New{}, "   ", store.NewSessionState("s"))
	assert.Equal(t, response.FailureEmptyInput, asFailure(t, err).Kind)
	assert.Zero(t, e.calls)
}

func TestMoreShowsNextSlice(t *testing.T) {
	r := &fakeRetriever{results: verses(12)}
	st := activeSession(12, 5)
	exec := newTestExecutor(r, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)

	reply, err := exec.Execute(context.Background(), intent.More{Count: 3}, "tambah 3", st)
	require.NoError(t, err)

	assert.Equal(t, 8, st.Shown)
	assert.Equal(t, 23, st.LastLimit)
	assert.Equal(t, 23, r.lastQuery().Limit)
	assert.Equal(t, 3, reply.Rendered)
	for _, v := range []int{6, 7, 8} {
		assert.Contains(t, reply.Text, fmt.Sprintf("ayat %d**", v))
	}
	for _, v := range []int{5, 9} {
		assert.NotContains(t, reply.Text, fmt.Sprintf("ayat %d**", v))
	}
}

func TestMoreReusesUserWording(t *testing.T) {
	r := &fakeRetriever{results: verses(12)}
	st := activeSession(12, 5)
	st.LastUserText = "ayat sabar"
	exec := newTestExecutor(r, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)

	_, err := exec.Execute(context.Background(), intent.More{Count: 2}, "tambah 2", st)
	require.NoError(t, err)
	assert.Equal(t, "ayat sabar", r.lastQuery().Text)
}

func TestMoreKeepsFilteringOfNewSearch(t *testing.T) {
	similar := verses(12)
	for _, i := range []int{1, 6} {
		similar[i].Translation = "balasan di akhirat"
		similar[i].Tahlili = ""
	}
	repo := &verseRepo{similar: similar}
	searcher := search.NewSearcher(repo, logger.NewNopLogger(), search.DefaultConfig())
	exec := NewTurnExecutor(searcher, &fakeEmbedder{}, &fakeNarrator{}, logger.NewNopLogger(), DefaultConfig())

	st := store.NewSessionState("s")
	_, err := exec.Execute(context.Background(), intent.New{}, "5 ayat kebaikan akhirat", st)
	require.NoError(t, err)
	require.Contains(t, st.ActiveTopic, "dunia")
	require.Equal(t, 12, st.Total())
	require.Equal(t, 5, st.Shown)

	reply, err := exec.Execute(context.Background(), intent.More{Count: 3}, "tambah 3", st)
	require.NoError(t, err)

	assert.Equal(t, 12, st.Total())
	assert.Equal(t, 8, st.Shown)
	for _, v := range []int{6, 7, 8} {
		assert.Contains(t, reply.Text, fmt.Sprintf("ayat %d**", v))
	}
	assert.NotContains(t, reply.Text, "ayat 9**")
}

func TestMoreAfterExhaustionDoesNotMutate(t *testing.T) {
	r := &fakeRetriever{results: verses(12)}
	st := activeSession(12, 12)
	before := *st
	exec := newTestExecutor(r, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)

	_, err := exec.Execute(context.Background(), intent.More{Count: 5}, "tambah 5", st)

	f := asFailure(t, err)
	assert.Equal(t, response.FailureExhausted, f.Kind)
	assert.Equal(t, response.MsgAllShown, f.Text())
	assert.Equal(t, before, *st)
}

func TestMoreWithShrunkenResults(t *testing.T) {
	r := &fakeRetriever{results: verses(4)}
	st := activeSession(12, 6)
	exec := newTestExecutor(r, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)

	reply, err := exec.Execute(context.Background(), intent.More{Count: 2}, "tambah 2", st)
	require.NoError(t, err)

	assert.Equal(t, response.MsgNoAdditional, reply.Text)
	assert.Len(t, st.LastResults, 4)
	assert.Equal(t, 4, st.Shown)
	assert.Equal(t, 22, st.LastLimit)
}

func TestMoreWithoutResults(t *testing.T) {
	st := store.NewSessionState("s")
	st.LastQueryEmbedding = []float32{1}
	exec := newTestExecutor(&fakeRetriever{}, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)

	_, err := exec.Execute(context.Background(), intent.More{Count: 5}, "tambah", st)
	assert.Equal(t, response.FailureNoContext, asFailure(t, err).Kind)
}

func TestContinueShownMode(t *testing.T) {
	t.Run("empty session", func(t *testing.T) {
		st := store.NewSessionState("s")
		d := intent.Resolve(intent.Classify("lanjutkan"), "lanjutkan", st)
		require.Equal(t, intent.ActionContinue, d.Action())

		exec := newTestExecutor(&fakeRetriever{}, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)
		_, err := exec.Execute(context.Background(), d, "lanjutkan", st)

		f := asFailure(t, err)
		assert.Equal(t, response.FailureNoContext, f.Kind)
		assert.Equal(t, response.MsgNoContext, f.Text())
		assert.Equal(t, store.NewSessionState("s"), st)
	})

	t.Run("replays shown results", func(t *testing.T) {
		st := activeSession(12, 5)
		exec := newTestExecutor(&fakeRetriever{}, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)

		reply, err := exec.Execute(context.Background(), intent.Continue{}, "lanjutkan", st)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(reply.Text, "Baik, melanjutkan dari topik sebelumnya: sabar.\n\n"))
		assert.Equal(t, 5, reply.Rendered)
		assert.Contains(t, reply.Text, "ayat 5**")
		assert.NotContains(t, reply.Text, "ayat 6**")
		assert.Equal(t, 5, st.Shown)
	})

	t.Run("after exhaustion", func(t *testing.T) {
		st := activeSession(12, 12)
		before := *st
		exec := newTestExecutor(&fakeRetriever{}, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)

		_, err := exec.Execute(context.Background(), intent.Continue{}, "lanjut", st)

		assert.Equal(t, response.FailureExhausted, asFailure(t, err).Kind)
		assert.Equal(t, before, *st)
	})
}

func TestCursorMode(t *testing.T) {
	n := &fakeNarrator{}
	st := activeSession(12, 5)
	exec := newTestExecutor(&fakeRetriever{}, &fakeEmbedder{}, n, state.ModeCursor)
	ctx := context.Background()

	reply, err := exec.Execute(ctx, intent.Continue{}, "lanjut 4", st)
	require.NoError(t, err)
	assert.Equal(t, 9, st.Cursor)
	assert.Equal(t, 4, reply.Rendered)
	assert.Contains(t, reply.Text, "📌 **Kesimpulan Sementara:**")
	assert.Contains(t, reply.Text, "📝 Masih ada 3 ayat.")

	reply, err = exec.Execute(ctx, intent.Continue{}, "lanjut", st)
	require.NoError(t, err)
	assert.Equal(t, 12, st.Cursor)
	assert.Equal(t, 3, reply.Rendered)
	assert.Contains(t, reply.Text, "📌 **Kesimpulan Akhir:**")
	assert.True(t, strings.HasSuffix(reply.Text, response.MsgAllDisplayed))
	assert.Equal(t, narration{kind: response.KindFinalConclusion, records: 12}, n.calls[len(n.calls)-1])

	before := *st
	_, err = exec.Execute(ctx, intent.More{Count: 5}, "tambah 5", st)
	assert.Equal(t, response.FailureExhausted, asFailure(t, err).Kind)
	assert.Equal(t, before, *st)
}

func TestCursorModeWithoutConclusions(t *testing.T) {
	st := activeSession(6, 2)
	exec := newTestExecutor(&fakeRetriever{}, &fakeEmbedder{}, response.StaticNarrator{}, state.ModeCursor)

	reply, err := exec.Execute(context.Background(), intent.More{Count: 10}, "tambah 10", st)
	require.NoError(t, err)

	assert.Equal(t, 6, st.Cursor)
	assert.NotContains(t, reply.Text, "Kesimpulan")
	assert.Contains(t, reply.Text, response.MsgAllDisplayed)
}

func TestDetail(t *testing.T) {
	full := verses(3)[1]
	full.Hamka = "tafsir hamka lengkap"
	r := &fakeRetriever{full: map[string]store.VerseRecord{"AN-NABA:2": full}}

	tests := []struct {
		name     string
		st       *store.SessionState
		index    int
		kind     response.FailureKind
		wantText string
	}{
		{"no results", store.NewSessionState("s"), 1, response.FailureNoDetailContext, response.MsgDetailNoResults},
		{"missing index", activeSession(3, 3), 0, response.FailureMissingIndex, response.MsgDetailMissingIndex},
		{"out of range", activeSession(3, 3), 4, response.FailureInvalidIndex, "❌ Nomor ayat tidak valid. Pilih 1 sampai 3."},
	}

	exec := newTestExecutor(r, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exec.Execute(context.Background(), intent.Detail{Index: tt.index}, "jelaskan ayat", tt.st)
			f := asFailure(t, err)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.wantText, f.Text())
		})
	}

	t.Run("fetches the full record", func(t *testing.T) {
		reply, err := exec.Execute(context.Background(), intent.Detail{Index: 2}, "jelaskan ayat 2", activeSession(3, 3))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "📖 **Surat AN-NABA ayat 2**")
		assert.Contains(t, reply.Text, "**Tafsir Buya Hamka:**\ntafsir hamka lengkap")
	})

	t.Run("falls back to the cached record", func(t *testing.T) {
		reply, err := exec.Execute(context.Background(), intent.Detail{Index: 3}, "jelaskan ayat 3", activeSession(3, 3))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "tahlili 3")
		assert.NotContains(t, reply.Text, "Buya Hamka")
	})
}

func TestClarify(t *testing.T) {
	exec := newTestExecutor(&fakeRetriever{}, &fakeEmbedder{}, &fakeNarrator{}, state.ModeShown)

	reply, err := exec.Execute(context.Background(), intent.Clarify{}, "hmm", store.NewSessionState("s"))
	require.NoError(t, err)
	assert.Equal(t, response.MsgClarify, reply.Text)

	reply, err = exec.Execute(context.Background(), intent.Clarify{Message: "Maksudnya surat apa?"}, "hmm", store.NewSessionState("s"))
	require.NoError(t, err)
	assert.Equal(t, "Maksudnya surat apa?", reply.Text)
}

type verseRepo struct {
	byCategory map[int][]store.VerseRecord
	similar    []store.VerseRecord
}

func (r *verseRepo) SearchSimilar(_ context.Context, _ []float32, limit int, _ float64) ([]store.VerseRecord, error) {
	out := append([]store.VerseRecord(nil), r.similar...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *verseRepo) FindByCategory(_ context.Context, id int) ([]store.VerseRecord, error) {
	return append([]store.VerseRecord(nil), r.byCategory[id]...), nil
}

func (r *verseRepo) FindByRef(context.Context, string, int) (*store.VerseRecord, error) {
	return nil, nil
}

func (r *verseRepo) Count(context.Context) (int64, error) {
	return int64(len(r.similar)), nil
}

func TestHisabOverviewOnEmptySession(t *testing.T) {
	hisab := []store.VerseRecord{
		{Surah: "AL-GHASYIYAH", Verse: 26, Translation: "Kemudian sesungguhnya Kamilah yang akan menghisab mereka.", Score: 0},
		{Surah: "AL-INSYIQAQ", Verse: 8, Translation: "Maka dia akan diperiksa dengan pemeriksaan yang mudah.", Score: 0},
	}
	repo := &verseRepo{
		byCategory: map[int][]store.VerseRecord{12: hisab},
		similar:    verses(6),
	}
	searcher := search.NewSearcher(repo, logger.NewNopLogger(), search.DefaultConfig())
	exec := NewTurnExecutor(searcher, &fakeEmbedder{}, &fakeNarrator{}, logger.NewNopLogger(), DefaultConfig())

	st := store.NewSessionState("s")
	text := "gambaran hisab"
	d := intent.Resolve(intent.Classify(text), text, st)
	require.Equal(t, intent.ActionNew, d.Action())

	reply, err := exec.Execute(context.Background(), d, text, st)
	require.NoError(t, err)

	assert.Contains(t, st.ActiveTopic, "Yaum al-Ḥisāb")
	require.Len(t, st.LastResults, 8)
	for _, rec := range st.LastResults[:2] {
		assert.Equal(t, store.CategorySentinelScore, rec.Score)
	}
	assert.Equal(t, "AL-GHASYIYAH", st.LastResults[0].Surah)
	assert.Equal(t, "AL-INSYIQAQ", st.LastResults[1].Surah)
	assert.True(t, strings.Index(reply.Text, "AL-GHASYIYAH") < strings.Index(reply.Text, "AN-NABA"))
}

func TestNewSearchDetectsCategoryOnUserWording(t *testing.T) {
	repo := &verseRepo{
		byCategory: map[int][]store.VerseRecord{
			12: {{Surah: "AL-GHASYIYAH", Verse: 26, Translation: "menghisab mereka"}},
			13: {{Surah: "AL-QARIAH", Verse: 6, Translation: "berat timbangan kebaikannya"}},
		},
		similar: verses(3),
	}
	searcher := search.NewSearcher(repo, logger.NewNopLogger(), search.DefaultConfig())
	exec := NewTurnExecutor(searcher, &fakeEmbedder{}, &fakeNarrator{}, logger.NewNopLogger(), DefaultConfig())

	st := store.NewSessionState("s")
	_, err := exec.Execute(context.Background(), intent.New{}, "hisab dan mizan", st)
	require.NoError(t, err)

	require.NotEmpty(t, st.LastResults)
	assert.Equal(t, "AL-QARIAH", st.LastResults[0].Surah)
	assert.Equal(t, store.CategorySentinelScore, st.LastResults[0].Score)
	for _, rec := range st.LastResults {
		assert.NotEqual(t, "AL-GHASYIYAH", rec.Surah)
	}
}
