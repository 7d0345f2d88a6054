package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/pkg/llm"
	"bayan-ai-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	answer string
	err    error
	block  bool
	prompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, options...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.prompt = prompt
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.answer, f.err
}

type panicRouter struct{}

func (panicRouter) Route(context.Context, string, *store.SessionState) (Decision, error) {
	panic("boom")
}

func TestClassify(t *testing.T) {
	hamka := store.Focus{store.SourceHamka}
	wajiz := store.Focus{store.SourceWajiz}

	tests := []struct {
		text string
		want Decision
	}{
		{"gambaran hisab", New{}},
		{"tafsir hamka tentang tamak", New{Focus: hamka}},
		{"tambah 3", More{Count: 3}},
		{"berikan lagi", More{Count: 5}},
		{"5 lagi versi wajiz", More{Count: 5, Focus: wajiz}},
		{"lanjut 7", More{Count: 7}},
		{"lanjutkan", Continue{}},
		{"lanjut", Continue{}},
		{"teruskan yang hamka", Continue{Focus: hamka}},
		{"jelaskan ayat 2", Detail{Index: 2}},
		{"Tafsir ayat 12", Detail{Index: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestLLMRouter(t *testing.T) {
	st := store.NewSessionState("s1")

	tests := []struct {
		name    string
		answer  string
		want    Decision
		wantErr bool
	}{
		{
			name:   "search with source",
			answer: `{"intent": "search", "query": "tamak", "k": 5, "source": "hamka", "ayat_number": null, "clarify_message": null}`,
			want:   New{Focus: store.Focus{store.SourceHamka}},
		},
		{
			name:   "more wrapped in prose",
			answer: "Berikut rencananya:\n```json\n{\"intent\": \"more\", \"k\": 3, \"source\": \"all\"}\n```",
			want:   More{Count: 3},
		},
		{
			name:   "detail",
			answer: `{"intent": "detail", "k": 1, "source": "kemenag_wajiz", "ayat_number": 4}`,
			want:   Detail{Index: 4, Focus: store.Focus{store.SourceWajiz}},
		},
		{
			name:   "detail without number",
			answer: `{"intent": "detail", "ayat_number": null}`,
			want:   Detail{},
		},
		{
			name:   "clarify",
			answer: `{"intent": "clarify", "clarify_message": "Surat Al-Baqarah tidak ada di dataset."}`,
			want:   Clarify{Message: "Surat Al-Baqarah tidak ada di dataset."},
		},
		{name: "no json", answer: "maaf saya tidak mengerti", wantErr: true},
		{name: "broken json", answer: `{"intent": "search",`, wantErr: true},
		{name: "unknown intent", answer: `{"intent": "dance"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeLLM{answer: tt.answer}
			r := NewLLMRouter(provider, logger.NewNopLogger())

			got, err := r.Route(context.Background(), "pertanyaan", st)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, provider.prompt, "INITIAL_STATE")
		})
	}
}

func TestLLMRouterProviderError(t *testing.T) {
	boom := errors.New("rate limited")
	r := NewLLMRouter(&fakeLLM{err: boom}, logger.NewNopLogger())

	_, err := r.Route(context.Background(), "hari kiamat", store.NewSessionState("s"))
	assert.ErrorIs(t, err, boom)
}

func TestChain(t *testing.T) {
	st := store.NewSessionState("s")
	log := logger.NewNopLogger()

	t.Run("first router wins", func(t *testing.T) {
		c := NewChain(log, time.Second,
			NewLLMRouter(&fakeLLM{answer: `{"intent": "clarify"}`}, log),
			NewKeywordRouter())
		d, err := c.Route(context.Background(), "tambah 3", st)
		require.NoError(t, err)
		assert.Equal(t, Clarify{}, d)
	})

	t.Run("falls back to keywords on error", func(t *testing.T) {
		c := NewChain(log, time.Second,
			NewLLMRouter(&fakeLLM{err: errors.New("down")}, log),
			NewKeywordRouter())
		d, err := c.Route(context.Background(), "tambah 3", st)
		require.NoError(t, err)
		assert.Equal(t, More{Count: 3}, d)
	})

	t.Run("falls back on timeout", func(t *testing.T) {
		c := NewChain(log, 20*time.Millisecond,
			NewLLMRouter(&fakeLLM{block: true}, log),
			NewKeywordRouter())
		d, err := c.Route(context.Background(), "lanjutkan", st)
		require.NoError(t, err)
		assert.Equal(t, Continue{}, d)
	})

	t.Run("recovers panics", func(t *testing.T) {
		c := NewChain(log, time.Second, panicRouter{}, NewKeywordRouter())
		d, err := c.Route(context.Background(), "lanjutkan", st)
		require.NoError(t, err)
		assert.Equal(t, Continue{}, d)
	})

	t.Run("everything fails yields NEW", func(t *testing.T) {
		c := NewChain(log, time.Second,
			NewLLMRouter(&fakeLLM{answer: "???"}, log))
		d, err := c.Route(context.Background(), "tafsir hamka tambah 3", st)
		require.NoError(t, err)
		assert.Equal(t, New{}, d)
		assert.Empty(t, FocusOf(d))
	})
}

func TestResolve(t *testing.T) {
	hamka := store.Focus{store.SourceHamka}
	wajiz := store.Focus{store.SourceWajiz}

	withContext := func() *store.SessionState {
		st := store.NewSessionState("s")
		st.LastQueryEmbedding = []float32{0.1}
		st.LastResults = []store.VerseRecord{{Surah: "An-Naba'", Verse: 1}}
		st.LastFocus = hamka
		return st
	}

	tests := []struct {
		name string
		in   Decision
		text string
		st   *store.SessionState
		want Decision
	}{
		{"more inherits focus", More{Count: 2}, "tambah 2", withContext(), More{Count: 2, Focus: hamka}},
		{"more keeps own focus", More{Count: 2, Focus: wajiz}, "tambah 2 wajiz", withContext(), More{Count: 2, Focus: wajiz}},
		{"more recomputes count", More{}, "tambah sepuluh", withContext(), More{Count: 10, Focus: hamka}},
		{"more defaults count", More{}, "berikan lagi", withContext(), More{Count: 5, Focus: hamka}},
		{"continue inherits focus", Continue{}, "lanjut", withContext(), Continue{Focus: hamka}},
		{"detail inherits focus", Detail{Index: 1}, "jelaskan ayat 1", withContext(), Detail{Index: 1, Focus: hamka}},
		{"new never inherits", New{}, "hari kiamat", withContext(), New{}},
		{"more without embedding becomes new", More{Count: 3, Focus: wajiz}, "tambah 3", store.NewSessionState("s"), New{Focus: wajiz}},
		{"continue without embedding stays", Continue{}, "lanjutkan", store.NewSessionState("s"), Continue{Focus: store.Focus{}}},
		{"clarify untouched", Clarify{Message: "?"}, "x", withContext(), Clarify{Message: "?"}},
		{"nil becomes new", nil, "x", withContext(), New{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.in, tt.text, tt.st))
		})
	}
}

type stubRouter struct {
	decision Decision
	err      error
	calls    int
}

func (s *stubRouter) Route(context.Context, string, *store.SessionState) (Decision, error) {
	s.calls++
	return s.decision, s.err
}

func TestCommandGate(t *testing.T) {
	both := store.Focus{store.SourceTahlili, store.SourceHamka}

	tests := []struct {
		name      string
		text      string
		next      *stubRouter
		want      Decision
		wantCalls int
	}{
		{"bare lanjut", "lanjut", &stubRouter{decision: New{}}, Continue{}, 0},
		{"lanjut with count", "lanjut 5", &stubRouter{decision: New{}}, Continue{}, 0},
		{"next", "next", &stubRouter{decision: New{}}, Continue{}, 0},
		{"lanjut with sources", "lanjut tahlili dan hamka", &stubRouter{decision: New{}}, Continue{Focus: both}, 0},
		{"question delegates", "apa itu hisab", &stubRouter{decision: New{}}, New{}, 1},
		{"keeps every named source", "hisab menurut tahlili dan hamka",
			&stubRouter{decision: New{Focus: store.Focus{store.SourceHamka}}}, New{Focus: both}, 1},
		{"single source untouched", "hisab menurut hamka",
			&stubRouter{decision: New{Focus: store.Focus{store.SourceHamka}}}, New{Focus: store.Focus{store.SourceHamka}}, 1},
		{"clarify untouched", "tahlili dan wajiz",
			&stubRouter{decision: Clarify{Message: "?"}}, Clarify{Message: "?"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewCommandGate(tt.next)
			d, err := g.Route(context.Background(), tt.text, store.NewSessionState("s"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
			assert.Equal(t, tt.wantCalls, tt.next.calls)
		})
	}

	t.Run("propagates router errors", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewCommandGate(&stubRouter{err: boom}).Route(context.Background(), "surga", store.NewSessionState("s"))
		assert.ErrorIs(t, err, boom)
	})
}
