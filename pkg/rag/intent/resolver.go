package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/pkg/lexical"
	"bayan-ai-be/pkg/llm"
	"bayan-ai-be/pkg/store"
)

// ErrNoPlan is returned when the model answer holds no JSON object
var ErrNoPlan = errors.New("no JSON plan in model response")

// Plan is the structured routing answer requested from the model
type Plan struct {
	Intent         string  `json:"intent"` // search, more, continue, detail, clarify
	Query          string  `json:"query"`
	K              int     `json:"k"`
	Source         string  `json:"source"` // all, hamka, kemenag_tahlili, kemenag_wajiz
	AyatNumber     *int    `json:"ayat_number"`
	ClarifyMessage *string `json:"clarify_message"`
}

// LLMRouter asks the model for a Plan and maps it to a Decision.
// Any provider or parsing problem is returned as an error so a Chain can fall
// through to the next router.
type LLMRouter struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewLLMRouter(llmProvider llm.LLMProvider, log logger.ILogger) *LLMRouter {
	return &LLMRouter{
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (r *LLMRouter) Route(ctx context.Context, text string, st *store.SessionState) (Decision, error) {
	prompt := r.buildPrompt(text, st)

	response, err := r.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("planner call: %w", err)
	}

	plan, err := parsePlan(response)
	if err != nil {
		return nil, err
	}

	d, err := plan.Decision()
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Router", "Planner decision", map[string]interface{}{
		"intent": plan.Intent,
		"k":      plan.K,
		"source": plan.Source,
		"action": string(d.Action()),
	})
	return d, nil
}

// Decision maps the plan onto the routing sum type
func (p Plan) Decision() (Decision, error) {
	focus := lexical.ParseSource(p.Source)

	switch strings.ToLower(strings.TrimSpace(p.Intent)) {
	case "search", "new":
		return New{Focus: focus}, nil
	case "more":
		return More{Count: p.K, Focus: focus}, nil
	case "continue":
		return Continue{Focus: focus}, nil
	case "detail":
		idx := 0
		if p.AyatNumber != nil {
			idx = *p.AyatNumber
		}
		return Detail{Index: idx, Focus: focus}, nil
	case "clarify":
		msg := ""
		if p.ClarifyMessage != nil {
			msg = strings.TrimSpace(*p.ClarifyMessage)
		}
		return Clarify{Message: msg}, nil
	}
	return nil, fmt.Errorf("unknown planner intent %q", p.Intent)
}

func (r *LLMRouter) buildPrompt(text string, st *store.SessionState) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("Kamu adalah PLANNER untuk chatbot tafsir Al-Qur'an.\n")
	prompt.WriteString("Tugasmu HANYA mengubah input user menjadi rencana JSON. Jangan menjawab isi tafsir.\n")
	prompt.WriteString("Dataset hanya berisi ayat terpilih dari Juz 30. Permintaan di luar dataset -> intent \"clarify\".\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<session_state>\n")
	if st != nil && st.HasContext() {
		prompt.WriteString(fmt.Sprintf("ACTIVE_TOPIC: %q\n", st.Topic()))
		prompt.WriteString(fmt.Sprintf("RESULTS: %d ayat, %d sudah ditampilkan\n", st.Total(), st.Shown))
	} else {
		prompt.WriteString("INITIAL_STATE: belum ada hasil pencarian.\n")
	}
	prompt.WriteString("</session_state>\n\n")

	prompt.WriteString("<user_query>\n")
	prompt.WriteString(text)
	prompt.WriteString("\n</user_query>\n\n")

	prompt.WriteString("<intent_definitions>\n")
	prompt.WriteString("search: topik baru (hisab, kiamat, tamak, ...)\n")
	prompt.WriteString("more: minta tambahan hasil sebelumnya (\"5 lagi\", \"tambah 3\", \"berikan lagi\")\n")
	prompt.WriteString("continue: lanjutkan pembahasan sebelumnya tanpa jumlah (\"lanjut\", \"teruskan\")\n")
	prompt.WriteString("detail: jelaskan satu ayat dari hasil sebelumnya (\"jelaskan ayat 2\", \"tafsir ayat 3\")\n")
	prompt.WriteString("clarify: ambigu atau di luar dataset (\"surat Al-Baqarah\")\n")
	prompt.WriteString("Jika INITIAL_STATE, jangan pilih more/continue/detail.\n")
	prompt.WriteString("</intent_definitions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Balas HANYA dengan JSON valid:\n")
	prompt.WriteString(`{"intent": "search|more|continue|detail|clarify", "query": "topik ringkas", "k": 5, `)
	prompt.WriteString(`"source": "all|hamka|kemenag_tahlili|kemenag_wajiz", "ayat_number": null, "clarify_message": null}`)
	prompt.WriteString("\n</output_format>")

	return prompt.String()
}

func parsePlan(response string) (*Plan, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, ErrNoPlan
	}

	var plan Plan
	if err := json.Unmarshal([]byte(jsonContent), &plan); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	return &plan, nil
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
