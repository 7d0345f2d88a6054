package response

import "fmt"

// User-facing replies
const (
	MsgEmptyInput      = "Pertanyaan kosong."
	MsgNoMatch         = "Tidak ada hasil yang cocok."
	MsgEmptyFirstBatch = "Tidak ada ayat yang bisa ditampilkan pada batch pertama."
	MsgNoAdditional    = "Tidak ada tambahan hasil yang relevan."
	MsgNoContext       = "❌ Belum ada konteks sebelumnya. Tanyakan topik dulu ya."
	MsgAllShown        = "✅ Semua ayat sudah ditampilkan."
	MsgAllDisplayed    = "✅ Semua ayat telah ditampilkan."
	MsgNothingToRender = "Tidak ditemukan ayat yang relevan."
	MsgResuming        = "Melanjutkan hasil sebelumnya..."

	MsgDetailNoResults    = "❌ Belum ada hasil sebelumnya untuk dilihat detailnya."
	MsgDetailMissingIndex = "❌ Sebutkan nomor ayat hasil yang mau dijelaskan (contoh: 'jelaskan ayat 2')."

	MsgClarify   = "❓ Bisa diperjelas maksudnya? (misal: topik apa, mau tafsir siapa, dan berapa ayat)"
	MsgRetrieval = "❌ Maaf, terjadi kendala saat mengambil data ayat. Silakan coba lagi."
	MsgInternal  = "❌ Terjadi kesalahan pada sistem. Silakan coba lagi."
)

// Narration fallbacks
const (
	MsgConclusionNoData    = "Belum ada data untuk kesimpulan."
	MsgConclusionNoText    = "Tidak cukup data tafsir/terjemahan untuk menyusun kesimpulan."
	MsgConclusionTechnical = "Kesimpulan gagal dibuat karena error teknis."
	MsgConclusionEmpty     = "Kesimpulan gagal dibuat."
)

// FailureKind classifies why a turn could not produce results
type FailureKind int

const (
	FailureInternal FailureKind = iota
	FailureEmptyInput
	FailureNoContext
	FailureExhausted
	FailureNoDetailContext
	FailureMissingIndex
	FailureInvalidIndex
	FailureRetrieval
)

func (k FailureKind) String() string {
	switch k {
	case FailureEmptyInput:
		return "empty_input"
	case FailureNoContext:
		return "no_context"
	case FailureExhausted:
		return "exhausted"
	case FailureNoDetailContext:
		return "no_detail_context"
	case FailureMissingIndex:
		return "missing_index"
	case FailureInvalidIndex:
		return "invalid_index"
	case FailureRetrieval:
		return "retrieval"
	}
	return "internal"
}

// FailureText converts a failure kind into the reply shown to the user.
// total is the size of the last result list, used by the index message.
func FailureText(kind FailureKind, total int) string {
	switch kind {
	case FailureEmptyInput:
		return MsgEmptyInput
	case FailureNoContext:
		return MsgNoContext
	case FailureExhausted:
		return MsgAllShown
	case FailureNoDetailContext:
		return MsgDetailNoResults
	case FailureMissingIndex:
		return MsgDetailMissingIndex
	case FailureInvalidIndex:
		return fmt.Sprintf("❌ Nomor ayat tidak valid. Pilih 1 sampai %d.", total)
	case FailureRetrieval:
		return MsgRetrieval
	}
	return MsgInternal
}

// RemainingHint closes the first batch of a new topic
func RemainingHint(remaining int) string {
	return fmt.Sprintf("📝 Ketik **lanjut** untuk lihat sisa %d ayat.", remaining)
}

// MoreHint tells the user how to page through what is left
func MoreHint(remaining int) string {
	return fmt.Sprintf("📝 Masih ada %d ayat. Ketik **lanjut** atau **lanjut [angka]** (misal: lanjut 5).", remaining)
}
