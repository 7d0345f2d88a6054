package lexical

import (
	"strings"
	"testing"

	"bayan-ai-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"lanjut 12", 12, true},
		{"lanjut sepuluh", 10, true},
		{"lanjut", 0, false},
		{"tampilkan dua belas ayat", 12, true},
		{"lima belas saja", 15, true},
		{"jelaskan ayat 3", 3, true},
		{"ayat 12345 tidak ada", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractNumber(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"tambah 3", 3},
		{"tambahkan 7 ya", 7},
		{"lanjutkan 4", 4},
		{"kasih 2 lagi", 2},
		{"6 ayat lagi", 6},
		{"next 9", 9},
		{"lanjut", 0},
		{"tambah lagi dong", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractQuantity(tt.text))
		})
	}
}

func TestMoreCount(t *testing.T) {
	assert.Equal(t, 3, MoreCount("tambah 3", DefaultMoreCount))
	assert.Equal(t, 10, MoreCount("tambah sepuluh", DefaultMoreCount))
	assert.Equal(t, DefaultMoreCount, MoreCount("tambah lagi", DefaultMoreCount))
}

func TestDetectSourceFilter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want SourceSet
	}{
		{"default all", "apa itu hari kiamat", SourceSet{SourceAll: true}},
		{"hamka", "menurut Buya Hamka", SourceSet{SourceHamka: true}},
		{"two sources", "tafsir wajiz dan tahlili", SourceSet{SourceWajiz: true, SourceTahlili: true}},
		{"explicit all", "tampilkan semua tafsir hamka", SourceSet{SourceHamka: true, SourceAll: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSourceFilter(tt.text))
		})
	}
}

func TestDetectFocus(t *testing.T) {
	assert.Equal(t, store.Focus{store.SourceHamka}, DetectFocus("tafsir wajiz dan hamka"))
	assert.Equal(t, store.Focus{store.SourceWajiz}, DetectFocus("versi WAJIZ"))
	assert.Equal(t, store.Focus{store.SourceTahlili}, DetectFocus("tahlili saja"))
	assert.Nil(t, DetectFocus("hari kiamat"))
}

func TestFocusFromSources(t *testing.T) {
	assert.Nil(t, FocusFromSources(SourceSet{SourceAll: true}))
	assert.Nil(t, FocusFromSources(SourceSet{SourceAll: true, SourceHamka: true}))
	assert.Equal(t,
		store.Focus{store.SourceTahlili, store.SourceHamka},
		FocusFromSources(SourceSet{SourceHamka: true, SourceTahlili: true}))
}

func TestParseSource(t *testing.T) {
	assert.Equal(t, store.Focus{store.SourceTahlili}, ParseSource("kemenag_tahlili"))
	assert.Equal(t, store.Focus{store.SourceHamka}, ParseSource(" Hamka "))
	assert.Nil(t, ParseSource("all"))
	assert.Nil(t, ParseSource(""))
}

func TestClassifyQueryType(t *testing.T) {
	tests := []struct {
		text string
		want QueryType
	}{
		{"apa bedanya surga dan neraka", QueryComparative},
		{"urutan kejadian kiamat", QueryProcess},
		{"apa itu mizan", QueryDefinition},
		{"sebutkan perintah allah", QueryCategory},
		{"ceritain tentang surga", QueryGeneral},
		{"hari kiamat", QuerySpecific},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyQueryType(tt.text))
		})
	}
}

func TestSmartSearchLimit(t *testing.T) {
	tests := []struct {
		text string
		def  int
		want int
	}{
		{"perbedaan surga dan neraka", 20, BroadSearchLimit},
		{"semua ayat tentang hisab", 20, BroadSearchLimit},
		{"urutan hari kiamat", 20, ProcessSearchLimit},
		{"apa itu mizan", 20, BroadSearchLimit},
		{"hari kiamat", 30, 30},
		{"hari kiamat", 0, DefaultSearchLimit},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, SmartSearchLimit(tt.text, tt.def))
		})
	}
}

func TestSmartCount(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		available int
		want      int
	}{
		{"explicit quantity", "tampilkan 3 ayat tentang surga", 12, 3},
		{"explicit quantity capped", "minta 20 tentang surga", 12, 12},
		{"show all", "semua ayat hisab", 12, 12},
		{"definition", "apa itu mizan", 12, DefinitionShowCount},
		{"comparison", "perbedaan surga dan neraka", 12, ComparisonShowCount},
		{"default", "hari kiamat", 12, DefaultShowCount},
		{"default capped", "hari kiamat", 4, 4},
		{"nothing available", "hari kiamat", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SmartCount(tt.text, tt.available, DefaultShowCount))
		})
	}
}

func TestIsContinueCommand(t *testing.T) {
	assert.True(t, IsContinueCommand("lanjut"))
	assert.True(t, IsContinueCommand("Lanjut 5"))
	assert.True(t, IsContinueCommand("lanjutkan"))
	assert.True(t, IsContinueCommand(" next "))
	assert.True(t, IsContinueCommand("tambah"))
	assert.False(t, IsContinueCommand("tambahkan 3"))
	assert.False(t, IsContinueCommand("hari kiamat"))
}

func TestDetectCategory(t *testing.T) {
	c, ok := DetectCategory("gambaran hisab")
	assert.True(t, ok)
	assert.Equal(t, CategoryHisabID, c.ID)

	c, ok = DetectCategory("timbangan amal di hari mizan")
	assert.True(t, ok)
	assert.Equal(t, CategoryMizanID, c.ID)

	c, ok = DetectCategory("yaum al-hisab dan mizan")
	assert.True(t, ok)
	assert.Equal(t, CategoryHisabID, c.ID, "more keyword hits wins")

	_, ok = DetectCategory("balasan surga")
	assert.False(t, ok)
}

func TestEnrichTopic(t *testing.T) {
	t.Run("hisab gets canonical term", func(t *testing.T) {
		got := EnrichTopic("gambaran hisab", "gambaran hisab")
		assert.True(t, strings.HasPrefix(got, "gambaran hisab"))
		assert.Contains(t, got, "Yaum al-Ḥisāb")
	})

	t.Run("longest alias wins", func(t *testing.T) {
		got := EnrichTopic("apa itu yaum al-mizan", "apa itu yaum al-mizan")
		assert.Contains(t, got, "Yaum al-Mizan (Hari Penimbangan Amal)")
		assert.NotContains(t, got, "Mizan (Timbangan Amal)")
	})

	t.Run("terminology then category", func(t *testing.T) {
		got := EnrichTopic("neraka jahannam", "neraka jahannam")
		assert.Equal(t,
			"neraka jahannam Neraka Jahannam perilaku yang berpotensi mendapat balasan neraka",
			got)
	})

	t.Run("no match leaves topic untouched", func(t *testing.T) {
		assert.Equal(t, "sedekah", EnrichTopic("sedekah", "sedekah"))
	})
}

func TestCanonicalTerm(t *testing.T) {
	term, ok := CanonicalTerm("kapan yaumul hisab")
	assert.True(t, ok)
	assert.Equal(t, "Yaum al-Ḥisāb (Hari Perhitungan Amal)", term)

	_, ok = CanonicalTerm("sedekah")
	assert.False(t, ok)
}

func TestWorldlyGuard(t *testing.T) {
	assert.True(t, MentionsWorldly("perbuatan di dunia"))
	assert.False(t, MentionsWorldly("hari kiamat"))

	assert.True(t, AfterlifeOnly("balasan di akhirat kelak"))
	assert.False(t, AfterlifeOnly("larangan kikir di dunia dan balasan di akhirat"))
	assert.False(t, AfterlifeOnly("perintah shalat"))
}
