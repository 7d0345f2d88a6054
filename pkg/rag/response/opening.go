package response

import (
	"sort"
	"strings"

	"bayan-ai-be/pkg/lexical"
)

var openingTopics = map[string]string{
	"hari kebangkitan": "tentang hari kebangkitan",
	"hari kiamat":      "tentang hari kiamat",
	"surga":            "tentang surga",
	"neraka":           "tentang neraka",
	"shalat":           "tentang shalat",
	"zakat":            "tentang zakat",
	"puasa":            "tentang puasa",
	"doa":              "tentang doa",
	"sabar":            "tentang kesabaran",
	"taubat":           "tentang taubat",
	"rezeki":           "tentang rezeki",
	"takwa":            "tentang takwa",
	"iman":             "tentang iman",

	"yaum ad-din":      "tentang Hari Pembalasan (Yaum ad-Dīn)",
	"yaumul din":       "tentang Hari Pembalasan (Yaum ad-Dīn)",
	"hari pembalasan":  "tentang Hari Pembalasan",
	"yaum al-khulud":   "tentang Hari Keabadian (Yaum al-Khulūd)",
	"yaumul khulud":    "tentang Hari Keabadian",
	"hari keabadian":   "tentang Hari Keabadian",
	"yaum al-qiyamah":  "tentang Hari Kiamat (Yaum al-Qiyāmah)",
	"yaumul qiyamah":   "tentang Hari Kiamat",
	"al-qari'ah":       "tentang Ketukan Dahsyat (Al-Qāri'ah)",
	"ketukan dahsyat":  "tentang Ketukan Dahsyat",
	"yaum al-hisab":    "tentang Hari Perhitungan Amal (Yaum al-Ḥisāb)",
	"yaumul hisab":     "tentang Hari Perhitungan Amal",
	"perhitungan amal": "tentang Hari Perhitungan Amal",
	"yaum al-mizan":    "tentang Hari Penimbangan Amal (Yaum al-Mizan)",
	"yaumul mizan":     "tentang Hari Penimbangan Amal",
	"mizan":            "tentang Timbangan Amal",
	"jahannam":         "tentang Neraka Jahannam",
	"jahim":            "tentang Neraka Jahim",
	"huthamah":         "tentang Neraka Huthamah",
	"hawiyah":          "tentang Neraka Hawiyah",
}

// openingKeys is openingTopics sorted longest first, ties alphabetical
var openingKeys = func() []string {
	keys := make([]string, 0, len(openingTopics))
	for k := range openingTopics {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Opening returns the sentence that precedes the first batch of a new topic
func Opening(query string) string {
	switch lexical.ClassifyQueryType(query) {
	case lexical.QueryComparative:
		return "Baik, saya akan jelaskan perbandingan berdasarkan Al-Qur'an.\n\n"
	case lexical.QueryProcess:
		return "Baik, saya akan jelaskan urutan/tahapan berdasarkan Al-Qur'an.\n\n"
	case lexical.QueryGeneral:
		return "Baik, berikut gambaran umum berdasarkan Al-Qur'an.\n\n"
	case lexical.QueryDefinition:
		if about, ok := topicPhrase(query); ok {
			return "Baik, saya akan jelaskan " + about + " berdasarkan Al-Qur'an.\n\n"
		}
		return "Baik, saya akan jelaskan berdasarkan Al-Qur'an.\n\n"
	}
	if about, ok := topicPhrase(query); ok {
		return "Baik, saya akan jelaskan " + about + " berdasarkan Al-Qur'an.\n\n"
	}
	return "Baik, berikut penjelasannya berdasarkan Al-Qur'an.\n\n"
}

// ContinueOpening precedes every follow-up batch on the active topic
func ContinueOpening(topic string) string {
	return "Baik, melanjutkan dari topik sebelumnya: " + strings.TrimSpace(topic) + ".\n\n"
}

func topicPhrase(query string) (string, bool) {
	lower := strings.ToLower(query)
	for _, k := range openingKeys {
		if strings.Contains(lower, k) {
			return openingTopics[k], true
		}
	}
	return "", false
}
