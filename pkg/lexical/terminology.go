package lexical

import "strings"

// terminology maps eschatological term aliases to their canonical spelling
var terminology = longestFirst([]alias{
	{"yaum ad-din", "Yaum ad-Dīn (Hari Pembalasan)"},
	{"yaum al-din", "Yaum ad-Dīn (Hari Pembalasan)"},
	{"yaumul din", "Yaum ad-Dīn (Hari Pembalasan)"},
	{"hari pembalasan", "Hari Pembalasan (Yaum ad-Dīn)"},

	{"yaum al-khulud", "Yaum al-Khulūd (Hari Keabadian)"},
	{"yaum al-khulūd", "Yaum al-Khulūd (Hari Keabadian)"},
	{"yaumul khulud", "Yaum al-Khulūd (Hari Keabadian)"},
	{"hari keabadian", "Hari Keabadian (Yaum al-Khulūd)"},

	{"yaum al-qiyamah", "Yaum al-Qiyāmah (Hari Kiamat)"},
	{"yaum al-qiyāmah", "Yaum al-Qiyāmah (Hari Kiamat)"},
	{"yaumul qiyamah", "Yaum al-Qiyāmah (Hari Kiamat)"},
	{"hari kiamat", "Hari Kiamat (Yaum al-Qiyāmah)"},

	{"at-tammah", "Aṭ-Ṭāmmat al-Kubrā (Malapetaka Besar)"},
	{"at-tammat", "Aṭ-Ṭāmmat al-Kubrā (Malapetaka Besar)"},
	{"at-tammatul kubra", "Aṭ-Ṭāmmat al-Kubrā (Malapetaka Besar)"},
	{"malapetaka besar", "Malapetaka Besar (Aṭ-Ṭāmmat al-Kubrā)"},

	{"al-qari'ah", "Al-Qāri'ah (Ketukan Dahsyat)"},
	{"al-qāriah", "Al-Qāri'ah (Ketukan Dahsyat)"},
	{"al-qariah", "Al-Qāri'ah (Ketukan Dahsyat)"},
	{"ketukan dahsyat", "Ketukan Dahsyat (Al-Qāri'ah)"},

	{"yaum al-ba'ts", "Yaum al-Ba'ts (Hari Kebangkitan)"},
	{"yaum al-ba'th", "Yaum al-Ba'ts (Hari Kebangkitan)"},
	{"yaumul ba'ts", "Yaum al-Ba'ts (Hari Kebangkitan)"},
	{"hari kebangkitan", "Hari Kebangkitan (Yaum al-Ba'ts)"},

	{"yaum al-khuruj", "Yaum al-Khurūj (Hari Keluar dari Kubur)"},
	{"yaum al-khurūj", "Yaum al-Khurūj (Hari Keluar dari Kubur)"},
	{"yaumul khuruj", "Yaum al-Khurūj (Hari Keluar dari Kubur)"},
	{"hari keluar", "Hari Keluar dari Kubur (Yaum al-Khurūj)"},

	{"yaum al-jam'", "Yaum al-Jam' (Hari Berkumpul di Mahsyar)"},
	{"yaumul jam'", "Yaum al-Jam' (Hari Berkumpul di Mahsyar)"},
	{"padang mahsyar", "Padang Mahsyar (Yaum al-Jam')"},
	{"mahsyar", "Padang Mahsyar (Yaum al-Jam')"},

	{"yaum al-hisab", "Yaum al-Ḥisāb (Hari Perhitungan Amal)"},
	{"yaum al-ḥisāb", "Yaum al-Ḥisāb (Hari Perhitungan Amal)"},
	{"yaumul hisab", "Yaum al-Ḥisāb (Hari Perhitungan Amal)"},
	{"perhitungan amal", "Perhitungan Amal (Yaum al-Ḥisāb)"},
	{"hisab", "Yaum al-Ḥisāb (Hari Perhitungan Amal)"},

	{"yaum al-mizan", "Yaum al-Mizan (Hari Penimbangan Amal)"},
	{"yaum al-mīzān", "Yaum al-Mizan (Hari Penimbangan Amal)"},
	{"yaumul mizan", "Yaum al-Mizan (Hari Penimbangan Amal)"},
	{"penimbangan amal", "Penimbangan Amal (Yaum al-Mizan)"},
	{"mizan", "Mizan (Timbangan Amal)"},

	{"yaum al-akhir", "Yaum al-Akhir (Hari Akhir)"},
	{"yaumul akhir", "Yaum al-Akhir (Hari Akhir)"},
	{"hari akhir", "Hari Akhir (Yaum al-Akhir)"},
	{"akhirat", "Akhirat"},

	{"yaum al-fasl", "Yaum al-Faṣl (Hari Pemutusan Perkara)"},
	{"yaum al-faṣl", "Yaum al-Faṣl (Hari Pemutusan Perkara)"},
	{"yaumul fasl", "Yaum al-Faṣl (Hari Pemutusan Perkara)"},
	{"hari pemisahan", "Hari Pemisahan (Yaum al-Faṣl)"},

	{"as-sakhkhah", "As-Ṣākhkhah (Tiupan Sangkakala)"},
	{"as-ṣākhkhah", "As-Ṣākhkhah (Tiupan Sangkakala)"},
	{"as-sakkah", "As-Ṣākhkhah (Tiupan Sangkakala)"},
	{"as-sakhah", "As-Ṣākhkhah (Tiupan Sangkakala)"},
	{"as-sakah", "As-Ṣākhkhah (Tiupan Sangkakala)"},
	{"sangkakala", "Sangkakala (As-Ṣākhkhah)"},
	{"terompet", "Sangkakala (As-Ṣākhkhah)"},

	{"yaum al-hasrah", "Yaum al-Ḥasrah (Hari Penyesalan)"},
	{"yaum al-ḥasrah", "Yaum al-Ḥasrah (Hari Penyesalan)"},
	{"yaumul hasrah", "Yaum al-Ḥasrah (Hari Penyesalan)"},
	{"hari penyesalan", "Hari Penyesalan (Yaum al-Ḥasrah)"},

	{"as-sa'ah", "As-Sā'ah (Waktu yang Pasti Datang)"},
	{"as-sā'ah", "As-Sā'ah (Waktu yang Pasti Datang)"},
	{"as-saah", "As-Sā'ah (Waktu yang Pasti Datang)"},

	{"al-ghashiyah", "Al-Ghāshiyah (Hari yang Menutupi)"},
	{"al-ghāshiyah", "Al-Ghāshiyah (Hari yang Menutupi)"},
	{"al-ghasiyah", "Al-Ghāshiyah (Hari yang Menutupi)"},

	{"jahannam", "Neraka Jahannam"},
	{"neraka jahannam", "Neraka Jahannam"},
	{"huthamah", "Neraka Huthamah"},
	{"neraka huthamah", "Neraka Huthamah"},
	{"hawiyah", "Neraka Hawiyah"},
	{"neraka hawiyah", "Neraka Hawiyah"},
	{"jahim", "Neraka Jahim"},
	{"neraka jahim", "Neraka Jahim"},
})

const sakhkhah = "As-Ṣākhkhah (Tiupan Sangkakala Dahsyat / Ketukan Keras Hari Kiamat)"

// categoryPhrases maps thematic phrasings to the category wording used in the
// dataset so the embedding lands closer to the categorised verses.
var categoryPhrases = longestFirst([]alias{
	{"perintah", "perintah untuk kebaikan dunia dan agama"},
	{"perintah allah", "perintah Allah untuk kebaikan"},
	{"kebaikan dunia", "kebaikan dunia dan akhirat"},
	{"kebaikan akhirat", "kebaikan dunia dan akhirat"},
	{"kelalaian", "kelalaian manusia terhadap persiapan Hari Akhir"},
	{"lalai", "kelalaian terhadap Hari Akhir"},
	{"lupa akhirat", "kelalaian karena sibuk mengejar dunia"},
	{"sibuk dunia", "kelalaian karena sibuk mengejar dunia"},
	{"mengejar dunia", "kelalaian karena sibuk mengejar dunia"},
	{"cinta dunia", "kelalaian karena terlalu cinta dunia"},
	{"penyesalan", "penyesalan besar bagi orang kafir"},
	{"menyesal", "penyesalan di Hari Akhir"},
	{"sesal", "penyesalan besar"},
	{"ketidakberdayaan", "ketidakberdayaan segala hal duniawi saat menghadapi azab"},
	{"tidak berguna", "ketidakberdayaan harta dan tahta di Hari Akhir"},
	{"harta tidak berguna", "ketidakberdayaan harta saat menghadapi azab"},
	{"tahta tidak berguna", "ketidakberdayaan kekuasaan saat menghadapi azab"},
	{"dunia tidak berguna", "ketidakberdayaan segala hal duniawi"},

	{"gambaran kiamat", "gambaran perilaku manusia saat terjadinya hari kiamat"},
	{"keadaan kiamat", "keadaan manusia ketika datang hari kiamat"},
	{"saat kiamat", "keadaan manusia saat hari kiamat"},
	{"ketika kiamat", "keadaan manusia ketika hari kiamat"},
	{"waktu kiamat", "keadaan manusia di waktu kiamat"},

	{"balasan baik", "perilaku yang berpotensi mendapat balasan baik di akhirat"},
	{"surga", "perilaku yang berpotensi mendapat balasan surga"},
	{"masuk surga", "perilaku yang berpotensi masuk surga"},
	{"pahala", "perilaku yang mendapat pahala"},
	{"ganjaran baik", "perilaku yang mendapat ganjaran baik"},

	{"balasan buruk", "perilaku yang berpotensi mendapat balasan buruk di akhirat"},
	{"neraka", "perilaku yang berpotensi mendapat balasan neraka"},
	{"masuk neraka", "perilaku yang berpotensi masuk neraka"},
	{"siksa", "perilaku yang mendapat siksa"},
	{"azab", "perilaku yang mendapat azab"},

	{"amalan baik", "gambaran balasan amalan baik di akhirat"},
	{"amalan buruk", "gambaran balasan amalan buruk di akhirat"},
	{"perbuatan baik", "balasan perbuatan baik"},
	{"perbuatan buruk", "balasan perbuatan buruk"},

	{"as-sakhkhah", sakhkhah},
	{"as-sakkah", sakhkhah},
	{"as-sakhah", sakhkhah},
	{"as-sakhkha", sakhkhah},
	{"sakhkhah", sakhkhah},
	{"sakkah", sakhkhah},
	{"sakhah", sakhkhah},
	{"sakhkha", sakhkhah},
	{"ketukan dahsyat", "As-Ṣākhkhah (Ketukan Dahsyat / Tiupan Sangkakala Hari Kiamat)"},
	{"tiupan sangkakala", "As-Ṣākhkhah (Tiupan Sangkakala Dahsyat / Ketukan Keras)"},
	{"sangkakala dahsyat", "As-Ṣākhkhah (Tiupan Sangkakala Dahsyat)"},

	{"al-qari'ah", "Al-Qāri'ah (Ketukan Dahsyat / sinonim As-Ṣākhkhah)"},
	{"al-qariah", "Al-Qāri'ah (Ketukan Dahsyat / sinonim As-Ṣākhkhah)"},
	{"qari'ah", "Al-Qāri'ah (Ketukan Dahsyat / sinonim As-Ṣākhkhah)"},
})

// EnrichTopic appends the canonical term and the category wording found in
// text to topic. It never removes or reorders what topic already holds.
func EnrichTopic(text, topic string) string {
	if term, ok := CanonicalTerm(text); ok {
		topic = strings.TrimSpace(topic + " " + term)
	}
	return enrichWith(categoryPhrases, text, topic)
}

// CanonicalTerm returns the canonical spelling of the longest terminology
// alias found in text.
func CanonicalTerm(text string) (string, bool) {
	lower := normalize(text)
	for _, a := range terminology {
		if contains(lower, a.phrase) {
			return a.value, true
		}
	}
	return "", false
}

func enrichWith(table []alias, text, topic string) string {
	lower := normalize(text)
	for _, a := range table {
		if contains(lower, a.phrase) {
			return strings.TrimSpace(topic + " " + a.value)
		}
	}
	return topic
}
