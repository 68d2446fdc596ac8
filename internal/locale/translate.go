package locale

// Pick returns the text matching the request language, defaulting to Indonesian.
func Pick(language, english, indonesian string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		if english != "" {
			return english
		}
		return indonesian
	}
	if indonesian != "" {
		return indonesian
	}
	return english
}

var messages = map[string][2]string{
	// key: {english, indonesian}
	"blog_title":          {"Blog", "Blog"},
	"blog_subtitle":       {"Thoughts, tutorials and notes.", "Pemikiran, tutorial, dan catatan."},
	"blog_read_more":      {"Read more", "Baca selengkapnya"},
	"blog_back":           {"Back to articles", "Kembali ke artikel"},
	"contact_btn_sending": {"Sending...", "Mengirim..."},
	"contact_btn_sent":    {"Message sent!", "Pesan terkirim!"},
	"contact_btn_failed":  {"Failed to send, try again.", "Gagal mengirim, coba lagi."},
	"comment_posted":      {"Comment posted.", "Komentar terkirim."},
	"comment_failed":      {"Failed to post comment.", "Gagal mengirim komentar."},
	"projects_title":      {"Showcase", "Karya"},
	"skills_title":        {"Tech Stack", "Keahlian"},
}

// T looks up a UI label; unknown keys are returned unchanged.
func T(language, key string) string {
	pair, ok := messages[key]
	if !ok {
		return key
	}
	return Pick(language, pair[0], pair[1])
}

// Catalog returns every label in the requested language.
func Catalog(language string) map[string]string {
	out := make(map[string]string, len(messages))
	for key := range messages {
		out[key] = T(language, key)
	}
	return out
}
