package translate

// Language describes one selectable target language together with the
// provider-specific codes that differ from the generic one.
type Language struct {
	Label  string // Display name for the GUI select
	Code   string // Generic code, what callers pass as target
	Baidu  string // Baidu Fanyi code
	Youdao string // Youdao open platform code
}

// Languages is the list of supported target languages, in display order.
var Languages = []Language{
	{"Chinese (Simplified)", "zh-CN", "zh", "zh-CHS"},
	{"Chinese (Traditional)", "zh-TW", "cht", "zh-CHT"},
	{"English", "en", "en", "en"},
	{"Japanese", "ja", "jp", "ja"},
	{"Korean", "ko", "kor", "ko"},
	{"French", "fr", "fra", "fr"},
	{"German", "de", "de", "de"},
	{"Spanish", "es", "spa", "es"},
	{"Russian", "ru", "ru", "ru"},
	{"Arabic", "ar", "ara", "ar"},
	{"Italian", "it", "it", "it"},
	{"Portuguese", "pt", "pt", "pt"},
}

// LanguageOptions returns "Label (code)" strings for the GUI select widget.
func LanguageOptions() []string {
	opts := make([]string, len(Languages))
	for i, l := range Languages {
		opts[i] = l.Label + " (" + l.Code + ")"
	}
	return opts
}

// LanguageByOption maps a GUI option string back to the generic code.
// Unknown options return the empty string.
func LanguageByOption(option string) string {
	for i, o := range LanguageOptions() {
		if o == option {
			return Languages[i].Code
		}
	}
	return ""
}

// BaiduCode maps a generic language code to Baidu's code, falling back to
// the generic code when unknown.
func BaiduCode(generic string) string {
	for _, l := range Languages {
		if l.Code == generic {
			return l.Baidu
		}
	}
	return generic
}

// YoudaoCode maps a generic language code to Youdao's code, falling back to
// the generic code when unknown.
func YoudaoCode(generic string) string {
	for _, l := range Languages {
		if l.Code == generic {
			return l.Youdao
		}
	}
	return generic
}
