package mdconv

import "golang.org/x/text/language"

// SupportedLocales lists the locales with translated messages.
// The first entry is the fallback.
var SupportedLocales = []language.Tag{
	language.English,
	language.MustParse("zh-CN"),
}

var localeMatcher = language.NewMatcher(SupportedLocales)

var rejectionMessages = [][]string{
	// en
	{
		RejectionInvalidExtension: "Invalid file type",
		RejectionSizeExceeded:     "File size exceeds the limit: 10MB",
		RejectionBinaryContent:    "File content check failed: only text files are supported",
		RejectionReadFailure:      "Failed to read file",
	},
	// zh-CN
	{
		RejectionInvalidExtension: "文件类型无效",
		RejectionSizeExceeded:     "文件大小超过限制：10MB",
		RejectionBinaryContent:    "文件内容校验失败：仅支持文本文件",
		RejectionReadFailure:      "读取文件失败",
	},
}

// MatchLocale returns the supported locale best matching the given
// Accept-Language style preferences, tried in order. Unparsable or
// unmatched preferences are skipped; English is the final fallback.
func MatchLocale(preferences ...string) language.Tag {
	for _, pref := range preferences {
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(tags) == 0 {
			continue
		}
		if _, idx, conf := localeMatcher.Match(tags...); conf != language.No {
			return SupportedLocales[idx]
		}
	}
	return SupportedLocales[0]
}

// localeIndex returns the index of the supported locale closest to tag.
func localeIndex(tag language.Tag) int {
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return 0
	}
	return idx
}

// Message returns the user-facing text for a rejection in the locale
// closest to tag. RejectionNone yields an empty string.
func Message(kind RejectionKind, tag language.Tag) string {
	msgs := rejectionMessages[localeIndex(tag)]
	if kind <= RejectionNone || int(kind) >= len(msgs) {
		return ""
	}
	return msgs[kind]
}
