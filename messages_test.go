package mdconv

// Notes:
// - MatchLocale: Accept-Language parsing with ordered fallbacks
// - Message: every rejection kind has text in both locales

import (
	"testing"

	"golang.org/x/text/language"
)

func TestMatchLocale(t *testing.T) {
	t.Parallel()

	zh := SupportedLocales[1]

	tests := []struct {
		name  string
		prefs []string
		want  language.Tag
	}{
		{"no preferences", nil, language.English},
		{"english", []string{"en-US,en;q=0.9"}, language.English},
		{"simplified chinese", []string{"zh-CN,zh;q=0.9,en;q=0.8"}, zh},
		{"bare zh", []string{"zh"}, zh},
		{"chinese preferred by weight", []string{"en;q=0.5,zh-CN;q=0.9"}, zh},
		{"unsupported falls to next preference", []string{"xx-invalid-tag-!!", "zh-CN"}, zh},
		{"unsupported everywhere falls back to english", []string{"sw"}, language.English},
		{"empty header uses config default", []string{"", "zh-CN"}, zh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MatchLocale(tt.prefs...); got != tt.want {
				t.Errorf("MatchLocale(%q) = %v, want %v", tt.prefs, got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	kinds := []RejectionKind{
		RejectionInvalidExtension,
		RejectionSizeExceeded,
		RejectionBinaryContent,
		RejectionReadFailure,
	}

	for _, tag := range SupportedLocales {
		for _, kind := range kinds {
			if Message(kind, tag) == "" {
				t.Errorf("Message(%v, %v) is empty", kind, tag)
			}
		}
		if got := Message(RejectionNone, tag); got != "" {
			t.Errorf("Message(none, %v) = %q, want empty", tag, got)
		}
	}

	if got := Message(RejectionInvalidExtension, language.MustParse("zh-CN")); got != "文件类型无效" {
		t.Errorf("zh-CN message = %q", got)
	}
	if got := Message(RejectionSizeExceeded, language.French); got != "File size exceeds the limit: 10MB" {
		t.Errorf("fallback message = %q", got)
	}
	if got := Message(RejectionKind(99), language.English); got != "" {
		t.Errorf("unknown kind message = %q", got)
	}
}
