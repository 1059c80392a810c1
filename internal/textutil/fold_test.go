package textutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Aria_Default_Idle_v2", "aria default idle v2"},
		{"  --Café   Crème-- ", "cafe creme"},
		{"Zoë's [Summer] Swimsuit", "zoe s summer swimsuit"},
		{"___", ""},
		{"", ""},
		{"ＦＵＬＬ　ＷＩＤＴＨ", "full width"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Aria":                 "aria",
		"Summer Vacation Aria": "summer-vacation-aria",
		"Sé-ra!!":              "se-ra",
		"  ":                   "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("Skill-Cut (Ver.2)"); got != "skillcutver2" {
		t.Fatalf("Sanitize = %q", got)
	}
	if got := Sanitize("!!!"); got != "" {
		t.Fatalf("expected empty sanitize, got %q", got)
	}
}

func TestTransliterateNonLatin(t *testing.T) {
	got := Transliterate("北京")
	if got == "" || !isASCII(got) {
		t.Fatalf("expected ascii transliteration, got %q", got)
	}
}
