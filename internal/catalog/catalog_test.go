package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"heroworld/internal/games"
	"heroworld/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if len(c.Characters) != 8 {
		t.Errorf("Characters = %d, want 8", len(c.Characters))
	}
	if len(c.Soundtracks) != 3 {
		t.Errorf("Soundtracks = %d, want 3", len(c.Soundtracks))
	}

	registered := games.IDs()
	if len(c.Games) != len(registered) {
		t.Errorf("Games = %d, want %d", len(c.Games), len(registered))
	}
	for _, g := range c.Games {
		if !slices.Contains(registered, g.ID) {
			t.Errorf("catalog game %q has no implementation", g.ID)
		}
		if g.Title.AR == "" || g.Title.EN == "" {
			t.Errorf("game %q is missing a title", g.ID)
		}
	}

	for _, key := range []string{"title", "locked", "choose_difficulty"} {
		for _, lang := range []string{"ar", "en"} {
			if c.Translations[lang][key] == "" {
				t.Errorf("translation %s/%s is missing", lang, key)
			}
		}
	}
}

func TestLookups(t *testing.T) {
	c := Default()

	ch, ok := c.Character("misk")
	if !ok || ch.Name.In(models.English) != "Misk" {
		t.Errorf("Character(misk) = %+v, %v", ch, ok)
	}
	if _, ok := c.Character("nobody"); ok {
		t.Error("Character(nobody) should not be found")
	}

	g, ok := c.Game("math")
	if !ok || g.Title.In(models.Arabic) != "عبقري الأرقام" {
		t.Errorf("Game(math) = %+v, %v", g, ok)
	}
}

func TestTranslate(t *testing.T) {
	c := &Catalog{Translations: map[string]map[string]string{
		"en": {"back": "Back", "only_en": "English only"},
		"ar": {"back": "رجوع", "only_ar": "عربي فقط"},
	}}

	tests := []struct {
		key  string
		lang models.Language
		want string
	}{
		{"back", models.Arabic, "رجوع"},
		{"back", models.English, "Back"},
		{"only_en", models.Arabic, "English only"},
		{"only_ar", models.English, "عربي فقط"},
		{"missing", models.English, "missing"},
		{"back", models.Language("fr"), "Back"},
	}

	for _, tt := range tests {
		if got := c.Translate(tt.key, tt.lang); got != tt.want {
			t.Errorf("Translate(%q, %q) = %v, want %v", tt.key, tt.lang, got, tt.want)
		}
	}

	ar := c.TranslationsFor(models.Arabic)
	if ar["back"] != "رجوع" || ar["only_en"] != "English only" {
		t.Errorf("TranslationsFor(ar) = %v", ar)
	}
}

func TestNextSoundtrack(t *testing.T) {
	c := Default()

	tests := []struct {
		current string
		want    string
	}{
		{"happy", "adventure"},
		{"adventure", "calm"},
		{"calm", "happy"},
		{"", "happy"},
	}
	for _, tt := range tests {
		got, ok := c.NextSoundtrack(tt.current)
		if !ok || got.ID != tt.want {
			t.Errorf("NextSoundtrack(%q) = %v, want %v", tt.current, got.ID, tt.want)
		}
	}

	if _, ok := (&Catalog{}).NextSoundtrack("happy"); ok {
		t.Error("NextSoundtrack() on an empty catalog should report false")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
characters:
  - id: hero
    name: {ar: "بطل", en: "Hero"}
games:
  - id: math
    title: {ar: "حساب", en: "Math"}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Characters) != 1 || c.Characters[0].ID != "hero" {
		t.Errorf("Load() characters = %+v", c.Characters)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "characters: [unclosed"},
		{"no characters", "games:\n  - id: math\n"},
		{"duplicate game", "characters:\n  - id: a\ngames:\n  - id: math\n  - id: math\n"},
		{"empty id", "characters:\n  - id: \"\"\ngames:\n  - id: math\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}
