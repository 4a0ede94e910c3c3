// Package catalog holds the static content of the hub: heroes, lobby cards,
// soundtracks and UI translations.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"heroworld/internal/models"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Catalog is the parsed content document
type Catalog struct {
	Characters   []models.Character           `yaml:"characters" json:"characters"`
	Games        []models.GameInfo            `yaml:"games" json:"games"`
	Soundtracks  []models.Soundtrack          `yaml:"soundtracks" json:"soundtracks"`
	Translations map[string]map[string]string `yaml:"translations" json:"-"`
}

// Load reads a catalog from path, or the embedded one when path is empty
func Load(path string) (*Catalog, error) {
	data := embeddedCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(embeddedCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

func (c *Catalog) validate() error {
	if len(c.Characters) == 0 {
		return fmt.Errorf("catalog has no characters")
	}
	if len(c.Games) == 0 {
		return fmt.Errorf("catalog has no games")
	}

	seen := make(map[string]bool)
	for _, ch := range c.Characters {
		if ch.ID == "" || seen["character:"+ch.ID] {
			return fmt.Errorf("invalid or duplicate character id %q", ch.ID)
		}
		seen["character:"+ch.ID] = true
	}
	for _, g := range c.Games {
		if g.ID == "" || seen["game:"+g.ID] {
			return fmt.Errorf("invalid or duplicate game id %q", g.ID)
		}
		seen["game:"+g.ID] = true
	}
	for _, s := range c.Soundtracks {
		if s.ID == "" || seen["soundtrack:"+s.ID] {
			return fmt.Errorf("invalid or duplicate soundtrack id %q", s.ID)
		}
		seen["soundtrack:"+s.ID] = true
	}
	return nil
}

// Character looks up a hero by id
func (c *Catalog) Character(id string) (models.Character, bool) {
	for _, ch := range c.Characters {
		if ch.ID == id {
			return ch, true
		}
	}
	return models.Character{}, false
}

// Game looks up a lobby card by game id
func (c *Catalog) Game(id string) (models.GameInfo, bool) {
	for _, g := range c.Games {
		if g.ID == id {
			return g, true
		}
	}
	return models.GameInfo{}, false
}

// Translate returns the UI string for key. Missing entries fall back to
// English, then Arabic, then the key itself.
func (c *Catalog) Translate(key string, lang models.Language) string {
	for _, l := range []models.Language{lang, models.English, models.Arabic} {
		if s, ok := c.Translations[string(l)][key]; ok && s != "" {
			return s
		}
	}
	return key
}

// TranslationsFor returns a copy of every string for lang with fallbacks applied
func (c *Catalog) TranslationsFor(lang models.Language) map[string]string {
	out := make(map[string]string)
	for _, l := range []models.Language{models.Arabic, models.English, lang} {
		for k, v := range c.Translations[string(l)] {
			if v != "" {
				out[k] = v
			}
		}
	}
	return out
}

// NextSoundtrack returns the track after currentID, wrapping around.
// An unknown id starts from the first track.
func (c *Catalog) NextSoundtrack(currentID string) (models.Soundtrack, bool) {
	if len(c.Soundtracks) == 0 {
		return models.Soundtrack{}, false
	}
	for i, s := range c.Soundtracks {
		if s.ID == currentID {
			return c.Soundtracks[(i+1)%len(c.Soundtracks)], true
		}
	}
	return c.Soundtracks[0], true
}
