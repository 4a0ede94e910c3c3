package models

// Text is a string in both UI languages
type Text struct {
	AR string `json:"ar" yaml:"ar"`
	EN string `json:"en" yaml:"en"`
}

// In returns the text for lang, falling back to the other language when empty
func (t Text) In(lang Language) string {
	if lang == English && t.EN != "" {
		return t.EN
	}
	if t.AR != "" {
		return t.AR
	}
	return t.EN
}

// Character is a selectable hero
type Character struct {
	ID          string `json:"id" yaml:"id"`
	Name        Text   `json:"name" yaml:"name"`
	Description Text   `json:"description" yaml:"description"`
	Emoji       string `json:"emoji" yaml:"emoji"`
	Color       string `json:"color" yaml:"color"`
}

// GameInfo is the lobby card of a mini-game
type GameInfo struct {
	ID          string `json:"id" yaml:"id"`
	Title       Text   `json:"title" yaml:"title"`
	Description Text   `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Color       string `json:"color" yaml:"color"`
}

// Soundtrack is a background music track
type Soundtrack struct {
	ID    string `json:"id" yaml:"id"`
	Name  Text   `json:"name" yaml:"name"`
	URL   string `json:"url" yaml:"url"`
	Tempo int    `json:"tempo" yaml:"tempo"`
}

// LobbyEntry is one row of the lobby
type LobbyEntry struct {
	Game          GameInfo `json:"game"`
	UnlockedLevel int      `json:"unlockedLevel"`
	MaxLevel      int      `json:"maxLevel"`
}
