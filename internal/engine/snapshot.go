package engine

// Snapshot is a point-in-time copy of a controller for rendering
type Snapshot struct {
	GameID        string     `json:"gameId"`
	Category      Category   `json:"category"`
	State         State      `json:"state"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
	Level         int        `json:"level,omitempty"`
	UnlockedLevel int        `json:"unlockedLevel"`
	Score         int        `json:"score"`
	Target        int        `json:"target"`
	Emotion       Emotion    `json:"emotion"`
	ElapsedMs     int64      `json:"elapsedMs"`

	Round *Round     `json:"round,omitempty"`
	Board *BoardView `json:"board,omitempty"`
	Field *FieldView `json:"field,omitempty"`

	Phase          Phase `json:"phase,omitempty"`
	ActivePad      int   `json:"activePad"`
	Pads           int   `json:"pads,omitempty"`
	SequenceLength int   `json:"sequenceLength,omitempty"`
	Recalled       int   `json:"recalled,omitempty"`

	Palette   []string `json:"palette,omitempty"`
	PickLimit int      `json:"pickLimit,omitempty"`
	Picks     []string `json:"picks,omitempty"`
	Story     string   `json:"story,omitempty"`
}

// Levels returns the level grid for the level-select screen
func (s Snapshot) Levels() []LevelCell {
	cells := make([]LevelCell, 0, MaxLevel)
	for l := MinLevel; l <= MaxLevel; l++ {
		cells = append(cells, LevelCell{Level: l, Locked: l > s.UnlockedLevel})
	}
	return cells
}

// LevelCell is one entry of the level grid
type LevelCell struct {
	Level  int  `json:"level"`
	Locked bool `json:"locked"`
}
