package games

import "heroworld/internal/engine"

func init() {
	Register(StoryMaker{})
	Register(Drawing{})
}

var storyStickers = []string{"🦁", "🚀", "🏰", "🌈", "🍦", "🧚", "🐉", "⚽", "🚗", "🐱", "🍕", "🛸"}

// StoryMaker turns a handful of stickers into a short story
type StoryMaker struct{}

func (StoryMaker) ID() string                             { return "story" }
func (StoryMaker) Category() engine.Category              { return engine.CategoryFreePlay }
func (StoryMaker) TargetScore(int, engine.Difficulty) int { return 1 }
func (StoryMaker) Palette() []string                      { return storyStickers }

func (StoryMaker) PickLimit(d engine.Difficulty) int {
	return engine.ByDifficulty(d, 2, 3, 4)
}

var drawingColors = []string{
	"#000000", "#ef4444", "#3b82f6", "#22c55e",
	"#eab308", "#a855f7", "#ec4899", "#fb923c",
}

// Drawing is a free canvas; the shell owns the strokes and the round ends on Finish
type Drawing struct{}

func (Drawing) ID() string                             { return "drawing" }
func (Drawing) Category() engine.Category              { return engine.CategoryFreePlay }
func (Drawing) TargetScore(int, engine.Difficulty) int { return 1 }
func (Drawing) Palette() []string                      { return drawingColors }
func (Drawing) PickLimit(engine.Difficulty) int        { return 0 }
