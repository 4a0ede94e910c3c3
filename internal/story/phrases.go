package story

import (
	"context"
	"fmt"
	"log"
)

// PhraseKind selects a motivational phrase
type PhraseKind string

const (
	PhraseWin   PhraseKind = "win"
	PhraseLose  PhraseKind = "lose"
	PhraseIntro PhraseKind = "intro"
)

// Valid reports whether k is a known phrase kind
func (k PhraseKind) Valid() bool {
	return k == PhraseWin || k == PhraseLose || k == PhraseIntro
}

func (k PhraseKind) prompt(characterName string) string {
	switch k {
	case PhraseWin:
		return fmt.Sprintf("أعطني عبارة تشجيعية قصيرة جداً ومبهجة لطفل فاز بمرحلة في لعبة. يجب أن تذكر اسم الشخصية \"%s\".", characterName)
	case PhraseLose:
		return fmt.Sprintf("أعطني عبارة تشجيعية رقيقة ومحفزة لطفل لم ينجح في مرحلة، تشجعه على المحاولة مرة أخرى. اذكر اسم \"%s\".", characterName)
	default:
		return fmt.Sprintf("عبارة ترحيبية قصيرة جداً للطفل عند اختيار شخصية \"%s\".", characterName)
	}
}

// failed is used when the service errors
func (k PhraseKind) failed() string {
	switch k {
	case PhraseWin:
		return "أحسنت!"
	case PhraseIntro:
		return "أهلاً يا بطل!"
	default:
		return "حاول ثانية!"
	}
}

// empty is used when the service answers with nothing
func (k PhraseKind) empty() string {
	switch k {
	case PhraseWin:
		return "أحسنت يا بطل!"
	case PhraseIntro:
		return "أهلاً يا بطل!"
	default:
		return "لا بأس، حاول مرة أخرى!"
	}
}

// Phrase returns a short motivational line naming the hero. It never fails.
func Phrase(ctx context.Context, gen Generator, kind PhraseKind, characterName string) string {
	if gen == nil {
		return kind.failed()
	}
	text, err := gen.GenerateText(ctx, kind.prompt(characterName))
	if err != nil {
		log.Printf("Failed to generate %s phrase: %v", kind, err)
		return kind.failed()
	}
	if text == "" {
		return kind.empty()
	}
	return text
}
