package story

import (
	"context"
	"fmt"
	"log"
	"strings"

	"heroworld/internal/models"
)

var (
	restFallback = models.Text{
		AR: "أوه! يبدو أن خيالنا يحتاج لراحة قليلاً. حاول مرة أخرى!",
		EN: "Oh! It seems our imagination needs a little rest. Try again!",
	}
	emptyFallback = models.Text{
		AR: "حدث خطأ في تأليف القصة، حاول مرة أخرى!",
		EN: "An error occurred while creating the story, try again!",
	}
)

// Teller writes stories starring one hero in one language
type Teller struct {
	gen       Generator
	character models.Character
	lang      models.Language
}

// NewTeller creates a storyteller. A nil generator always returns the fallback.
func NewTeller(gen Generator, character models.Character, lang models.Language) *Teller {
	return &Teller{gen: gen, character: character, lang: lang}
}

// Prompt builds the request sent to the text service
func (t *Teller) Prompt(stickers []string) string {
	name := t.character.Name.In(t.lang)
	desc := t.character.Description.In(t.lang)
	items := strings.Join(stickers, ", ")

	if t.lang == models.English {
		return fmt.Sprintf("You are a storyteller for children. Write a very short story (3-4 sentences) in a cheerful and very simple style.\n"+
			"The main character is %q (who is %s).\n"+
			"The story must include these elements: %s.\n"+
			"Make the story end with a happy and encouraging ending. In English.", name, desc, items)
	}
	return fmt.Sprintf("أنت راوي قصص للأطفال. اكتب قصة قصيرة جداً (3-4 جمل) بأسلوب مبهج وبسيط جداً.\n"+
		"الشخصية الرئيسية هي \"%s\" (التي هي %s).\n"+
		"يجب أن تتضمن القصة هذه العناصر: %s.\n"+
		"اجعل القصة تنتهي بنهاية سعيدة ومشجعة. باللغة العربية.", name, desc, items)
}

// Tell returns a story and true, or a localized fallback and false
func (t *Teller) Tell(ctx context.Context, stickers []string) (string, bool) {
	if t.gen == nil {
		return restFallback.In(t.lang), false
	}

	text, err := t.gen.GenerateText(ctx, t.Prompt(stickers))
	if err != nil {
		log.Printf("Failed to generate story: %v", err)
		return restFallback.In(t.lang), false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return emptyFallback.In(t.lang), false
	}
	return text, true
}
