package story

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"heroworld/internal/models"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

var misk = models.Character{
	ID:          "misk",
	Name:        models.Text{AR: "مسك", EN: "Misk"},
	Description: models.Text{AR: "جميلة بفيونكتها النجمية الرائعة", EN: "Beautiful with her amazing star bow"},
}

func TestClientGenerateText(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"  Once upon a time.  "}}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", "test-model", time.Second)
	text, err := c.GenerateText(context.Background(), "tell me")
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if text != "Once upon a time." {
		t.Errorf("GenerateText() = %q", text)
	}
	if got.Model != "test-model" || len(got.Messages) != 1 || got.Messages[0].Content != "tell me" {
		t.Errorf("request = %+v", got)
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, "", true},
		{"bad status", http.StatusBadGateway, `{}`, "", true},
		{"not json", http.StatusOK, `<html>`, "", true},
		{"no choices", http.StatusOK, `{"choices":[]}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			text, err := NewClient(server.URL, "k", "m", time.Second).GenerateText(context.Background(), "p")
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if text != tt.want {
				t.Errorf("GenerateText() = %q, want %q", text, tt.want)
			}
		})
	}
}

func TestClientDisabled(t *testing.T) {
	_, err := NewClient("http://unused", "", "m", time.Second).GenerateText(context.Background(), "p")
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("GenerateText() error = %v, want %v", err, ErrDisabled)
	}
}

func TestTellerPrompt(t *testing.T) {
	en := NewTeller(nil, misk, models.English).Prompt([]string{"🦁", "🚀"})
	if !strings.Contains(en, `"Misk"`) || !strings.Contains(en, "star bow") || !strings.Contains(en, "🦁, 🚀") {
		t.Errorf("English prompt = %q", en)
	}

	ar := NewTeller(nil, misk, models.Arabic).Prompt([]string{"🏰"})
	if !strings.Contains(ar, "مسك") || !strings.Contains(ar, "🏰") || !strings.Contains(ar, "باللغة العربية") {
		t.Errorf("Arabic prompt = %q", ar)
	}
}

func TestTellerTell(t *testing.T) {
	tests := []struct {
		name   string
		gen    Generator
		lang   models.Language
		want   string
		wantOK bool
	}{
		{"story", &stubGenerator{text: "A happy tale."}, models.English, "A happy tale.", true},
		{"error en", &stubGenerator{err: errors.New("down")}, models.English, "Oh! It seems our imagination needs a little rest. Try again!", false},
		{"error ar", &stubGenerator{err: errors.New("down")}, models.Arabic, "أوه! يبدو أن خيالنا يحتاج لراحة قليلاً. حاول مرة أخرى!", false},
		{"empty en", &stubGenerator{}, models.English, "An error occurred while creating the story, try again!", false},
		{"empty ar", &stubGenerator{}, models.Arabic, "حدث خطأ في تأليف القصة، حاول مرة أخرى!", false},
		{"no generator", nil, models.English, "Oh! It seems our imagination needs a little rest. Try again!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewTeller(tt.gen, misk, tt.lang).Tell(context.Background(), []string{"🦁", "🚀"})
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Tell() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPhrase(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
		kind PhraseKind
		want string
	}{
		{"generated", &stubGenerator{text: "برافو يا مسك!"}, PhraseWin, "برافو يا مسك!"},
		{"win error", &stubGenerator{err: errors.New("x")}, PhraseWin, "أحسنت!"},
		{"lose error", &stubGenerator{err: errors.New("x")}, PhraseLose, "حاول ثانية!"},
		{"win empty", &stubGenerator{}, PhraseWin, "أحسنت يا بطل!"},
		{"lose empty", &stubGenerator{}, PhraseLose, "لا بأس، حاول مرة أخرى!"},
		{"intro no generator", nil, PhraseIntro, "أهلاً يا بطل!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phrase(context.Background(), tt.gen, tt.kind, "مسك"); got != tt.want {
				t.Errorf("Phrase() = %q, want %q", got, tt.want)
			}
		})
	}

	stub := &stubGenerator{text: "ok"}
	Phrase(context.Background(), stub, PhraseIntro, "جود")
	if !strings.Contains(stub.prompt, "جود") {
		t.Errorf("prompt %q should name the hero", stub.prompt)
	}
}
