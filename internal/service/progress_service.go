package service

import (
	"context"
	"errors"
	"fmt"

	"heroworld/internal/catalog"
	"heroworld/internal/engine"
	"heroworld/internal/games"
	"heroworld/internal/models"
	"heroworld/internal/progress"
	"heroworld/internal/security"
)

var (
	ErrUnknownCharacter = errors.New("unknown character")
	ErrInvalidLanguage  = errors.New("unsupported language")
	ErrPINNotSet        = errors.New("parent PIN is not set")
	ErrWrongPIN         = errors.New("wrong parent PIN")
	ErrPlayerNotFound   = errors.New("player not found")
)

// PlayerDirectory stores player profiles
type PlayerDirectory interface {
	CreatePlayer(ctx context.Context, id, name string) (*models.Player, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
}

// PINStore keeps the hashed parent PIN
type PINStore interface {
	ParentPINHash(ctx context.Context) (string, bool, error)
	SetParentPINHash(ctx context.Context, hash string) error
}

// ResultStore records completed sessions
type ResultStore interface {
	Record(ctx context.Context, result *models.SessionResult) error
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]models.SessionResult, error)
	DeleteByPlayer(ctx context.Context, playerID string) error
}

// ProgressService implements the lobby side of the hub: heroes, language,
// unlocked levels and the parent-gated reset
type ProgressService struct {
	manager *progress.Manager
	players PlayerDirectory
	pins    PINStore
	results ResultStore
	catalog *catalog.Catalog
}

// NewProgressService creates a progress service
func NewProgressService(manager *progress.Manager, players PlayerDirectory, pins PINStore, results ResultStore, cat *catalog.Catalog) *ProgressService {
	return &ProgressService{
		manager: manager,
		players: players,
		pins:    pins,
		results: results,
		catalog: cat,
	}
}

// Catalog returns the content catalog
func (s *ProgressService) Catalog() *catalog.Catalog {
	return s.catalog
}

// CreatePlayer registers a new player with default progress. An empty name
// gets a generated one.
func (s *ProgressService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	if name == "" {
		name = security.PlayerName()
	}
	player, err := s.players.CreatePlayer(ctx, security.NewID(), name)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	s.manager.Save(ctx, player.ID, progress.Default())
	return player, nil
}

// GetPlayer returns a player profile
func (s *ProgressService) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	player, err := s.players.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// Progress returns the player's progress, defaults when nothing is stored
func (s *ProgressService) Progress(ctx context.Context, playerID string) models.Progress {
	return s.manager.Load(ctx, playerID)
}

// Lobby lists every game with the player's unlocked level
func (s *ProgressService) Lobby(ctx context.Context, playerID string) []models.LobbyEntry {
	p := s.manager.Load(ctx, playerID)
	entries := make([]models.LobbyEntry, 0, len(s.catalog.Games))
	for _, g := range s.catalog.Games {
		entries = append(entries, models.LobbyEntry{
			Game:          g,
			UnlockedLevel: p.UnlockedLevel(g.ID),
			MaxLevel:      engine.MaxLevel,
		})
	}
	return entries
}

// LevelGrid returns levels 1..30 of a game with lock flags
func (s *ProgressService) LevelGrid(ctx context.Context, playerID, gameID string) ([]engine.LevelCell, error) {
	if _, err := games.Get(gameID); err != nil {
		return nil, err
	}
	p := s.manager.Load(ctx, playerID)
	return engine.Snapshot{UnlockedLevel: p.UnlockedLevel(gameID)}.Levels(), nil
}

// Character returns the player's hero, or the first hero when none is chosen
func (s *ProgressService) Character(ctx context.Context, playerID string) models.Character {
	p := s.manager.Load(ctx, playerID)
	if ch, ok := s.catalog.Character(p.SelectedCharacterID); ok {
		return ch
	}
	return s.catalog.Characters[0]
}

// SelectHero stores the chosen character
func (s *ProgressService) SelectHero(ctx context.Context, playerID, characterID string) (models.Progress, error) {
	if _, ok := s.catalog.Character(characterID); !ok {
		return models.Progress{}, ErrUnknownCharacter
	}
	return s.manager.Update(ctx, playerID, func(p *models.Progress) {
		p.SelectedCharacterID = characterID
	}), nil
}

// SetLanguage stores the UI language
func (s *ProgressService) SetLanguage(ctx context.Context, playerID string, lang models.Language) (models.Progress, error) {
	if !lang.Valid() {
		return models.Progress{}, ErrInvalidLanguage
	}
	return s.manager.Update(ctx, playerID, func(p *models.Progress) {
		p.Language = lang
	}), nil
}

// ToggleLanguage switches between Arabic and English
func (s *ProgressService) ToggleLanguage(ctx context.Context, playerID string) models.Progress {
	return s.manager.Update(ctx, playerID, func(p *models.Progress) {
		p.Language = p.Language.Toggle()
	})
}

// CompleteLevel unlocks nextLevel of gameID
func (s *ProgressService) CompleteLevel(ctx context.Context, playerID, gameID string, nextLevel int) models.Progress {
	return s.manager.Unlock(ctx, playerID, gameID, nextLevel)
}

// History returns the player's most recent completed sessions
func (s *ProgressService) History(ctx context.Context, playerID string, limit int) ([]models.SessionResult, error) {
	if s.results == nil {
		return []models.SessionResult{}, nil
	}
	return s.results.ListByPlayer(ctx, playerID, limit)
}

// InitParentPIN stores pin as the parent PIN unless one is already set
func (s *ProgressService) InitParentPIN(ctx context.Context, pin string) error {
	if pin == "" {
		return nil
	}
	if _, ok, err := s.pins.ParentPINHash(ctx); err != nil || ok {
		return err
	}
	return s.SetParentPIN(ctx, pin)
}

// SetParentPIN replaces the parent PIN
func (s *ProgressService) SetParentPIN(ctx context.Context, pin string) error {
	hash, err := security.HashPIN(pin)
	if err != nil {
		return err
	}
	if err := s.pins.SetParentPINHash(ctx, hash); err != nil {
		return fmt.Errorf("failed to store parent PIN: %w", err)
	}
	return nil
}

// Reset wipes a player's progress and history once the parent PIN checks out
func (s *ProgressService) Reset(ctx context.Context, playerID, pin string) error {
	hash, ok, err := s.pins.ParentPINHash(ctx)
	if err != nil {
		return fmt.Errorf("failed to read parent PIN: %w", err)
	}
	if !ok {
		return ErrPINNotSet
	}
	if !security.CheckPIN(hash, pin) {
		return ErrWrongPIN
	}
	if err := s.results.DeleteByPlayer(ctx, playerID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.manager.Reset(ctx, playerID)
	return nil
}
