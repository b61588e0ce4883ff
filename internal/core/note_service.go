package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmagestion/internal/storage"
)

// NoteService manages the reminder notes on the dashboard.
type NoteService interface {
	Notes(ctx context.Context) ([]Note, error)
	CreateNote(ctx context.Context, n Note) (*Note, error)
	UpdateNote(ctx context.Context, n Note) (*Note, error)
	DeleteNote(ctx context.Context, id string) error
	ToggleCompleted(ctx context.Context, id string) (*Note, error)
}

type noteService struct {
	store storage.Store
}

func NewNoteService(store storage.Store) NoteService {
	return &noteService{store: store}
}

func (s *noteService) Notes(ctx context.Context) ([]Note, error) {
	return loadNotes(ctx, s.store)
}

func (s *noteService) CreateNote(ctx context.Context, n Note) (*Note, error) {
	if strings.TrimSpace(n.Title) == "" {
		return nil, fmt.Errorf("note title: %w", ErrMissingField)
	}
	if n.Date == "" {
		n.Date = time.Now().Format("2006-01-02")
	}
	n.ID = uuid.NewString()

	notes, err := loadNotes(ctx, s.store)
	if err != nil {
		return nil, err
	}
	notes = append(notes, n)
	if err := saveNotes(ctx, s.store, notes); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *noteService) UpdateNote(ctx context.Context, n Note) (*Note, error) {
	if strings.TrimSpace(n.Title) == "" {
		return nil, fmt.Errorf("note title: %w", ErrMissingField)
	}
	notes, err := loadNotes(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == n.ID {
			notes[i] = n
			if err := saveNotes(ctx, s.store, notes); err != nil {
				return nil, err
			}
			return &n, nil
		}
	}
	return nil, fmt.Errorf("note %s: %w", n.ID, ErrNotFound)
}

func (s *noteService) DeleteNote(ctx context.Context, id string) error {
	notes, err := loadNotes(ctx, s.store)
	if err != nil {
		return err
	}
	kept := notes[:0]
	found := false
	for _, n := range notes {
		if n.ID == id {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	return saveNotes(ctx, s.store, kept)
}

func (s *noteService) ToggleCompleted(ctx context.Context, id string) (*Note, error) {
	notes, err := loadNotes(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == id {
			notes[i].Completed = !notes[i].Completed
			if err := saveNotes(ctx, s.store, notes); err != nil {
				return nil, err
			}
			return &notes[i], nil
		}
	}
	return nil, fmt.Errorf("note %s: %w", id, ErrNotFound)
}
