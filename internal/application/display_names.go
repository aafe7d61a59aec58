package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/ports"
)

const DisplayNameKey = "display_name"

// DisplayNames resolves the name attached to markers and chat messages. The
// value is cached after the first successful lookup.
type DisplayNames struct {
	store    ports.PreferenceStore
	prompter ports.Prompter

	mu     sync.Mutex
	cached string
}

func NewDisplayNames(store ports.PreferenceStore, prompter ports.Prompter) *DisplayNames {
	return &DisplayNames{store: store, prompter: prompter}
}

// Current returns the stored name without prompting.
func (d *DisplayNames) Current(ctx context.Context) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentLocked(ctx)
}

func (d *DisplayNames) Set(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyDisplayName
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Put(ctx, DisplayNameKey, name); err != nil {
		return fmt.Errorf("store display name: %w", err)
	}
	d.cached = name
	return nil
}

// Clear forgets the stored name; the next Ensure prompts again.
func (d *DisplayNames) Clear(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Delete(ctx, DisplayNameKey); err != nil {
		return fmt.Errorf("clear display name: %w", err)
	}
	d.cached = ""
	return nil
}

// Ensure returns the display name, prompting once when none is stored. A
// cancelled or blank answer yields ok == false and nothing is stored.
func (d *DisplayNames) Ensure(ctx context.Context) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	name, ok, err := d.currentLocked(ctx)
	if err != nil || ok {
		return name, ok, err
	}
	if d.prompter == nil {
		return "", false, nil
	}

	answer, ok, err := d.prompter.AskDisplayName(ctx)
	if err != nil {
		return "", false, fmt.Errorf("ask display name: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if !ok || answer == "" {
		return "", false, nil
	}

	if err := d.store.Put(ctx, DisplayNameKey, answer); err != nil {
		return "", false, fmt.Errorf("store display name: %w", err)
	}
	d.cached = answer
	return answer, true, nil
}

func (d *DisplayNames) currentLocked(ctx context.Context) (string, bool, error) {
	if d.cached != "" {
		return d.cached, true, nil
	}

	stored, err := d.store.Get(ctx, DisplayNameKey)
	if errors.Is(err, domain.ErrPreferenceNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load display name: %w", err)
	}

	stored = strings.TrimSpace(stored)
	if stored == "" {
		return "", false, nil
	}
	d.cached = stored
	return stored, true, nil
}
