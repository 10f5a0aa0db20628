package induction

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrTitleRequired       = errors.New("induction title is required")
	ErrDescriptionRequired = errors.New("induction description is required")
)

// Config is the single induction settings document shown on the landing
// page. VideoURL is optional; an empty value means the portal serves no
// intro video.
type Config struct {
	Title       string    `json:"title"`
	VideoURL    string    `json:"video_url,omitempty"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// DefaultConfig is returned until an admin saves their own settings.
func DefaultConfig() Config {
	return Config{
		Title:       "Company induction",
		VideoURL:    "/videos/induction.mp4",
		Description: "This session covers the fundamental pillars of our organization.",
	}
}

type Store interface {
	// Get returns the saved settings, or DefaultConfig when nothing has
	// been saved yet.
	Get(ctx context.Context) (Config, error)
	// Put validates and replaces the settings.
	Put(ctx context.Context, c Config) (Config, error)
}

func validate(c *Config) error {
	c.Title = strings.TrimSpace(c.Title)
	c.VideoURL = strings.TrimSpace(c.VideoURL)
	c.Description = strings.TrimSpace(c.Description)
	if c.Title == "" {
		return ErrTitleRequired
	}
	if c.Description == "" {
		return ErrDescriptionRequired
	}
	return nil
}
