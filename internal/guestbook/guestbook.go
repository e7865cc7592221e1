// Package guestbook holds the demo items list that predates the school tracker.
package guestbook

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyText = errors.New("text required")

// Item is a single guestbook entry.
type Item struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Repository persists items.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, text string) (Item, error)
}

// CleanText validates and normalizes item text.
func CleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}
