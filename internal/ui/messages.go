// Package ui provides the Bubble Tea search screen.
package ui

import (
	"github.com/abelbrown/newsfeed/internal/debounce"
	"github.com/abelbrown/newsfeed/internal/store"
)

// ArticlesLoaded is sent when the collection has been read from the store.
type ArticlesLoaded struct {
	Articles []store.Article
	Err      error
}

// SettleTick fires one debounce interval after a keystroke. Only the tick
// carrying the newest ticket applies the query.
type SettleTick struct {
	Ticket debounce.Ticket
}
