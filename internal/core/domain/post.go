package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// PostStatus represents the moderation state of a post.
type PostStatus string

const (
	StatusPending   PostStatus = "pending"
	StatusPublished PostStatus = "published"
	StatusArchived  PostStatus = "archived"
	// StatusRejected is recognised in stored data but no action produces it.
	StatusRejected PostStatus = "rejected"
)

// validTransitions defines the moderation state machine. Archived and
// rejected posts have no way out.
var validTransitions = map[PostStatus][]PostStatus{
	StatusPending:   {StatusPublished, StatusArchived},
	StatusPublished: {StatusArchived},
}

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPublished, StatusArchived, StatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const postIDBytes = 24

// Post is a blog entry subject to moderation.
type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	Status    PostStatus `json:"status"`
}

// NewPost builds a post authored by the given identity. Posts written by an
// admin skip moderation.
func NewPost(title, content string, author Claims, now time.Time) (*Post, error) {
	id, err := NewPostID()
	if err != nil {
		return nil, err
	}

	status := StatusPending
	if author.IsAdmin() {
		status = StatusPublished
	}

	return &Post{
		ID:        id,
		Title:     title,
		Content:   content,
		Author:    author.Username,
		CreatedAt: now.UTC(),
		Status:    status,
	}, nil
}

// NewPostID returns 24 random bytes as lowercase hex.
func NewPostID() (string, error) {
	b := make([]byte, postIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate post id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// EditableBy reports whether the caller may change the post's title and content.
func (p *Post) EditableBy(c Claims) bool {
	return c.IsAdmin() || c.Username == p.Author
}
