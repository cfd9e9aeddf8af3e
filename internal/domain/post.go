package domain

import (
	"time"
)

// Post is a confession posted to the board. Longitude and latitude are the
// raw integer coordinates the clients report; vicinity queries compare them
// by absolute difference, not great-circle distance.
type Post struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	Text      string    `json:"text"`
	Score     int64     `json:"score"`
	Longitude int64     `json:"longitude"`
	Latitude  int64     `json:"latitude"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a reply attached to a post. Deleting the post removes its
// comments.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Username  string    `json:"username,omitempty"`
	Text      string    `json:"text"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteDelta maps an upvote flag to the score increment. A missing flag
// counts as an upvote.
func VoteDelta(up *bool) int64 {
	if up == nil || *up {
		return 1
	}
	return -1
}
