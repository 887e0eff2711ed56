package models

import "time"

// Post is a single article. Data holds the raw markdown body.
type Post struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Data     string    `json:"data"`
	Tags     []string  `json:"tags,omitempty"`
	AuthorID int       `json:"authorId"`
	PostedOn time.Time `json:"posted_on"`
	Author   *Author   `json:"author,omitempty"`
}
