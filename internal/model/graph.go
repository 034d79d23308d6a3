package model

// SightingGraph is a sighting with its related rows already loaded.
// Location and User are nil when the referenced row no longer resolves.
type SightingGraph struct {
	Sighting Sighting
	Location *Location
	User     *User
	Comments []CommentGraph
}

// CommentGraph is a comment with its author loaded (nil if missing).
type CommentGraph struct {
	Comment Comment
	User    *User
}
