package models

// PostAggregate is the composed read model for a post: the row itself plus
// its resolved author, tags, comments, and review statistics. Feed loads
// leave CommentTree nil; the detail load fills it.
type PostAggregate struct {
	Post        Post           `json:"post"`
	Author      *User          `json:"author"`
	Tags        []Tag          `json:"tags"`
	Comments    []Comment      `json:"comments"`
	CommentTree []*CommentNode `json:"comment_tree,omitempty"`
	Reviews     []Review       `json:"reviews"`
	Rating      RatingSummary  `json:"rating"`
}

// CommentNode is one node of the reconstructed comment forest.
type CommentNode struct {
	Comment Comment        `json:"comment"`
	Replies []*CommentNode `json:"replies,omitempty"`
}

// RatingSummary is the numeric contract of the rating aggregator.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// UserStats counts a user's live contributions.
type UserStats struct {
	PostCount     int64 `json:"postCount"`
	CommentsCount int64 `json:"commentsCount"`
	ReviewsCount  int64 `json:"reviewsCount"`
}
