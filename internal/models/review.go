package models

// Rating is the closed set of review categories.
type Rating string

// Review rating categories, ordinal ONE..FIVE.
const (
	RatingOne   Rating = "ONE"
	RatingTwo   Rating = "TWO"
	RatingThree Rating = "THREE"
	RatingFour  Rating = "FOUR"
	RatingFive  Rating = "FIVE"
)

// Value maps a rating category to its numeric scale 1..5. Unknown categories
// map to 0 so a corrupt row drags the average down instead of panicking.
func (r Rating) Value() int {
	switch r {
	case RatingOne:
		return 1
	case RatingTwo:
		return 2
	case RatingThree:
		return 3
	case RatingFour:
		return 4
	case RatingFive:
		return 5
	default:
		return 0
	}
}

// Valid reports whether the rating belongs to the closed set.
func (r Rating) Valid() bool {
	return r.Value() != 0
}

// Review is a user's rating of a post. A user holds at most one live review
// per post; submitting again updates the existing row.
type Review struct {
	Base
	PostID uint   `gorm:"not null;index:idx_reviews_post_user" json:"post_id"`
	UserID uint   `gorm:"not null;index:idx_reviews_post_user" json:"user_id"`
	Rate   Rating `gorm:"size:8;not null" json:"rate"`
}
