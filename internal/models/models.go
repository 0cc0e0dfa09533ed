package models

import "time"

// Roles a user profile can take.
const (
	RoleAthlete = "athlete"
	RoleCoach   = "coach"
)

// Training video source types.
const (
	VideoTypeFile = "file"
	VideoTypeLink = "link"
)

// Skill is an endorsable capability listed on a profile.
type Skill struct {
	Name         string `bson:"name" json:"name"`
	Endorsements int    `bson:"endorsements" json:"endorsements"`
}

// Experience is a single career entry on a profile.
type Experience struct {
	Role        string  `bson:"role" json:"role"`
	Org         string  `bson:"org" json:"org"`
	Years       string  `bson:"years" json:"years"`
	Description *string `bson:"description" json:"description"`
}

// User is an athlete or coach profile.
type User struct {
	ID           string  `bson:"_id" json:"_id"`
	Name         string  `bson:"name" json:"name"`
	Role         string  `bson:"role" json:"role"`
	Sport        string  `bson:"sport" json:"sport"`
	Headline     *string `bson:"headline" json:"headline"`
	Bio          *string `bson:"bio" json:"bio"`
	Location     *string `bson:"location" json:"location"`
	Category     *string `bson:"category" json:"category"`
	ProfileImage *string `bson:"profile_image" json:"profile_image"`
	CoverImage   *string `bson:"cover_image" json:"cover_image"`
	Email        *string `bson:"email,omitempty" json:"email"`
	Username     *string `bson:"username,omitempty" json:"username"`

	Age               *int    `bson:"age" json:"age"`
	Weight            *string `bson:"weight" json:"weight"`
	Height            *string `bson:"height" json:"height"`
	PlayingHand       *string `bson:"playing_hand" json:"playing_hand"`
	YearsOfExperience *int    `bson:"years_of_experience" json:"years_of_experience"`
	AgeCategory       *string `bson:"age_category" json:"age_category"`
	Academy           *string `bson:"academy" json:"academy"`

	Skills     []Skill      `bson:"skills" json:"skills"`
	Experience []Experience `bson:"experience" json:"experience"`
}

// Post is a feed entry authored by a user.
type Post struct {
	ID       string  `bson:"_id" json:"_id"`
	AuthorID string  `bson:"author_id" json:"author_id"`
	Content  string  `bson:"content" json:"content"`
	MediaURL *string `bson:"media_url" json:"media_url"`
	Type     string  `bson:"type" json:"type"`
	Likes    int     `bson:"likes" json:"likes"`
	Comments int     `bson:"comments" json:"comments"`
}

// Comment is an append-only reply to a post.
type Comment struct {
	ID        string    `bson:"_id" json:"_id"`
	PostID    string    `bson:"post_id" json:"post_id"`
	AuthorID  string    `bson:"author_id" json:"author_id"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// TrainingVideo is a coaching clip, either uploaded or linked from a video platform.
type TrainingVideo struct {
	ID           string   `bson:"_id" json:"_id"`
	Title        string   `bson:"title" json:"title"`
	Author       string   `bson:"author" json:"author"`
	Description  *string  `bson:"description" json:"description"`
	VideoURL     string   `bson:"video_url" json:"video_url"`
	ThumbnailURL *string  `bson:"thumbnail_url" json:"thumbnail_url"`
	Duration     string   `bson:"duration" json:"duration"`
	Views        string   `bson:"views" json:"views"`
	Type         string   `bson:"type" json:"type"`
	Categories   []string `bson:"categories" json:"categories"`
	Analysis     []string `bson:"analysis" json:"analysis"`
}

// Opportunity is a sponsorship, training or coaching listing posted by a user.
type Opportunity struct {
	ID           string   `bson:"_id" json:"_id"`
	PosterID     string   `bson:"poster_id" json:"poster_id"`
	Type         string   `bson:"type" json:"type"`
	Title        string   `bson:"title" json:"title"`
	Description  string   `bson:"description" json:"description"`
	Requirements []string `bson:"requirements" json:"requirements"`
	Budget       *string  `bson:"budget" json:"budget"`
}
