package api

import "time"

// User identifies an account as returned by the session and profile endpoints.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"profile_picture_url,omitempty"`
}

// Post describes a feed entry in transport-friendly form.
type Post struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	Caption       string `json:"caption"`
	ImageURL      string `json:"image_url"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	IsLiked       bool   `json:"is_liked"`
	User          User   `json:"user"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (p Post) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// Comment describes a single comment. Replies are nested one level deep by
// the server; deeper threads arrive flattened onto the parent.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	ParentID  *int64    `json:"parent_id"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"created_at"`
	User      User      `json:"user"`
	Replies   []Comment `json:"replies,omitempty"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (c Comment) ParsedCreatedAt() time.Time {
	return parseTime(c.CreatedAt)
}

// FollowStatus reports the follow relationship between the viewer and a profile.
type FollowStatus struct {
	IsFollowing  bool `json:"is_following"`
	IsFollowedBy bool `json:"is_followed_by"`
}

// UserProfile extends User with profile-page counters.
type UserProfile struct {
	User
	FollowersCount int           `json:"followers_count"`
	FollowingCount int           `json:"following_count"`
	PostsCount     int           `json:"posts_count"`
	FollowStatus   *FollowStatus `json:"follow_status,omitempty"`
}

// Page mirrors the server's pagination envelope.
type Page[T any] struct {
	Data        []T     `json:"data"`
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	PerPage     int     `json:"per_page"`
	Total       int     `json:"total"`
	NextPageURL *string `json:"next_page_url"`
}

// HasMore reports whether another page exists. A null next_page_url is
// equivalent to current_page >= last_page.
func (p Page[T]) HasMore() bool {
	if p.NextPageURL != nil {
		return true
	}
	return p.CurrentPage < p.LastPage
}

// SessionResponse is returned by login and registration.
type SessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LikeResponse is the authoritative result of a like toggle.
type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// FollowToggleResponse is the authoritative result of a follow toggle.
type FollowToggleResponse struct {
	IsFollowing bool `json:"is_following"`
}

// ProfileResponse bundles a profile page with its first page of posts.
type ProfileResponse struct {
	User  UserProfile `json:"user"`
	Posts Page[Post]  `json:"posts"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries new-account details.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
