package transform

import "time"

// Canonical client-facing shapes. Progressive-loading fields (ratings,
// discussion ids, lineage) are always concrete empty collections when not
// yet resolved, never nil, so encoders emit [] rather than null.

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	BirthYear    int       `json:"birthYear,omitempty"`
	IsRegistered bool      `json:"isRegistered"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Reply struct {
	ID        string    `json:"id"`
	Author    *User     `json:"author,omitempty"`
	Content   string    `json:"content"`
	IsAnswer  bool      `json:"isAnswer"`
	Upvoters  []string  `json:"upvoters"`
	Upvotes   int       `json:"upvotes"`
	CreatedAt time.Time `json:"createdAt"`
}

type Post struct {
	ID           string    `json:"id"`
	Author       *User     `json:"author,omitempty"`
	Title        string    `json:"title,omitempty"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	Location     string    `json:"location"`
	TopicType    string    `json:"topicType,omitempty"`
	IdeaID       string    `json:"ideaId,omitempty"`
	Supporters   []string  `json:"supporters"`
	SupportCount int       `json:"supportCount"`
	Replies      []Reply   `json:"replies"`
	SourcePosts  []string  `json:"sourcePosts"`
	SourceIdeas  []string  `json:"sourceIdeas"`
	DerivedPosts []string  `json:"derivedPosts"`
	DerivedIdeas []string  `json:"derivedIdeas"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Criterion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type RatingEntry struct {
	CriterionID string `json:"criterionId"`
	UserID      string `json:"userId"`
	Value       int    `json:"value"`
}

type Idea struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Summary           string             `json:"summary"`
	Description       string             `json:"description"`
	Status            string             `json:"status"`
	Creators          []User             `json:"creators"`
	Tags              []string           `json:"tags"`
	Location          string             `json:"location"`
	Supporters        []string           `json:"supporters"`
	SupportCount      int                `json:"supportCount"`
	DiscussionIDs     []string           `json:"discussionIds"`
	RatingCriteria    []Criterion        `json:"ratingCriteria"`
	Ratings           []RatingEntry      `json:"ratings"`
	Scores            map[string]float64 `json:"scores"`
	SourceIdeas       []string           `json:"sourceIdeas"`
	SourcePosts       []string           `json:"sourcePosts"`
	SourceDiscussions []string           `json:"sourceDiscussions"`
	DerivedIdeas      []string           `json:"derivedIdeas"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// DiscussionTopic is the client rendering of a topic post plus its replies.
type DiscussionTopic struct {
	ID        string    `json:"id"`
	IdeaID    string    `json:"ideaId"`
	Author    *User     `json:"author,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Upvoters  []string  `json:"upvoters"`
	Upvotes   int       `json:"upvotes"`
	Posts     []Reply   `json:"posts"`
	CreatedAt time.Time `json:"createdAt"`
}

// LineageItem is one labeled node of the one-hop lineage graph.
type LineageItem struct {
	ID               string    `json:"id"`
	Kind             string    `json:"kind"`
	Title            string    `json:"title"`
	RelationshipType string    `json:"relationshipType"` // parent, current or child
	Level            int       `json:"level"`            // -1, 0 or +1
	SupportCount     int       `json:"supportCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Lineage struct {
	Current  *LineageItem  `json:"current"`
	Parents  []LineageItem `json:"parents"`
	Children []LineageItem `json:"children"`
}

// FeedItem is a classified member of the mixed feed.
type FeedItem struct {
	Kind string `json:"kind"` // idea or post
	Idea *Idea  `json:"idea,omitempty"`
	Post *Post  `json:"post,omitempty"`
}
