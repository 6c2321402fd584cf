package model

import "time"

// TopicType values for posts serving as discussion topics. A plain post has
// an empty TopicType; a discussion topic is a post attached to an idea with
// a non-empty type, rendered client-side as a DiscussionTopic.
const (
	TopicGeneral    = "general"
	TopicQuestion   = "question"
	TopicSuggestion = "suggestion"
	TopicTechnical  = "technical"
)

func ValidTopicType(t string) bool {
	switch t {
	case TopicGeneral, TopicQuestion, TopicSuggestion, TopicTechnical:
		return true
	}
	return false
}

// Post is a short free-text contribution. Support/report sets live in the
// feedback table; counts are always derived from it, never stored here.
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_post_author;not null"`
	Title     string    `gorm:"type:varchar(255)"` // discussion topics only
	Content   string    `gorm:"type:text;not null"`
	Tags      []string  `gorm:"serializer:json"`
	Location  string    `gorm:"type:varchar(255)"`
	TopicType string    `gorm:"type:varchar(16);index"` // empty for plain posts
	IdeaID    string    `gorm:"type:varchar(36);index"` // set when attached as a discussion
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }

// IsTopic reports whether the post doubles as a discussion topic.
func (p *Post) IsTopic() bool { return p.TopicType != "" }

// PostReply is an ordered reply on a post. IsAnswer carries accepted-answer
// semantics and is only set on replies of question topics.
type PostReply struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"type:varchar(36);index:idx_reply_post;not null"`
	AuthorID  string `gorm:"type:varchar(36);not null"`
	Content   string `gorm:"type:text;not null"`
	IsAnswer  bool
	CreatedAt time.Time `gorm:"index:idx_reply_post_created"`
	UpdatedAt time.Time
}

func (PostReply) TableName() string { return "post_replies" }
