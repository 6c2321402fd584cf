package transform

import "time"

// Raw shapes mirror the upstream wire format: Mongo-style "_id" keys,
// optional fields that may be missing entirely. Pointer fields distinguish
// "key absent" from "present but empty", which the feed classifier needs.

type RawUser struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	BirthYear    int       `json:"birthYear"`
	IsRegistered bool      `json:"isRegistered"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RawRating struct {
	CriterionID string `json:"criterionId"`
	UserID      string `json:"userId"`
	Value       int    `json:"value"`
}

type RawCriterion struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RawIdea struct {
	ID                string         `json:"_id"`
	Title             string         `json:"title"`
	Summary           string         `json:"summary"`
	Description       string         `json:"description"`
	Status            string         `json:"status"`
	CreatorIDs        []string       `json:"creatorIds"`
	Tags              []string       `json:"tags"`
	Location          string         `json:"location"`
	SupporterIDs      []string       `json:"supporterIds"`
	DiscussionIDs     []string       `json:"discussionIds"`
	RatingCriteria    []RawCriterion `json:"ratingCriteria"`
	Ratings           []RawRating    `json:"ratings"`
	SourceIdeas       []string       `json:"sourceIdeas"`
	SourcePosts       []string       `json:"sourcePosts"`
	SourceDiscussions []string       `json:"sourceDiscussions"`
	CreatedAt         time.Time      `json:"createdAt"`
}

type RawComment struct {
	ID        string    `json:"_id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	IsAnswer  bool      `json:"isAnswer"`
	CreatedAt time.Time `json:"createdAt"`
}

type RawPost struct {
	ID           string       `json:"_id"`
	AuthorID     string       `json:"authorId"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Tags         []string     `json:"tags"`
	Location     string       `json:"location"`
	TopicType    string       `json:"topicType"`
	IdeaID       string       `json:"ideaId"`
	SupporterIDs []string     `json:"supporterIds"`
	Comments     []RawComment `json:"comments"`
	SourcePosts  []string     `json:"sourcePosts"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// RawFeedItem is the mixed-feed wire shape before classification. Legacy
// payloads carry no kind tag; classification then falls back to key
// presence, so Description and Summary are pointers.
type RawFeedItem struct {
	ID          string  `json:"_id"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Description *string `json:"description"`
	Summary     *string `json:"summary"`
}
