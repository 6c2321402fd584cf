// Package transform converts raw wire shapes and storage rows into the
// canonical client-facing model. Everything here is pure: no I/O, no clocks,
// no globals.
package transform

import (
	"fmt"

	"github.com/ideosphere/ideosphere/internal/model"
)

// NewUser maps a storage row to its canonical shape. Anonymized accounts
// render as the placeholder profile.
func NewUser(m *model.User) User {
	if m == nil {
		return User{}
	}
	u := User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Avatar:       m.Avatar,
		Bio:          m.Bio,
		Location:     m.Location,
		BirthYear:    m.BirthYear,
		IsRegistered: m.IsRegistered,
		CreatedAt:    m.CreatedAt,
	}
	if m.Anonymized {
		u.Name = "Deleted user"
		u.Email = ""
		u.Avatar = ""
		u.Bio = ""
		u.Location = ""
		u.BirthYear = 0
	}
	return u
}

// NewReply assembles a reply with its resolved author and upvoter set.
func NewReply(m *model.PostReply, author *model.User, upvoters []string) Reply {
	r := Reply{
		ID:        m.ID,
		Content:   m.Content,
		IsAnswer:  m.IsAnswer,
		Upvoters:  emptyIfNil(upvoters),
		CreatedAt: m.CreatedAt,
	}
	r.Upvotes = len(r.Upvoters)
	if author != nil {
		u := NewUser(author)
		r.Author = &u
	}
	return r
}

// PostParts carries the relation rows a full post view is assembled from.
// Leave fields nil for progressive loading; they render as empty collections.
type PostParts struct {
	Author       *model.User
	Supporters   []string
	Replies      []Reply
	SourcePosts  []string
	SourceIdeas  []string
	DerivedPosts []string
	DerivedIdeas []string
}

// NewPost builds the canonical post view. SupportCount is always derived
// from the supporter set, never taken from the row.
func NewPost(m *model.Post, parts PostParts) Post {
	p := Post{
		ID:           m.ID,
		Title:        m.Title,
		Content:      m.Content,
		Tags:         emptyIfNil(m.Tags),
		Location:     m.Location,
		TopicType:    m.TopicType,
		IdeaID:       m.IdeaID,
		Supporters:   emptyIfNil(parts.Supporters),
		Replies:      parts.Replies,
		SourcePosts:  emptyIfNil(parts.SourcePosts),
		SourceIdeas:  emptyIfNil(parts.SourceIdeas),
		DerivedPosts: emptyIfNil(parts.DerivedPosts),
		DerivedIdeas: emptyIfNil(parts.DerivedIdeas),
		CreatedAt:    m.CreatedAt,
	}
	if p.Replies == nil {
		p.Replies = []Reply{}
	}
	p.SupportCount = len(p.Supporters)
	if parts.Author != nil {
		u := NewUser(parts.Author)
		p.Author = &u
	}
	return p
}

// IdeaParts carries the relation rows a full idea view is assembled from.
type IdeaParts struct {
	Creators          []model.User
	Supporters        []string
	DiscussionIDs     []string
	Criteria          []model.RatingCriterion
	Ratings           []model.Rating
	SourceIdeas       []string
	SourcePosts       []string
	SourceDiscussions []string
	DerivedIdeas      []string
}

// NewIdea builds the canonical idea view including per-criterion mean scores.
func NewIdea(m *model.Idea, parts IdeaParts) Idea {
	i := Idea{
		ID:                m.ID,
		Title:             m.Title,
		Summary:           m.Summary,
		Description:       m.Description,
		Status:            m.Status,
		Creators:          make([]User, 0, len(parts.Creators)),
		Tags:              emptyIfNil(m.Tags),
		Location:          m.Location,
		Supporters:        emptyIfNil(parts.Supporters),
		DiscussionIDs:     emptyIfNil(parts.DiscussionIDs),
		RatingCriteria:    make([]Criterion, 0, len(parts.Criteria)),
		Ratings:           make([]RatingEntry, 0, len(parts.Ratings)),
		SourceIdeas:       emptyIfNil(parts.SourceIdeas),
		SourcePosts:       emptyIfNil(parts.SourcePosts),
		SourceDiscussions: emptyIfNil(parts.SourceDiscussions),
		DerivedIdeas:      emptyIfNil(parts.DerivedIdeas),
		CreatedAt:         m.CreatedAt,
	}
	i.SupportCount = len(i.Supporters)
	for _, c := range parts.Creators {
		i.Creators = append(i.Creators, NewUser(&c))
	}
	for _, c := range parts.Criteria {
		i.RatingCriteria = append(i.RatingCriteria, Criterion{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	for _, r := range parts.Ratings {
		i.Ratings = append(i.Ratings, RatingEntry{CriterionID: r.CriterionID, UserID: r.UserID, Value: r.Value})
	}
	i.Scores = CriterionScores(parts.Ratings)
	return i
}

// NewDiscussionTopic renders a topic post plus its replies as a discussion.
func NewDiscussionTopic(m *model.Post, author *model.User, upvoters []string, posts []Reply) DiscussionTopic {
	t := DiscussionTopic{
		ID:        m.ID,
		IdeaID:    m.IdeaID,
		Title:     m.Title,
		Content:   m.Content,
		Type:      m.TopicType,
		Upvoters:  emptyIfNil(upvoters),
		Posts:     posts,
		CreatedAt: m.CreatedAt,
	}
	if t.Posts == nil {
		t.Posts = []Reply{}
	}
	t.Upvotes = len(t.Upvoters)
	if author != nil {
		u := NewUser(author)
		t.Author = &u
	}
	return t
}

// CriterionScores averages ratings per criterion.
func CriterionScores(ratings []model.Rating) map[string]float64 {
	sums := map[string]int{}
	counts := map[string]int{}
	for _, r := range ratings {
		sums[r.CriterionID] += r.Value
		counts[r.CriterionID]++
	}
	out := make(map[string]float64, len(sums))
	for id, sum := range sums {
		out[id] = float64(sum) / float64(counts[id])
	}
	return out
}

// FromRawUser converts an upstream user payload to a storage row. A missing
// id is a backend contract violation and fails loudly.
func FromRawUser(raw RawUser) (*model.User, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("raw user missing _id")
	}
	return &model.User{
		ID:           raw.ID,
		Name:         raw.Name,
		Email:        raw.Email,
		Avatar:       raw.Avatar,
		Bio:          raw.Bio,
		Location:     raw.Location,
		BirthYear:    raw.BirthYear,
		IsRegistered: raw.IsRegistered,
		CreatedAt:    raw.CreatedAt,
	}, nil
}

// FromRawPost converts an upstream post payload. Unknown author ids are
// tolerated (guest content), a missing post id is not.
func FromRawPost(raw RawPost) (*model.Post, []model.PostReply, error) {
	if raw.ID == "" {
		return nil, nil, fmt.Errorf("raw post missing _id")
	}
	p := &model.Post{
		ID:        raw.ID,
		AuthorID:  raw.AuthorID,
		Title:     raw.Title,
		Content:   raw.Content,
		Tags:      emptyIfNil(raw.Tags),
		Location:  raw.Location,
		TopicType: raw.TopicType,
		IdeaID:    raw.IdeaID,
		CreatedAt: raw.CreatedAt,
	}
	replies := make([]model.PostReply, 0, len(raw.Comments))
	for _, c := range raw.Comments {
		if c.ID == "" {
			return nil, nil, fmt.Errorf("raw comment on post %s missing _id", raw.ID)
		}
		replies = append(replies, model.PostReply{
			ID:        c.ID,
			PostID:    raw.ID,
			AuthorID:  c.AuthorID,
			Content:   c.Content,
			IsAnswer:  c.IsAnswer,
			CreatedAt: c.CreatedAt,
		})
	}
	return p, replies, nil
}

// FromRawIdea converts an upstream idea payload into its row set.
func FromRawIdea(raw RawIdea) (*model.Idea, []model.IdeaCreator, []model.RatingCriterion, []model.Rating, error) {
	if raw.ID == "" {
		return nil, nil, nil, nil, fmt.Errorf("raw idea missing _id")
	}
	status := raw.Status
	if status == "" {
		status = model.StatusPublished
	}
	idea := &model.Idea{
		ID:          raw.ID,
		Title:       raw.Title,
		Summary:     raw.Summary,
		Description: raw.Description,
		Status:      status,
		Tags:        emptyIfNil(raw.Tags),
		Location:    raw.Location,
		CreatedAt:   raw.CreatedAt,
	}
	creators := make([]model.IdeaCreator, 0, len(raw.CreatorIDs))
	for i, uid := range raw.CreatorIDs {
		creators = append(creators, model.IdeaCreator{IdeaID: raw.ID, UserID: uid, Position: i})
	}
	criteria := make([]model.RatingCriterion, 0, len(raw.RatingCriteria))
	for i, c := range raw.RatingCriteria {
		criteria = append(criteria, model.RatingCriterion{ID: c.ID, IdeaID: raw.ID, Name: c.Name, Description: c.Description, Position: i})
	}
	ratings := make([]model.Rating, 0, len(raw.Ratings))
	for _, r := range raw.Ratings {
		ratings = append(ratings, model.Rating{IdeaID: raw.ID, CriterionID: r.CriterionID, UserID: r.UserID, Value: r.Value})
	}
	return idea, creators, criteria, ratings, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
