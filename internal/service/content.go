package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ideosphere/ideosphere/internal/cache"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/transform"
	"github.com/ideosphere/ideosphere/pkg/errs"
	"github.com/ideosphere/ideosphere/pkg/logger"
)

// CreateIdeaInput is the publish payload for an idea. Source refs may be
// bare keys or qualified "{collection}/{key}" ids.
type CreateIdeaInput struct {
	Title             string
	Summary           string
	Description       string
	Status            string
	CreatorIDs        []string
	Tags              []string
	Location          string
	Criteria          []string
	SourceIdeas       []string
	SourcePosts       []string
	SourceDiscussions []string
}

type CreatePostInput struct {
	AuthorID  string
	Content   string
	Tags      []string
	Location  string
	SourceIDs []string // qualified refs
}

type CreateTopicInput struct {
	IdeaID   string
	AuthorID string
	Title    string
	Content  string
	Type     string
}

// ContentService implements publish actions and detail reads.
type ContentService interface {
	CreateIdea(ctx context.Context, in CreateIdeaInput) (*transform.Idea, error)
	CreatePost(ctx context.Context, in CreatePostInput) (*transform.Post, error)
	GetIdea(ctx context.Context, id string) (*transform.Idea, error)
	GetPost(ctx context.Context, id string) (*transform.Post, error)
	CreateDiscussionTopic(ctx context.Context, in CreateTopicInput) (*transform.DiscussionTopic, error)
	GetDiscussion(ctx context.Context, topicID string) (*transform.DiscussionTopic, error)
	ListIdeaDiscussions(ctx context.Context, ideaID string) ([]transform.DiscussionTopic, error)
}

type contentService struct {
	repos Repos
	cache *cache.SmartCache
}

func NewContentService(repos Repos, c *cache.SmartCache) ContentService {
	return &contentService{repos: repos, cache: c}
}

// AggregateSourceIDs combines the three source arrays into the single
// ordered sourceIds list the wire contract expects: ideas, then posts, then
// discussions, duplicates kept.
func AggregateSourceIDs(sourceIdeas, sourcePosts, sourceDiscussions []string) []string {
	out := make([]string, 0, len(sourceIdeas)+len(sourcePosts)+len(sourceDiscussions))
	for _, id := range sourceIdeas {
		out = append(out, qualify(id, model.KindIdea))
	}
	for _, id := range sourcePosts {
		out = append(out, qualify(id, model.KindPost))
	}
	for _, id := range sourceDiscussions {
		out = append(out, qualify(id, model.KindDiscussion))
	}
	return out
}

func qualify(id string, fallback model.ContentKind) string {
	if strings.Contains(id, "/") {
		return id
	}
	return fallback.Collection() + "/" + id
}

// sourceEdges parses qualified source ids into lineage edge rows pointing at
// the new child, preserving declaration order.
func sourceEdges(sourceIDs []string, childKind model.ContentKind, childID string) ([]model.LineageEdge, error) {
	edges := make([]model.LineageEdge, 0, len(sourceIDs))
	for i, qualified := range sourceIDs {
		ref, err := model.ParseRef(qualified, "")
		if err != nil {
			return nil, errs.Validation("bad source id %q: %v", qualified, err)
		}
		edges = append(edges, model.LineageEdge{
			ParentKind: ref.Kind,
			ParentID:   ref.Key,
			ChildKind:  childKind,
			ChildID:    childID,
			Position:   i,
		})
	}
	return edges, nil
}

func (s *contentService) CreateIdea(ctx context.Context, in CreateIdeaInput) (*transform.Idea, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errs.Validation("idea title is required")
	}
	if len(in.CreatorIDs) == 0 {
		return nil, errs.Validation("idea needs at least one creator")
	}
	status := in.Status
	if status == "" {
		status = model.StatusPublished
	}
	if !model.ValidIdeaStatus(status) {
		return nil, errs.Validation("unknown idea status %q", status)
	}
	for _, uid := range in.CreatorIDs {
		u, err := s.repos.Users.GetByID(ctx, uid)
		if err != nil {
			return nil, errs.Transport(err, "resolve creator %s", uid)
		}
		if u == nil {
			return nil, errs.NotFound("creator %s not found", uid)
		}
	}

	tags := in.Tags
	if len(tags) == 0 {
		tags = transform.ExtractHashtags(in.Title + " " + in.Summary + " " + in.Description)
	}

	idea := &model.Idea{
		Title:       in.Title,
		Summary:     in.Summary,
		Description: in.Description,
		Status:      status,
		Tags:        tags,
		Location:    in.Location,
	}
	creators := make([]model.IdeaCreator, len(in.CreatorIDs))
	for i, uid := range in.CreatorIDs {
		creators[i] = model.IdeaCreator{UserID: uid, Position: i}
	}
	criteria := make([]model.RatingCriterion, len(in.Criteria))
	for i, name := range in.Criteria {
		criteria[i] = model.RatingCriterion{Name: name, Position: i}
	}
	// parse source references before persisting anything, so a bad
	// sourceIds entry rejects the whole create
	sourceIDs := AggregateSourceIDs(in.SourceIdeas, in.SourcePosts, in.SourceDiscussions)
	edges, err := sourceEdges(sourceIDs, model.KindIdea, "")
	if err != nil {
		return nil, err
	}

	if err := s.repos.Ideas.Create(ctx, idea, creators, criteria); err != nil {
		return nil, errs.Transport(err, "create idea")
	}
	for i := range edges {
		edges[i].ChildID = idea.ID
	}
	if err := s.repos.Lineage.CreateEdges(ctx, edges); err != nil {
		return nil, errs.Transport(err, "link idea sources")
	}

	s.cache.InvalidateIdeaRelated(ctx, idea.ID)
	for _, uid := range in.CreatorIDs {
		s.cache.InvalidateUserRelated(ctx, uid)
	}
	logger.Info("idea created", zap.String("idea", idea.ID), zap.Int("sources", len(edges)))
	return buildIdeaView(ctx, s.repos, idea)
}

func (s *contentService) CreatePost(ctx context.Context, in CreatePostInput) (*transform.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, errs.Validation("post content is required")
	}
	author, err := s.repos.Users.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, errs.Transport(err, "resolve author %s", in.AuthorID)
	}
	if author == nil {
		return nil, errs.NotFound("author %s not found", in.AuthorID)
	}

	tags := in.Tags
	if len(tags) == 0 {
		tags = transform.ExtractHashtags(in.Content)
	}

	post := &model.Post{
		AuthorID: in.AuthorID,
		Content:  in.Content,
		Tags:     tags,
		Location: in.Location,
	}
	edges, err := sourceEdges(in.SourceIDs, model.KindPost, "")
	if err != nil {
		return nil, err
	}

	if err := s.repos.Posts.Create(ctx, post); err != nil {
		return nil, errs.Transport(err, "create post")
	}
	for i := range edges {
		edges[i].ChildID = post.ID
	}
	if err := s.repos.Lineage.CreateEdges(ctx, edges); err != nil {
		return nil, errs.Transport(err, "link post sources")
	}

	s.cache.InvalidatePostRelated(ctx, post.ID)
	s.cache.InvalidateUserRelated(ctx, in.AuthorID)
	return buildPostView(ctx, s.repos, post)
}

func (s *contentService) GetIdea(ctx context.Context, id string) (*transform.Idea, error) {
	var cached transform.Idea
	if s.cache.Get(ctx, cache.IdeaDetails, []string{id}, &cached) {
		return &cached, nil
	}
	idea, err := s.repos.Ideas.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Transport(err, "load idea %s", id)
	}
	if idea == nil {
		return nil, errs.NotFound("idea %s not found", id)
	}
	view, err := buildIdeaView(ctx, s.repos, idea)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.IdeaDetails, []string{id}, view)
	return view, nil
}

func (s *contentService) GetPost(ctx context.Context, id string) (*transform.Post, error) {
	var cached transform.Post
	if s.cache.Get(ctx, cache.PostDetails, []string{id}, &cached) {
		return &cached, nil
	}
	post, err := s.repos.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Transport(err, "load post %s", id)
	}
	if post == nil {
		return nil, errs.NotFound("post %s not found", id)
	}
	view, err := buildPostView(ctx, s.repos, post)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.PostDetails, []string{id}, view)
	return view, nil
}

func (s *contentService) CreateDiscussionTopic(ctx context.Context, in CreateTopicInput) (*transform.DiscussionTopic, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errs.Validation("topic title is required")
	}
	if !model.ValidTopicType(in.Type) {
		return nil, errs.Validation("unknown topic type %q", in.Type)
	}
	idea, err := s.repos.Ideas.GetByID(ctx, in.IdeaID)
	if err != nil {
		return nil, errs.Transport(err, "resolve idea %s", in.IdeaID)
	}
	if idea == nil {
		return nil, errs.NotFound("idea %s not found", in.IdeaID)
	}
	author, err := s.repos.Users.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, errs.Transport(err, "resolve author %s", in.AuthorID)
	}
	if author == nil {
		return nil, errs.NotFound("author %s not found", in.AuthorID)
	}

	topic := &model.Post{
		AuthorID:  in.AuthorID,
		Title:     in.Title,
		Content:   in.Content,
		TopicType: in.Type,
		IdeaID:    in.IdeaID,
	}
	if err := s.repos.Posts.Create(ctx, topic); err != nil {
		return nil, errs.Transport(err, "create discussion topic")
	}

	s.cache.InvalidateDiscussionRelated(ctx, topic.ID, in.IdeaID)
	return s.buildTopicView(ctx, topic)
}

func (s *contentService) GetDiscussion(ctx context.Context, topicID string) (*transform.DiscussionTopic, error) {
	var cached transform.DiscussionTopic
	if s.cache.Get(ctx, cache.Discussion, []string{topicID}, &cached) {
		return &cached, nil
	}
	topic, err := s.repos.Posts.GetByID(ctx, topicID)
	if err != nil {
		return nil, errs.Transport(err, "load discussion %s", topicID)
	}
	if topic == nil || !topic.IsTopic() {
		return nil, errs.NotFound("discussion %s not found", topicID)
	}
	view, err := s.buildTopicView(ctx, topic)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.Discussion, []string{topicID}, view)
	return view, nil
}

func (s *contentService) ListIdeaDiscussions(ctx context.Context, ideaID string) ([]transform.DiscussionTopic, error) {
	topics, err := s.repos.Posts.ListTopicsByIdea(ctx, ideaID)
	if err != nil {
		return nil, errs.Transport(err, "load discussions for idea %s", ideaID)
	}
	views := make([]transform.DiscussionTopic, 0, len(topics))
	for i := range topics {
		v, err := s.buildTopicView(ctx, &topics[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (s *contentService) buildTopicView(ctx context.Context, topic *model.Post) (*transform.DiscussionTopic, error) {
	author, err := s.repos.Users.GetByID(ctx, topic.AuthorID)
	if err != nil {
		return nil, errs.Transport(err, "load topic author")
	}
	upvoters, err := s.repos.Feedback.ListUserIDs(ctx, model.KindDiscussion, topic.ID, model.FeedbackLikes)
	if err != nil {
		return nil, errs.Transport(err, "load topic upvoters")
	}
	replyRows, err := s.repos.Posts.ListReplies(ctx, topic.ID)
	if err != nil {
		return nil, errs.Transport(err, "load topic posts")
	}
	posts, err := buildReplyViews(ctx, s.repos, replyRows)
	if err != nil {
		return nil, err
	}
	view := transform.NewDiscussionTopic(topic, author, upvoters, posts)
	return &view, nil
}
