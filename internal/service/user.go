package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ideosphere/ideosphere/internal/cache"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/transform"
	"github.com/ideosphere/ideosphere/pkg/errs"
)

type CreateUserInput struct {
	Name      string
	Email     string
	Password  string // empty for guest accounts
	Avatar    string
	Bio       string
	Location  string
	BirthYear int
}

// UserContent is the participated/supported split of a user's activity.
type UserContent struct {
	ParticipatedIdeas []transform.Idea `json:"participatedIdeas"`
	ParticipatedPosts []transform.Post `json:"participatedPosts"`
	SupportedIdeas    []transform.Idea `json:"supportedIdeas"`
	SupportedPosts    []transform.Post `json:"supportedPosts"`
}

// UserService implements accounts: email login, profiles, the content split
// and anonymizing deletion.
type UserService interface {
	Login(ctx context.Context, email, password string) (*transform.User, string, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*transform.User, string, error)
	GetProfile(ctx context.Context, id string) (*transform.User, error)
	GetUserContent(ctx context.Context, id string) (*UserContent, error)
	// DeleteUser anonymizes: the row survives so authored content keeps a
	// resolvable author, but every profile field is blanked.
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repos     Repos
	cache     *cache.SmartCache
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserService(repos Repos, c *cache.SmartCache, jwtSecret string, tokenTTL time.Duration) UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &userService{repos: repos, cache: c, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

func (s *userService) issueToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		Issuer:    "ideosphere",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// Login is an email lookup; accounts that carry a password hash must also
// present the matching password.
func (s *userService) Login(ctx context.Context, email, password string) (*transform.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, "", errs.Validation("email is required")
	}
	u, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", errs.Transport(err, "lookup %s", email)
	}
	if u == nil || u.Anonymized {
		return nil, "", errs.NotFound("no account for %s", email)
	}
	if u.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return nil, "", errs.Validation("wrong password")
		}
	}
	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", errs.Internal(err, "sign token")
	}
	view := transform.NewUser(u)
	return &view, token, nil
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*transform.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", errs.Validation("a valid email is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, "", errs.Validation("name is required")
	}
	existing, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", errs.Transport(err, "lookup %s", email)
	}
	if existing != nil {
		return nil, "", errs.Validation("an account already exists for %s", email)
	}

	u := &model.User{
		Name:         in.Name,
		Email:        email,
		Avatar:       in.Avatar,
		Bio:          in.Bio,
		Location:     in.Location,
		BirthYear:    in.BirthYear,
		IsRegistered: in.Password != "",
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", errs.Internal(err, "hash password")
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return nil, "", errs.Transport(err, "create user")
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", errs.Internal(err, "sign token")
	}
	view := transform.NewUser(u)
	return &view, token, nil
}

func (s *userService) GetProfile(ctx context.Context, id string) (*transform.User, error) {
	var cached transform.User
	if s.cache.Get(ctx, cache.UserProfile, []string{id}, &cached) {
		return &cached, nil
	}
	u, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Transport(err, "load user %s", id)
	}
	if u == nil {
		return nil, errs.NotFound("user %s not found", id)
	}
	view := transform.NewUser(u)
	s.cache.Set(ctx, cache.UserProfile, []string{id}, view)
	return &view, nil
}

func (s *userService) GetUserContent(ctx context.Context, id string) (*UserContent, error) {
	var cached UserContent
	if s.cache.Get(ctx, cache.UserContributions, []string{id}, &cached) {
		return &cached, nil
	}
	u, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Transport(err, "load user %s", id)
	}
	if u == nil {
		return nil, errs.NotFound("user %s not found", id)
	}

	content := &UserContent{
		ParticipatedIdeas: []transform.Idea{},
		ParticipatedPosts: []transform.Post{},
		SupportedIdeas:    []transform.Idea{},
		SupportedPosts:    []transform.Post{},
	}

	ideas, err := s.repos.Ideas.ListByCreator(ctx, id)
	if err != nil {
		return nil, errs.Transport(err, "load ideas of %s", id)
	}
	for i := range ideas {
		view, err := buildIdeaView(ctx, s.repos, &ideas[i])
		if err != nil {
			return nil, err
		}
		content.ParticipatedIdeas = append(content.ParticipatedIdeas, *view)
	}

	posts, err := s.repos.Posts.ListByAuthor(ctx, id)
	if err != nil {
		return nil, errs.Transport(err, "load posts of %s", id)
	}
	for i := range posts {
		if posts[i].IsTopic() {
			continue
		}
		view, err := buildPostView(ctx, s.repos, &posts[i])
		if err != nil {
			return nil, err
		}
		content.ParticipatedPosts = append(content.ParticipatedPosts, *view)
	}

	supportedIdeaIDs, err := s.repos.Feedback.ListContentIDs(ctx, id, model.KindIdea, model.FeedbackSupports)
	if err != nil {
		return nil, errs.Transport(err, "load supported ideas of %s", id)
	}
	supportedIdeas, err := s.repos.Ideas.ListByIDs(ctx, supportedIdeaIDs)
	if err != nil {
		return nil, errs.Transport(err, "resolve supported ideas")
	}
	for i := range supportedIdeas {
		view, err := buildIdeaView(ctx, s.repos, &supportedIdeas[i])
		if err != nil {
			return nil, err
		}
		content.SupportedIdeas = append(content.SupportedIdeas, *view)
	}

	supportedPostIDs, err := s.repos.Feedback.ListContentIDs(ctx, id, model.KindPost, model.FeedbackSupports)
	if err != nil {
		return nil, errs.Transport(err, "load supported posts of %s", id)
	}
	supportedPosts, err := s.repos.Posts.ListByIDs(ctx, supportedPostIDs)
	if err != nil {
		return nil, errs.Transport(err, "resolve supported posts")
	}
	for i := range supportedPosts {
		view, err := buildPostView(ctx, s.repos, &supportedPosts[i])
		if err != nil {
			return nil, err
		}
		content.SupportedPosts = append(content.SupportedPosts, *view)
	}

	s.cache.Set(ctx, cache.UserContributions, []string{id}, content)
	return content, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	u, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return errs.Transport(err, "load user %s", id)
	}
	if u == nil {
		return errs.NotFound("user %s not found", id)
	}

	u.Anonymized = true
	u.Name = "Deleted user"
	// keep the unique index happy across repeated deletions
	u.Email = "deleted+" + u.ID + "@ideosphere.invalid"
	u.PasswordHash = ""
	u.Avatar = ""
	u.Bio = ""
	u.Location = ""
	u.BirthYear = 0
	u.IsRegistered = false
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return errs.Transport(err, "anonymize user %s", id)
	}

	s.cache.Invalidate(ctx, cache.UserProfile, id)
	s.cache.InvalidateUserRelated(ctx, id)
	return nil
}
