// Package review stores customer reviews. Only the author of a review may delete it.
package review

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"attar-store/internal/domain"
	"attar-store/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnauthenticated = errors.New("review requires a signed-in user")

var validate = validator.New()

// Submission is what a shopper enters for a new review
type Submission struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

// ValidationError flags the submission fields that were rejected
type ValidationError struct {
	Rating  bool `json:"rating"`
	Comment bool `json:"comment"`
}

func (e *ValidationError) Error() string {
	switch {
	case e.Rating && e.Comment:
		return "review needs a rating between 1 and 5 and a comment"
	case e.Rating:
		return "review needs a rating between 1 and 5"
	default:
		return "review needs a comment"
	}
}

// Validate trims the comment and checks the rating range
func Validate(sub Submission) (Submission, error) {
	sub.Comment = strings.TrimSpace(sub.Comment)

	err := validate.Struct(sub)
	if err == nil {
		return sub, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return sub, fmt.Errorf("failed to validate review: %w", err)
	}

	verr := &ValidationError{}
	for _, fe := range verrs {
		switch fe.StructField() {
		case "Rating":
			verr.Rating = true
		case "Comment":
			verr.Comment = true
		}
	}
	return sub, verr
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the creation-time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides how review ids are assigned
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// Store holds the reviews written from one client, newest first
type Store struct {
	mu       sync.Mutex
	repo     repository.ReviewRepository
	clientID string
	reviews  []domain.Review
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
}

// Open loads the reviews saved for clientID. Malformed storage starts empty.
func Open(ctx context.Context, repo repository.ReviewRepository, clientID string, logger *zap.Logger, opts ...Option) (*Store, error) {
	reviews, err := repo.Load(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to open reviews: %w", err)
	}

	s := &Store{
		repo:     repo,
		clientID: clientID,
		reviews:  reviews,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   logger.With(zap.String("client_id", clientID)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Add records a review by author for productID. The author's name and picture
// are copied onto the review and never re-read.
func (s *Store) Add(ctx context.Context, author *domain.User, productID string, sub Submission) (domain.Review, error) {
	if author == nil || author.ID == "" {
		return domain.Review{}, ErrUnauthenticated
	}

	sub, err := Validate(sub)
	if err != nil {
		return domain.Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := domain.Review{
		ID:            s.newID(),
		ProductID:     productID,
		UserID:        author.ID,
		AuthorName:    author.Name,
		AuthorPicture: author.Picture,
		Rating:        sub.Rating,
		Comment:       sub.Comment,
		CreatedAt:     s.now().UTC(),
	}
	s.reviews = append([]domain.Review{r}, s.reviews...)
	s.persist(ctx)

	s.logger.Info("Review added",
		zap.String("review_id", r.ID),
		zap.String("product_id", productID),
		zap.String("user_id", author.ID),
	)
	return r, nil
}

// Delete removes the review when caller wrote it and reports whether anything changed.
// A missing review or a different caller leaves the store untouched.
func (s *Store) Delete(ctx context.Context, reviewID string, caller *domain.User) bool {
	if caller == nil || caller.ID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.reviews, func(r domain.Review) bool {
		return r.ID == reviewID
	})
	if i < 0 {
		return false
	}
	if s.reviews[i].UserID != caller.ID {
		s.logger.Warn("Ignoring delete of another user's review",
			zap.String("review_id", reviewID),
			zap.String("user_id", caller.ID),
		)
		return false
	}

	s.reviews = slices.Delete(slices.Clone(s.reviews), i, i+1)
	s.persist(ctx)
	return true
}

// ForProduct returns the reviews of productID, most recent first
func (s *Store) ForProduct(productID string) []domain.Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Review{}
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Review) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Summary averages the ratings of productID; no reviews yields zero
func (s *Store) Summary(productID string) domain.RatingSummary {
	reviews := s.ForProduct(productID)
	if len(reviews) == 0 {
		return domain.RatingSummary{}
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return domain.RatingSummary{
		Average: float64(sum) / float64(len(reviews)),
		Count:   len(reviews),
	}
}

func (s *Store) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.clientID, s.reviews); err != nil {
		s.logger.Error("Failed to persist reviews", zap.Error(err))
	}
}
