package news

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/core/common/validation"
	newsdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/news"
	"github.com/frahmantamala/mvd-portal/internal/store"
)

const (
	PlaceholderImage = "https://via.placeholder.com/400/200?text=News"

	dateLayout = "2006-01-02"
	// ruDateLayout is what older snapshots stored as the publication date.
	ruDateLayout = "02.01.2006"
)

type Service struct {
	articles *store.Collection[newsdm.Article]
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(s *store.Store, logger *slog.Logger) *Service {
	return &Service{
		articles: store.News(s),
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the articles, most recent publication date first.
func (s *Service) List(ctx context.Context) ([]newsdm.Article, error) {
	articles, err := s.articles.List(ctx, nil)
	if err != nil {
		s.logger.Error("failed to list news", "error", err)
		return nil, internal.FromStoreError(err, internal.ErrNewsNotFound)
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return published(articles[i]).After(published(articles[j]))
	})
	return articles, nil
}

func (s *Service) Get(ctx context.Context, id int64) (newsdm.Article, error) {
	a, err := s.articles.Get(ctx, id)
	if err != nil {
		return newsdm.Article{}, internal.FromStoreError(err, internal.ErrNewsNotFound)
	}
	return a, nil
}

// Create puts the article at the head of the feed. The date defaults to
// today and the image to a placeholder.
func (s *Service) Create(ctx context.Context, dto CreateArticleDTO) (newsdm.Article, error) {
	if verr := validation.Struct(dto); verr != nil {
		return newsdm.Article{}, verr
	}

	article := newsdm.Article{
		Title:   dto.Title,
		Excerpt: dto.Excerpt,
		Content: dto.Content,
		Image:   dto.Image,
		Author:  dto.Author,
		Date:    dto.Date,
	}
	if article.Date == "" {
		article.Date = s.now().Format(dateLayout)
	}
	if article.Image == "" {
		article.Image = PlaceholderImage
	}

	created, err := s.articles.Prepend(ctx, article)
	if err != nil {
		s.logger.Error("failed to create news", "error", err)
		return newsdm.Article{}, internal.FromStoreError(err, internal.ErrNewsNotFound)
	}
	s.logger.Info("news published", "news_id", created.ID, "title", created.Title)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch store.Patch) (newsdm.Article, error) {
	updated, err := s.articles.Update(ctx, id, patch)
	if err != nil {
		return newsdm.Article{}, internal.FromStoreError(err, internal.ErrNewsNotFound)
	}
	s.logger.Info("news updated", "news_id", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		return internal.FromStoreError(err, internal.ErrNewsNotFound)
	}
	s.logger.Info("news deleted", "news_id", id)
	return nil
}

func published(a newsdm.Article) time.Time {
	for _, layout := range []string{dateLayout, ruDateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, a.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
