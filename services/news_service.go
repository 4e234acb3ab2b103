package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
	"github.com/tcs-suzini/club-backend/storage"
)

type NewsService interface {
	List(ctx context.Context) ([]models.News, error)
	Create(ctx context.Context, author *models.User, input CreateNewsInput) (*models.News, error)
	Update(ctx context.Context, id string, patch NewsPatch) (*models.News, error)
	Delete(ctx context.Context, id string) error
	// UploadImage stores the image through the configured uploader and sets
	// image_url on the post.
	UploadImage(ctx context.Context, id string, file io.Reader, size int64, contentType string) (*models.News, error)
}

type CreateNewsInput struct {
	Title    string  `json:"titre"`
	Content  string  `json:"contenu"`
	ImageURL *string `json:"image_url"`
}

// NewsPatch is a partial update: only non-nil fields are applied.
type NewsPatch struct {
	Title    *string `json:"titre"`
	Content  *string `json:"contenu"`
	ImageURL *string `json:"image_url"`
}

func (p NewsPatch) isEmpty() bool {
	return p.Title == nil && p.Content == nil && p.ImageURL == nil
}

type newsService struct {
	newsRepo repositories.NewsRepository
	uploader storage.Uploader
}

func NewNewsService(newsRepo repositories.NewsRepository, uploader storage.Uploader) NewsService {
	return &newsService{newsRepo: newsRepo, uploader: uploader}
}

func (s *newsService) List(ctx context.Context) ([]models.News, error) {
	return s.newsRepo.List(ctx, repositories.DefaultListLimit)
}

func (s *newsService) Create(ctx context.Context, author *models.User, input CreateNewsInput) (*models.News, error) {
	if input.Title == "" || input.Content == "" {
		return nil, fmt.Errorf("%w: titre and contenu are required", ErrValidationFailed)
	}

	news := &models.News{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Content:     input.Content,
		AuthorID:    author.ID,
		AuthorName:  fmt.Sprintf("%s %s", author.FirstName, author.LastName),
		PublishedAt: time.Now().UTC(),
		ImageURL:    input.ImageURL,
	}

	if err := s.newsRepo.Create(ctx, news); err != nil {
		return nil, fmt.Errorf("failed to create news post: %w", err)
	}
	return news, nil
}

func (s *newsService) Update(ctx context.Context, id string, patch NewsPatch) (*models.News, error) {
	if patch.isEmpty() {
		return nil, ErrNoUpdatableFields
	}

	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}

	if patch.Title != nil {
		news.Title = *patch.Title
	}
	if patch.Content != nil {
		news.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		news.ImageURL = patch.ImageURL
	}

	if err := s.newsRepo.Update(ctx, news); err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return news, nil
}

func (s *newsService) Delete(ctx context.Context, id string) error {
	if err := s.newsRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return ErrNewsNotFound
		}
		return err
	}
	return nil
}

func (s *newsService) UploadImage(ctx context.Context, id string, file io.Reader, size int64, contentType string) (*models.News, error) {
	if s.uploader == nil {
		return nil, ErrUploaderNotConfigured
	}

	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("news/%s", news.ID)
	url, err := s.uploader.Upload(ctx, key, file, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	news.ImageURL = &url
	if err := s.newsRepo.Update(ctx, news); err != nil {
		return nil, err
	}
	return news, nil
}
