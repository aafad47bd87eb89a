package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// ObjectStore is the part of the S3 client used to store images.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// URLSigner issues temporary download links.
type URLSigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageService handles recipe image storage
type ImageService struct {
	db      *gorm.DB
	store   ObjectStore
	signer  URLSigner
	bucket  string
	baseURL string
	log     *zap.Logger
}

// NewImageService stores images in bucket. baseURL is the public prefix
// of stored objects.
func NewImageService(db *gorm.DB, store ObjectStore, signer URLSigner, bucket, baseURL string, log *zap.Logger) *ImageService {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &ImageService{
		db:      db,
		store:   store,
		signer:  signer,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// UploadRecipeImage stores an image for a recipe owned by actorID (or any
// recipe when the actor is an admin).
func (s *ImageService) UploadRecipeImage(ctx context.Context, actorID uuid.UUID, actorRole models.Role, recipeID uuid.UUID, contentType string, body io.Reader) (*models.RecipeImage, error) {
	ext, ok := imageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %q", ErrInvalidInput, contentType)
	}

	var r models.Recipe
	err := s.db.WithContext(ctx).Select("id", "owner_id").First(&r, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if r.OwnerID != actorID && actorRole != models.RoleAdmin {
		return nil, ErrForbidden
	}

	key := path.Join("recipe-images", recipeID.String(), uuid.New().String()+ext)
	if _, err := s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	image := &models.RecipeImage{
		RecipeID: recipeID,
		Key:      key,
		URL:      s.baseURL + "/" + key,
	}
	if err := s.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	s.log.Info("recipe image uploaded", zap.String("recipe_id", recipeID.String()), zap.String("key", key))
	return image, nil
}

// PresignedURL returns a link to key that stays valid for ttl.
func (s *ImageService) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.signer.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign image: %w", err)
	}
	return req.URL, nil
}

// ImageURL returns a presigned link for one of a recipe's images.
func (s *ImageService) ImageURL(ctx context.Context, recipeID, imageID uuid.UUID, ttl time.Duration) (string, error) {
	var image models.RecipeImage
	err := s.db.WithContext(ctx).First(&image, "id = ? AND recipe_id = ?", imageID, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrRecipeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}
	return s.PresignedURL(ctx, image.Key, ttl)
}
