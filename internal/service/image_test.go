package service_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/testhelpers"
)

type mockS3 struct {
	mock.Mock
	uploaded []byte
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(*params.Bucket, *params.ContentType)
	if params.Body != nil {
		m.uploaded, _ = io.ReadAll(params.Body)
	}
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	args := m.Called(*params.Key)
	return &v4.PresignedHTTPRequest{URL: args.String(0)}, args.Error(1)
}

func TestUploadRecipeImage(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := &mockS3{}
	store.On("PutObject", "recipes-bucket", "image/png").Return(nil)
	svc := service.NewImageService(db, store, store, "recipes-bucket", "https://cdn.example.com/", zap.NewNop())
	ctx := context.Background()

	owner := testhelpers.CreateUser(t, db)
	stranger := testhelpers.CreateUser(t, db)
	r := testhelpers.CreateRecipe(t, db, owner.ID, testhelpers.RecipeFixture{})

	image, err := svc.UploadRecipeImage(ctx, owner.ID, models.RolePlain, r.ID, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), store.uploaded)
	assert.True(t, strings.HasPrefix(image.Key, "recipe-images/"+r.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(image.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+image.Key, image.URL)
	store.AssertExpectations(t)

	_, err = svc.UploadRecipeImage(ctx, stranger.ID, models.RolePlain, r.ID, "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = svc.UploadRecipeImage(ctx, owner.ID, models.RolePlain, r.ID, "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.UploadRecipeImage(ctx, owner.ID, models.RolePlain, uuid.New(), "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
	store.AssertNumberOfCalls(t, "PutObject", 1)

	store.On("PresignGetObject", image.Key).Return("https://signed.example.com/x", nil)
	url, err := svc.ImageURL(ctx, r.ID, image.ID, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/x", url)
}
