package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/storage/gcs"
)

const objectPrefix = "images/"

// ImageDTO describes one stored image.
type ImageDTO struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadResult carries the public URL of a stored image.
type UploadResult struct {
	URL string `json:"url"`
}

// ImageListing is the response shape for image listings.
type ImageListing struct {
	Total  int        `json:"total"`
	Images []ImageDTO `json:"images"`
}

type objectStore interface {
	UploadObject(ctx context.Context, bucket, objectName, contentType string, body io.Reader) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]gcs.ObjectInfo, error)
	PublicURL(bucket, objectName string) string
	DefaultBucket() string
}

// Service stores and lists uploaded images.
type Service interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*UploadResult, error)
	List(ctx context.Context) (*ImageListing, error)
}

type service struct {
	store objectStore
}

func NewService(store objectStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &service{store: store}, nil
}

// Upload stores the image under a collision-free object name and returns its
// public URL.
func (s *service) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*UploadResult, error) {
	base := sanitizeFilename(filename)
	if base == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}

	objectName := fmt.Sprintf("%s%s-%s", objectPrefix, uuid.NewString(), base)
	url, err := s.store.UploadObject(ctx, s.store.DefaultBucket(), objectName, contentType, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading image")
	}
	return &UploadResult{URL: url}, nil
}

// List returns every stored image with its public URL.
func (s *service) List(ctx context.Context) (*ImageListing, error) {
	bucket := s.store.DefaultBucket()
	objects, err := s.store.ListObjects(ctx, bucket, objectPrefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing images")
	}

	images := make([]ImageDTO, 0, len(objects))
	for _, obj := range objects {
		images = append(images, ImageDTO{
			Name:      strings.TrimPrefix(obj.Name, objectPrefix),
			URL:       s.store.PublicURL(bucket, obj.Name),
			CreatedAt: obj.CreatedAt,
		})
	}
	return &ImageListing{Total: len(images), Images: images}, nil
}

// sanitizeFilename strips any path components and whitespace from the
// client-supplied name.
func sanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSpace(base)
	if base == "." || base == "/" {
		return ""
	}
	return strings.ReplaceAll(base, " ", "_")
}
