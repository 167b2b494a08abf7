package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"movieexplorer/src/utils"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
)

const (
	cachePrefix   = "image_cache:"
	maxImageBytes = 10 << 20
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore holds downloaded images.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, string, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

func (m *MinioStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	defer obj.Close()
	stat, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", err
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", err
	}
	return data, stat.ContentType, nil
}

func (m *MinioStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

type ImageOptions struct {
	Redis      *redis.Client
	Store      ObjectStore
	Origin     string
	HTTPClient *http.Client
	CacheTTL   time.Duration
	Logger     *slog.Logger
}

// ImageService proxies poster and banner images: redis first, then object
// storage, then a download from the image origin that is kept for next time.
type ImageService struct {
	rdb      *redis.Client
	store    ObjectStore
	origin   string
	http     *http.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

type Image struct {
	Data        []byte
	ContentType string
}

func NewImageService(opts ImageOptions) *ImageService {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 6 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &ImageService{
		rdb:      opts.Redis,
		store:    opts.Store,
		origin:   strings.TrimRight(opts.Origin, "/"),
		http:     opts.HTTPClient,
		cacheTTL: opts.CacheTTL,
		logger:   opts.Logger,
	}
}

// ObjectKey cleans a request path into a storage key. Paths escaping the
// root are rejected.
func ObjectKey(filePath string) (string, bool) {
	raw := strings.TrimPrefix(filePath, "/")
	if raw == "" {
		return "", false
	}
	for _, seg := range strings.Split(raw, "/") {
		if seg == ".." {
			return "", false
		}
	}
	key := strings.TrimPrefix(path.Clean("/"+raw), "/")
	return key, key != "" && key != "."
}

func (s *ImageService) Fetch(ctx context.Context, filePath string) (Image, *utils.ServiceError) {
	key, ok := ObjectKey(filePath)
	if !ok {
		return Image{}, &utils.ServiceError{StatusCode: http.StatusBadRequest, Message: "invalid filepath"}
	}
	cacheKey := cachePrefix + key

	// 1. redis
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cached) > 0 {
			s.logger.Debug("[Image] cache hit", slog.String("key", key))
			return Image{Data: cached, ContentType: http.DetectContentType(cached)}, nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Warn("[Image] cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	// 2. object storage
	if s.store != nil {
		data, contentType, err := s.store.Get(ctx, key)
		if err == nil {
			s.remember(ctx, cacheKey, data)
			return Image{Data: data, ContentType: contentType}, nil
		}
		if !errors.Is(err, ErrObjectNotFound) {
			s.logger.Warn("[Image] storage read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	// 3. origin
	img, err := s.download(ctx, key)
	if err != nil {
		s.logger.Warn("[Image] download failed", slog.String("key", key), slog.String("error", err.Error()))
		return Image{}, &utils.ServiceError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("image not found: %s", key),
		}
	}
	if s.store != nil {
		if err := s.store.Put(ctx, key, img.Data, img.ContentType); err != nil {
			s.logger.Warn("[Image] storage write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	s.remember(ctx, cacheKey, img.Data)
	return img, nil
}

func (s *ImageService) remember(ctx context.Context, cacheKey string, data []byte) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("[Image] cache write failed", slog.String("key", cacheKey), slog.String("error", err.Error()))
	}
}

func (s *ImageService) download(ctx context.Context, key string) (Image, error) {
	if s.origin == "" {
		return Image{}, errors.New("no image origin configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.origin+"/"+key, nil)
	if err != nil {
		return Image{}, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("bad status when downloading image: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return Image{}, err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return Image{Data: data, ContentType: contentType}, nil
}
