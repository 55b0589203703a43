package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	resp "wayfare/internal/models/response_models"
	mem "wayfare/pkg/memcache"
	"wayfare/pkg/metrics"
	"wayfare/pkg/utils"
)

// ImageProvider returns one image URL for a place, or "" when it has none.
type ImageProvider interface {
	FindImage(ctx context.Context, place string) (string, error)
}

type ImageServiceInterface interface {
	Lookup(ctx context.Context, place string) resp.ImageResponse
}

type ImageService struct {
	provider ImageProvider
	cache    mem.Store[resp.ImageResponse]
	group    singleflight.Group
	ttl      time.Duration
	logger   *zap.Logger
}

func NewImageService(provider ImageProvider, cache mem.Store[resp.ImageResponse], ttl time.Duration, logger *zap.Logger) ImageServiceInterface {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &ImageService{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Lookup never fails. Provider errors and empty results fall back to a
// placeholder derived from the place name.
func (s *ImageService) Lookup(ctx context.Context, place string) resp.ImageResponse {
	key := strings.ToLower(strings.TrimSpace(place))
	if key == "" {
		metrics.ImageLookups.WithLabelValues("placeholder").Inc()
		return placeholder(place)
	}

	if cached, ok := s.cache.Get(key); ok {
		metrics.ImageLookups.WithLabelValues("cache").Inc()
		return cached
	}

	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
		out := s.fetch(ctx, place)
		s.cache.Set(key, out, s.ttl)
		return out, nil
	})
	return v.(resp.ImageResponse)
}

func (s *ImageService) fetch(ctx context.Context, place string) resp.ImageResponse {
	if s.provider == nil {
		metrics.ImageLookups.WithLabelValues("placeholder").Inc()
		return placeholder(place)
	}
	imageURL, err := s.provider.FindImage(ctx, place)
	if err != nil {
		s.logger.Warn("image provider failed", zap.String("place", place), zap.Error(err))
	}
	if err != nil || imageURL == "" {
		metrics.ImageLookups.WithLabelValues("placeholder").Inc()
		return placeholder(place)
	}
	metrics.ImageLookups.WithLabelValues("provider").Inc()
	return resp.ImageResponse{Place: place, URL: imageURL}
}

func placeholder(place string) resp.ImageResponse {
	return resp.ImageResponse{
		Place:       place,
		URL:         utils.PlaceholderImageURL(place),
		Placeholder: true,
	}
}

// HTTPImageProvider queries a search API shaped like Unsplash or Pexels.
type HTTPImageProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPImageProvider(baseURL, apiKey string, timeout time.Duration) *HTTPImageProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPImageProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPImageProvider) FindImage(ctx context.Context, place string) (string, error) {
	q := url.Values{}
	q.Set("query", place)
	q.Set("per_page", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Client-ID "+p.apiKey)
	}

	res, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("image search: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image search: status %d", res.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode image search: %w", err)
	}
	return firstImageURL(body), nil
}

// firstImageURL walks results/photos and returns the first usable link.
func firstImageURL(body map[string]any) string {
	for _, listKey := range []string{"results", "photos", "images", "data"} {
		list, ok := body[listKey].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		item, ok := list[0].(map[string]any)
		if !ok {
			continue
		}
		for _, nested := range []string{"urls", "src"} {
			if m, ok := item[nested].(map[string]any); ok {
				for _, k := range []string{"regular", "large", "medium", "original", "small"} {
					if s, ok := m[k].(string); ok && s != "" {
						return s
					}
				}
			}
		}
		for _, k := range []string{"url", "image_url", "link"} {
			if s, ok := item[k].(string); ok && s != "" {
				return s
			}
		}
	}
	if s, ok := body["url"].(string); ok {
		return s
	}
	return ""
}
