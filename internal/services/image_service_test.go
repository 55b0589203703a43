package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	resp "wayfare/internal/models/response_models"
	mem "wayfare/pkg/memcache"
)

type countingProvider struct {
	calls atomic.Int32
	url   string
	err   error
	delay time.Duration
}

func (p *countingProvider) FindImage(ctx context.Context, place string) (string, error) {
	p.calls.Add(1)
	time.Sleep(p.delay)
	return p.url, p.err
}

func newImageService(p ImageProvider) ImageServiceInterface {
	return NewImageService(p, mem.NewTTLStore[resp.ImageResponse](100), time.Hour, zap.NewNop())
}

func TestLookupCollapsesConcurrentCalls(t *testing.T) {
	p := &countingProvider{url: "https://img.example/phuket.jpg", delay: 50 * time.Millisecond}
	svc := newImageService(p)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := svc.Lookup(context.Background(), "Phuket")
			assert.Equal(t, "https://img.example/phuket.jpg", out.URL)
		}()
	}
	wg.Wait()

	svc.Lookup(context.Background(), " phuket ")
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestLookupDegradesToStablePlaceholder(t *testing.T) {
	svc := newImageService(&countingProvider{err: errors.New("rate limited")})
	first := svc.Lookup(context.Background(), "Chiang Mai")
	assert.True(t, first.Placeholder)
	assert.NotEmpty(t, first.URL)

	other := newImageService(&countingProvider{})
	second := other.Lookup(context.Background(), "Chiang Mai")
	assert.True(t, second.Placeholder)
	assert.Equal(t, first.URL, second.URL)

	none := newImageService(nil).Lookup(context.Background(), "")
	assert.True(t, none.Placeholder)
}

func TestHTTPImageProviderReadsNestedURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Krabi", r.URL.Query().Get("query"))
		assert.Equal(t, "Client-ID secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"urls":{"regular":"https://img.example/krabi.jpg"}}]}`))
	}))
	defer srv.Close()

	url, err := NewHTTPImageProvider(srv.URL, "secret", time.Second).FindImage(context.Background(), "Krabi")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/krabi.jpg", url)
}
