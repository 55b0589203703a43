package memcache_fx

import (
	"go.uber.org/fx"
	resp "wayfare/internal/models/response_models"
	mem "wayfare/pkg/memcache"
)

var Module = fx.Provide(provideImageCache)

func provideImageCache() mem.Store[resp.ImageResponse] {
	return mem.NewTTLStore[resp.ImageResponse](5000)
}
