package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 6, cfg.Dashboard.RecentCoursesLimit)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, int64(500*1024*1024), cfg.Media.MaxVideoSizeBytes)
	assert.Equal(t, []string{"video/mp4", "video/webm", "video/ogg", "video/quicktime"}, cfg.Media.AllowedVideoMIMEs)
	assert.Equal(t, int64(40000000), cfg.Media.ThumbnailMaxPixels)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "learnhub:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "90m")
	t.Setenv("MEDIA_SIGNED_URL_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, 90*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, 2*time.Hour, cfg.Media.SignedURLTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}
