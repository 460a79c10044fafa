package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_WithDefaults(t *testing.T) {
	t.Run("zero config gets all defaults", func(t *testing.T) {
		cfg := Config{}.withDefaults()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("configured values are kept", func(t *testing.T) {
		cfg := Config{Workers: 8, RetryDelay: 5 * time.Second}.withDefaults()

		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, 5*time.Second, cfg.RetryDelay)
		assert.Equal(t, DefaultConfig().ReleaseAfter, cfg.ReleaseAfter)
	})
}
