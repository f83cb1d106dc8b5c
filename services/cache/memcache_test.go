package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")
	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	err := mc.Set("catalog_rate_limited", []byte("300"), 2*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("catalog_rate_limited")
	assert.NoError(t, err)
	assert.Equal(t, "300", string(value))

	// The key is stored under the namespace prefix
	item, err := mc.client.Get(keyPrefix + "catalog_rate_limited")
	assert.NoError(t, err)
	assert.Equal(t, "300", string(item.Value))

	err = mc.Delete("catalog_rate_limited")
	assert.NoError(t, err)

	_, err = mc.Get("catalog_rate_limited")
	assert.Error(t, err)
}
