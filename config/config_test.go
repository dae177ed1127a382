package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp_test_secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "INR", cfg.Razorpay.Currency)
	assert.Equal(t, "bolt", cfg.Cart.Backend)
	assert.Equal(t, "none", cfg.Events.Broker)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("CART_BACKEND", "redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("EVENT_BROKER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "redis", cfg.Cart.Backend)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "missing jwt secret", env: map[string]string{"JWT_SECRET": ""}, wantErr: "JWT_SECRET is required"},
		{name: "missing razorpay secret", env: map[string]string{"RAZORPAY_KEY_SECRET": ""}, wantErr: "RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required"},
		{name: "unknown cart backend", env: map[string]string{"CART_BACKEND": "memcached"}, wantErr: "CART_BACKEND"},
		{name: "unknown broker", env: map[string]string{"EVENT_BROKER": "rabbit"}, wantErr: "EVENT_BROKER"},
		{name: "bad timeout", env: map[string]string{"REQUEST_TIMEOUT": "soon"}, wantErr: "invalid REQUEST_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
