package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/statusfx/internal/config"
	"github.com/udisondev/statusfx/internal/status"
)

func TestServiceOptions(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, status.DefaultOptions(), serviceOptions(cfg))

	cfg.Stun.Priority = 12
	cfg.Stun.Suffix = "Stun"
	cfg.Blocking.Speed = 3
	opts := serviceOptions(cfg)
	assert.Equal(t, 12, opts.StunPriority)
	assert.Equal(t, "Stun", opts.StunSuffix)
	assert.Equal(t, 3.0, opts.BlockSpeed)
}
