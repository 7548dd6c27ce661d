package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("overwrites all bytes", func(t *testing.T) {
		b := []byte("sensitive-key-material")
		Zero(b)
		for i, v := range b {
			assert.Zero(t, v, "byte %d not cleared", i)
		}
	})

	t.Run("nil slice is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() { Zero(nil) })
	})
}
