package fzero

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	opts := Defaults()
	assert.Equal(t, DefaultSeed, opts.Seed)
	assert.Equal(t, 64, opts.MaxDepth)
	assert.NoError(t, opts.Validate())
}

func TestValidateDepth(t *testing.T) {
	opts := Defaults()
	opts.MaxDepth = 0
	assert.Error(t, opts.Validate())
	opts.MaxDepth = -3
	assert.Error(t, opts.Validate())
	opts.MaxDepth = 1
	assert.NoError(t, opts.Validate())
}

func TestValidateCount(t *testing.T) {
	opts := Defaults()
	opts.Count = -1
	assert.Error(t, opts.Validate())
}

func TestValidateBinaryNeedsOutput(t *testing.T) {
	opts := Defaults()
	opts.BinaryPath = "fuzzer"
	assert.Error(t, opts.Validate())
	opts.OutputPath = "fuzzer.go"
	assert.NoError(t, opts.Validate())
}
