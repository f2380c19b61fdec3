package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	value int
	name  string
}

func TestApply(t *testing.T) {
	cfg := &testConfig{}
	err := Apply(cfg,
		NoError(func(c *testConfig) { c.value = 42 }),
		NoError(func(c *testConfig) { c.name = "set" }),
	)
	require.NoError(t, err)
	require.Equal(t, 42, cfg.value)
	require.Equal(t, "set", cfg.name)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	cfg := &testConfig{}
	err := Apply(cfg,
		New(func(c *testConfig) error { c.value = 1; return nil }),
		New(func(*testConfig) error { return boom }),
		NoError(func(c *testConfig) { c.value = 99 }),
	)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, cfg.value, "options after the failure must not run")
}

func TestApplyNoOptions(t *testing.T) {
	require.NoError(t, Apply(&testConfig{}))
}
