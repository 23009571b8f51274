package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ListKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(NewDCA())
	r.Register(NewAAVCStatic())
	r.Register(NewBuyAndHold())

	assert.Equal(t, []string{"dca", "aavc_static", "buy_and_hold"}, r.List())
}

func TestRegistry_ReRegisterOverwritesInPlace(t *testing.T) {
	r := NewRegistry()
	r.Register(NewDCA())
	r.Register(NewAAVCStatic())

	replacement := NewDCA()
	r.Register(replacement)

	assert.Equal(t, []string{"dca", "aavc_static"}, r.List())
	got, ok := r.Get("dca")
	require.True(t, ok)
	assert.Same(t, replacement, got)
}

func TestRegistry_GetUnknownName(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get("martingale")
	assert.False(t, ok)

	_, ok = r.MetadataOf("martingale")
	assert.False(t, ok)
}

func TestRegistry_MetadataOf(t *testing.T) {
	r := DefaultRegistry()
	meta, ok := r.MetadataOf("aavc_ma")
	require.True(t, ok)
	assert.Equal(t, "aavc_ma", meta.Name)
	assert.Contains(t, meta.Parameters, "window_size")
}

func TestDefaultRegistry_RegistersAllBuiltins(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{
		"aavc_static",
		"aavc_ma",
		"aavc_highest_reset",
		"aavc_dynamic",
		"dca",
		"buy_and_hold",
	}, r.List())
}
