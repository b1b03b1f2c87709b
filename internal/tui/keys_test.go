package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachesweep/cachesweep/internal/eventloop"
	"github.com/cachesweep/cachesweep/internal/model"
)

func TestBrowseKeyToInputNavigation(t *testing.T) {
	cases := []struct {
		key  string
		want eventloop.InputKind
	}{
		{"k", eventloop.InputUp},
		{"up", eventloop.InputUp},
		{"j", eventloop.InputDown},
		{"down", eventloop.InputDown},
		{"pgup", eventloop.InputPageUp},
		{"pgdown", eventloop.InputPageDown},
		{"g", eventloop.InputHome},
		{"home", eventloop.InputHome},
		{"G", eventloop.InputEnd},
		{"end", eventloop.InputEnd},
		{" ", eventloop.InputToggleMark},
		{"a", eventloop.InputSelectAll},
		{"n", eventloop.InputSelectNone},
		{"enter", eventloop.InputDelete},
		{"d", eventloop.InputDeleteMarked},
		{"s", eventloop.InputCycleSort},
		{"X", eventloop.InputToggleShowProtected},
	}

	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			in, ok := browseKeyToInput(tc.key, "", model.Filter{Kind: model.FilterAll})
			require.True(t, ok)
			assert.Equal(t, tc.want, in.Kind)
		})
	}
}

func TestBrowseKeyUnhandledReturnsFalse(t *testing.T) {
	_, ok := browseKeyToInput("z", "", model.Filter{Kind: model.FilterAll})
	assert.False(t, ok)
}

func TestFilterByTargetTogglesOnAndOff(t *testing.T) {
	in, ok := browseKeyToInput("t", "node_modules", model.Filter{Kind: model.FilterAll})
	require.True(t, ok)
	assert.Equal(t, eventloop.InputFilterTarget, in.Kind)
	assert.Equal(t, "node_modules", in.Text)

	in, ok = browseKeyToInput("t", "node_modules", model.Filter{Kind: model.FilterByTarget, Target: "node_modules"})
	require.True(t, ok)
	assert.Equal(t, eventloop.InputFilterAll, in.Kind)
}

func TestFilterByTargetNoOpWithoutCursorRow(t *testing.T) {
	_, ok := browseKeyToInput("t", "", model.Filter{Kind: model.FilterAll})
	assert.False(t, ok)
}

func TestEscClearsActiveFilterOnly(t *testing.T) {
	_, ok := browseKeyToInput("esc", "", model.Filter{Kind: model.FilterAll})
	assert.False(t, ok, "esc is a no-op when no filter is active")

	in, ok := browseKeyToInput("esc", "", model.Filter{Kind: model.FilterBySearch, Search: "foo"})
	require.True(t, ok)
	assert.Equal(t, eventloop.InputFilterAll, in.Kind)
}

func TestConfirmKeyToInput(t *testing.T) {
	cases := []struct {
		key  string
		want eventloop.InputKind
	}{
		{"y", eventloop.InputConfirm},
		{"enter", eventloop.InputConfirm},
		{"n", eventloop.InputCancel},
		{"esc", eventloop.InputCancel},
		{"q", eventloop.InputCancel},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			in, ok := confirmKeyToInput(tc.key)
			require.True(t, ok)
			assert.Equal(t, tc.want, in.Kind)
		})
	}
}

func TestConfirmKeyIgnoresUnrelatedKeys(t *testing.T) {
	_, ok := confirmKeyToInput("space")
	assert.False(t, ok)
}
