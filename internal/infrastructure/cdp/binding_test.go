package cdp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
)

func TestDecodeBinding(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    port.ViewEvent
	}{
		{
			name:    "favicons",
			payload: `{"channel":"__favicons","args":[["https://a.test/icon.png","https://a.test/favicon.ico"]]}`,
			want: port.ViewEvent{
				Kind:     port.EventFaviconUpdated,
				Favicons: []string{"https://a.test/icon.png", "https://a.test/favicon.ico"},
			},
		},
		{
			name:    "enter fullscreen",
			payload: `{"channel":"__fullscreen","args":[true]}`,
			want:    port.ViewEvent{Kind: port.EventEnterFullscreen},
		},
		{
			name:    "leave fullscreen",
			payload: `{"channel":"__fullscreen","args":[false]}`,
			want:    port.ViewEvent{Kind: port.EventLeaveFullscreen},
		},
		{
			name:    "close",
			payload: `{"channel":"__close","args":[]}`,
			want:    port.ViewEvent{Kind: port.EventCloseRequested},
		},
		{
			name:    "background link",
			payload: `{"channel":"__new-window","args":["https://b.test/","background-tab"]}`,
			want: port.ViewEvent{
				Kind:        port.EventNewWindow,
				URL:         "https://b.test/",
				Disposition: port.DispositionBackgroundTab,
			},
		},
		{
			name:    "unknown disposition opens in foreground",
			payload: `{"channel":"__new-window","args":["https://b.test/","sideways"]}`,
			want: port.ViewEvent{
				Kind:        port.EventNewWindow,
				URL:         "https://b.test/",
				Disposition: port.DispositionForegroundTab,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBinding(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBinding_PageIPC(t *testing.T) {
	got, err := decodeBinding(`{"channel":"bookmarksData","args":[{"url":"https://a.test/","text":"hi"}]}`)
	require.NoError(t, err)

	assert.Equal(t, port.EventIPCMessage, got.Kind)
	assert.Equal(t, "bookmarksData", got.Channel)
	require.Len(t, got.Args, 1)
	assert.JSONEq(t, `{"url":"https://a.test/","text":"hi"}`, string(got.Args[0]))
}

func TestDecodeBinding_Invalid(t *testing.T) {
	_, err := decodeBinding(`not json`)
	require.Error(t, err)

	_, err = decodeBinding(`{"args":[]}`)
	require.ErrorIs(t, err, errEmptyChannel)

	_, err = decodeBinding(`{"channel":"__favicons","args":[42]}`)
	require.Error(t, err)
}

func TestWindowOpenDisposition(t *testing.T) {
	assert.Equal(t, port.DispositionForegroundTab, windowOpenDisposition(nil))
	assert.Equal(t, port.DispositionForegroundTab, windowOpenDisposition([]string{"noopener"}))
	assert.Equal(t, port.DispositionNewWindow, windowOpenDisposition([]string{"width=400", "height=300"}))
	assert.Equal(t, port.DispositionNewWindow, windowOpenDisposition([]string{" popup"}))
}

func TestLoadFailureCode(t *testing.T) {
	assert.Equal(t, -3, loadFailureCode(&network.EventLoadingFailed{Canceled: true, ErrorText: "net::ERR_ABORTED"}))
	assert.Equal(t, -105, loadFailureCode(&network.EventLoadingFailed{ErrorText: "net::ERR_NAME_NOT_RESOLVED"}))
	assert.Equal(t, -20, loadFailureCode(&network.EventLoadingFailed{BlockedReason: network.BlockedReasonInspector}))
	assert.Equal(t, -2, loadFailureCode(&network.EventLoadingFailed{ErrorText: "something odd"}))
}

func TestMessageScript(t *testing.T) {
	script, err := messageScript("loadfinish", nil)
	require.NoError(t, err)
	assert.Equal(t, `window.dispatchEvent(new CustomEvent("tabshell-message", {detail: {"args":[],"channel":"loadfinish"}}))`, script)

	script, err = messageScript("echo", []any{"x", 2})
	require.NoError(t, err)
	assert.Contains(t, script, `"args":["x",2]`)
}

func TestPreloadScriptUsesBinding(t *testing.T) {
	assert.Contains(t, preloadScript, bindingName)
	assert.Contains(t, preloadScript, messageEvent)
	for _, channel := range []string{channelFavicons, channelFullscreen, channelClose, channelNewWindow} {
		assert.Contains(t, preloadScript, `"`+channel+`"`)
	}
}

func TestGrantedPermissions(t *testing.T) {
	policy := func(_ context.Context, perm entity.PermissionType, cb port.PermissionCallback) {
		switch perm {
		case entity.PermissionNotifications, entity.PermissionFullscreen, entity.PermissionClipboard:
			cb.Allow()
		default:
			cb.Deny()
		}
	}

	got := grantedPermissions(context.Background(), policy)

	assert.Equal(t, []browser.PermissionType{"notifications", "clipboardReadWrite", "clipboardSanitizedWrite"}, got)
}

func TestGrantedPermissions_SilentPolicyDenies(t *testing.T) {
	got := grantedPermissions(context.Background(), func(context.Context, entity.PermissionType, port.PermissionCallback) {})
	assert.Empty(t, got)
}

func TestDecodeBinding_ArgsStayRaw(t *testing.T) {
	got, err := decodeBinding(`{"channel":"phishingDetected","args":[]}`)
	require.NoError(t, err)
	assert.Equal(t, "phishingDetected", got.Channel)
	assert.Equal(t, []json.RawMessage{}, got.Args)
}
