package cdp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/network"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/neterr"
)

// bindingName is the runtime binding the preload script sends through.
const bindingName = "__tabshellSend"

// Channels reserved by the preload script. Every other channel is page IPC.
const (
	channelFavicons   = "__favicons"
	channelFullscreen = "__fullscreen"
	channelClose      = "__close"
	channelNewWindow  = "__new-window"
)

// messageEvent is the DOM event name Send dispatches in the page.
const messageEvent = "tabshell-message"

var errEmptyChannel = errors.New("binding payload without channel")

type bindingPayload struct {
	Channel string            `json:"channel"`
	Args    []json.RawMessage `json:"args"`
}

// decodeBinding turns a preload script message into a view event.
func decodeBinding(payload string) (port.ViewEvent, error) {
	var msg bindingPayload
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return port.ViewEvent{}, fmt.Errorf("decode binding payload: %w", err)
	}
	if msg.Channel == "" {
		return port.ViewEvent{}, errEmptyChannel
	}

	switch msg.Channel {
	case channelFavicons:
		var icons []string
		if len(msg.Args) > 0 {
			if err := json.Unmarshal(msg.Args[0], &icons); err != nil {
				return port.ViewEvent{}, fmt.Errorf("decode favicons: %w", err)
			}
		}
		return port.ViewEvent{Kind: port.EventFaviconUpdated, Favicons: icons}, nil

	case channelFullscreen:
		var on bool
		if len(msg.Args) > 0 {
			if err := json.Unmarshal(msg.Args[0], &on); err != nil {
				return port.ViewEvent{}, fmt.Errorf("decode fullscreen state: %w", err)
			}
		}
		if on {
			return port.ViewEvent{Kind: port.EventEnterFullscreen}, nil
		}
		return port.ViewEvent{Kind: port.EventLeaveFullscreen}, nil

	case channelClose:
		return port.ViewEvent{Kind: port.EventCloseRequested}, nil

	case channelNewWindow:
		var target, disposition string
		if len(msg.Args) > 0 {
			if err := json.Unmarshal(msg.Args[0], &target); err != nil {
				return port.ViewEvent{}, fmt.Errorf("decode new window url: %w", err)
			}
		}
		if len(msg.Args) > 1 {
			_ = json.Unmarshal(msg.Args[1], &disposition)
		}
		return port.ViewEvent{
			Kind:        port.EventNewWindow,
			URL:         target,
			Disposition: parseDisposition(disposition),
		}, nil
	}

	return port.ViewEvent{Kind: port.EventIPCMessage, Channel: msg.Channel, Args: msg.Args}, nil
}

func parseDisposition(s string) port.WindowDisposition {
	switch port.WindowDisposition(s) {
	case port.DispositionBackgroundTab:
		return port.DispositionBackgroundTab
	case port.DispositionNewWindow:
		return port.DispositionNewWindow
	default:
		return port.DispositionForegroundTab
	}
}

// windowOpenDisposition classifies a window.open call: requested window
// features mean a popup, everything else opens as a foreground tab.
func windowOpenDisposition(features []string) port.WindowDisposition {
	for _, f := range features {
		name, _, _ := strings.Cut(f, "=")
		switch strings.TrimSpace(name) {
		case "popup", "width", "height", "left", "top":
			return port.DispositionNewWindow
		}
	}
	return port.DispositionForegroundTab
}

// loadFailureCode maps a failed document request to a network error code.
func loadFailureCode(ev *network.EventLoadingFailed) int {
	if ev.Canceled {
		return neterr.Aborted
	}
	if ev.BlockedReason != "" {
		return neterr.Code("net::ERR_BLOCKED_BY_CLIENT")
	}
	return neterr.Code(ev.ErrorText)
}

// messageScript builds the expression that delivers a message to the page.
func messageScript(channel string, args []any) (string, error) {
	if args == nil {
		args = []any{}
	}
	detail, err := json.Marshal(map[string]any{"channel": channel, "args": args})
	if err != nil {
		return "", fmt.Errorf("encode message for channel %s: %w", channel, err)
	}
	return fmt.Sprintf("window.dispatchEvent(new CustomEvent(%q, {detail: %s}))", messageEvent, detail), nil
}
