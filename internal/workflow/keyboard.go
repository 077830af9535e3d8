package workflow

import (
	"fmt"
	"strconv"
	"strings"
	"tourneybot/entity"
)

// Callback data prefixes of the inline decision buttons.
const (
	CallbackConfirm = "c:"
	CallbackReject  = "r:"
)

type Button struct {
	Text string
	Data string
}

// Keyboard is an inline keyboard descriptor; the transport decides how to render it.
type Keyboard [][]Button

// CallbackData encodes a decision on the pending entry of (userID, track), e.g. "c:123:vsa".
func CallbackData(prefix string, userID int64, track entity.Track) string {
	return fmt.Sprintf("%s%d:%s", prefix, userID, track)
}

// ParseCallback is the inverse of CallbackData.
func ParseCallback(data string) (prefix string, userID int64, track entity.Track, err error) {
	for _, p := range []string{CallbackConfirm, CallbackReject} {
		if strings.HasPrefix(data, p) {
			prefix = p
			break
		}
	}
	if prefix == "" {
		return "", 0, "", fmt.Errorf("unknown callback: %q", data)
	}
	parts := strings.Split(strings.TrimPrefix(data, prefix), ":")
	if len(parts) != 2 {
		return "", 0, "", fmt.Errorf("malformed callback: %q", data)
	}
	userID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "", 0, "", fmt.Errorf("malformed user id in callback %q: %w", data, err)
	}
	track, err = entity.ParseTrack(parts[1])
	if err != nil {
		return "", 0, "", err
	}
	return prefix, userID, track, nil
}
