package youtube

import (
	"fmt"
	"strings"

	"github.com/kapu/zenith-go/internal/service/handle"
)

// IdentifierKind says how a channel URL names its channel.
type IdentifierKind string

const (
	KindHandle    IdentifierKind = "handle"
	KindChannelID IdentifierKind = "channel"
	KindUsername  IdentifierKind = "user"
	KindCustom    IdentifierKind = "custom"
)

type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// ExtractIdentifier classifies a channel URL: /@handle, /channel/<UC id>, /user/<name>,
// and /c/<name> or a bare /<name> which can only be resolved by search.
func ExtractIdentifier(rawURL string) (Identifier, error) {
	parsed, err := handle.ParseURL(rawURL)
	if err != nil {
		return Identifier{}, fmt.Errorf("invalid YouTube URL %q", rawURL)
	}

	segments := handle.SplitPath(parsed.Path)
	if len(segments) == 0 {
		return Identifier{}, fmt.Errorf("YouTube URL %q has no channel path", rawURL)
	}

	first := segments[0]
	switch {
	case strings.HasPrefix(first, "@") && len(first) > 1:
		return Identifier{Kind: KindHandle, Value: strings.TrimPrefix(first, "@")}, nil
	case first == "channel" && len(segments) > 1:
		return Identifier{Kind: KindChannelID, Value: segments[1]}, nil
	case first == "user" && len(segments) > 1:
		return Identifier{Kind: KindUsername, Value: segments[1]}, nil
	case first == "c" && len(segments) > 1:
		return Identifier{Kind: KindCustom, Value: segments[1]}, nil
	case isChannelID(first):
		return Identifier{Kind: KindChannelID, Value: first}, nil
	default:
		return Identifier{Kind: KindCustom, Value: first}, nil
	}
}

func isChannelID(s string) bool {
	return strings.HasPrefix(s, "UC") && len(s) == 24
}

func (id Identifier) cacheKey() string {
	return fmt.Sprintf("youtube:channel_id:%s:%s", id.Kind, strings.ToLower(id.Value))
}
