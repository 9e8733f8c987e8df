package domain

// Platform identifies a social platform a creator publishes on.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
)

func (p Platform) String() string {
	return string(p)
}
