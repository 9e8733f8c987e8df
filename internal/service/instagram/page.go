package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
	"go.uber.org/zap"
)

var (
	// "1,234 Followers, 56 Following, 78 Posts - See Instagram photos and videos from Name (@user)"
	countPattern = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s+(Followers|Following|Posts)`)
	titlePattern = regexp.MustCompile(`^(.*?)\s*\(@([^)]+)\)`)
)

func (f *Fetcher) fetchPublicPage(ctx context.Context, username string) (*domain.InstagramProfile, error) {
	endpoint := fmt.Sprintf("%s/%s/", f.webBaseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constants.APIConfig.InstagramUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		f.logger.Debug("Instagram page not found", zap.String("username", username))
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram page unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instagram page: %w", err)
	}

	return parseProfilePage(doc, username)
}

func parseProfilePage(doc *goquery.Document, username string) (*domain.InstagramProfile, error) {
	description := metaContent(doc, "og:description")
	if description == "" {
		description = metaContent(doc, "description")
	}
	if description == "" {
		return nil, fmt.Errorf("instagram page for %s has no profile metadata", username)
	}

	profile := &domain.InstagramProfile{
		Username:      username,
		ProfilePicURL: metaContent(doc, "og:image"),
		RecentPosts:   []domain.InstagramPost{},
	}

	for _, match := range countPattern.FindAllStringSubmatch(description, -1) {
		value := ParseAbbreviatedCount(match[1])
		switch strings.ToLower(match[2]) {
		case "followers":
			profile.Followers = value
		case "following":
			profile.Following = value
		case "posts":
			profile.PostsCount = value
		}
	}

	if m := titlePattern.FindStringSubmatch(metaContent(doc, "og:title")); m != nil {
		profile.FullName = strings.TrimSpace(m[1])
		profile.Username = strings.TrimSpace(m[2])
	}

	return profile, nil
}

func metaContent(doc *goquery.Document, name string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property="%s"]`, name))
	if sel.Length() == 0 {
		sel = doc.Find(fmt.Sprintf(`meta[name="%s"]`, name))
	}
	content, _ := sel.First().Attr("content")
	return strings.TrimSpace(content)
}

// ParseAbbreviatedCount parses counts like "1,234", "12.5K" or "3M". Garbage is 0.
func ParseAbbreviatedCount(s string) int64 {
	s = strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1e3
	case 'M':
		multiplier = 1e6
	case 'B':
		multiplier = 1e9
	}
	if multiplier > 1 {
		s = strings.TrimSpace(s[:len(s)-1])
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int64(v*multiplier + 0.5)
}
