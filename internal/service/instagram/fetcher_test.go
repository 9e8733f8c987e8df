package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const graphJSON = `{
  "business_discovery": {
    "username": "acme",
    "name": "Acme Studio",
    "biography": "We make things",
    "profile_picture_url": "https://img/acme.jpg",
    "followers_count": 1000,
    "follows_count": 10,
    "media_count": 120,
    "media": {"data": [
      {"id":"1","caption":"one","like_count":40,"comments_count":2,"timestamp":"2024-05-01T10:00:00+0000"},
      {"id":"2","caption":"two","like_count":60,"comments_count":3,"timestamp":"2024-04-28T10:00:00+0000"}
    ]}
  },
  "id": "17841400000000000"
}`

const profilePage = `<!DOCTYPE html><html><head>
<meta property="og:title" content="Acme Studio (@acme) &#x2022; Instagram photos and videos" />
<meta property="og:image" content="https://img/acme-page.jpg" />
<meta property="og:description" content="12.5K Followers, 321 Following, 1,024 Posts - See Instagram photos and videos from Acme Studio (@acme)" />
</head><body></body></html>`

func TestFetchGraph(t *testing.T) {
	var gotPath, gotFields, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("fields")
		gotToken = r.URL.Query().Get("access_token")
		fmt.Fprint(w, graphJSON)
	}))
	defer srv.Close()

	f := NewFetcher(Config{
		AccessToken:       "token",
		BusinessAccountID: "178414",
		GraphVersion:      "v21.0",
		GraphBaseURL:      srv.URL,
	}, zap.NewNop())

	profile, err := f.Fetch(context.Background(), "https://www.instagram.com/acme/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v21.0/178414" || gotToken != "token" {
		t.Fatalf("unexpected request path=%q token=%q", gotPath, gotToken)
	}
	if !strings.Contains(gotFields, "business_discovery.username(acme)") || !strings.Contains(gotFields, "media.limit(6)") {
		t.Fatalf("unexpected fields %q", gotFields)
	}
	if profile.FullName != "Acme Studio" || profile.Followers != 1000 || profile.PostsCount != 120 {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if len(profile.RecentPosts) != 2 || profile.RecentPosts[0].Timestamp.IsZero() {
		t.Fatalf("unexpected posts %+v", profile.RecentPosts)
	}
	if profile.EngagementRate != 5 {
		t.Fatalf("expected engagement 5.00, got %v", profile.EngagementRate)
	}
}

func TestFetchGraphUserNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid user id","type":"OAuthException","code":110,"error_subcode":2207013}}`)
	}))
	defer srv.Close()

	f := NewFetcher(Config{AccessToken: "t", BusinessAccountID: "1", GraphBaseURL: srv.URL}, zap.NewNop())

	profile, err := f.Fetch(context.Background(), "https://instagram.com/ghost")
	if err != nil || profile != nil {
		t.Fatalf("expected nil, nil for missing user, got %+v %v", profile, err)
	}
}

func TestFetchGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`)
	}))
	defer srv.Close()

	f := NewFetcher(Config{AccessToken: "t", BusinessAccountID: "1", GraphBaseURL: srv.URL}, zap.NewNop())

	if _, err := f.Fetch(context.Background(), "https://instagram.com/acme"); err == nil {
		t.Fatal("expected graph error")
	}
}

func TestFetchPublicPage(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/acme/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, profilePage)
	}))
	defer srv.Close()

	f := NewFetcher(Config{WebBaseURL: srv.URL}, zap.NewNop())
	if f.UsesGraphAPI() {
		t.Fatal("graph api should be disabled without credentials")
	}

	profile, err := f.Fetch(context.Background(), "https://instagram.com/acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA == "" {
		t.Fatal("expected user agent header")
	}
	if profile.Followers != 12500 || profile.Following != 321 || profile.PostsCount != 1024 {
		t.Fatalf("unexpected counts %+v", profile)
	}
	if profile.FullName != "Acme Studio" || profile.ProfilePicURL != "https://img/acme-page.jpg" {
		t.Fatalf("unexpected identity %+v", profile)
	}
	if profile.RecentPosts == nil || len(profile.RecentPosts) != 0 {
		t.Fatalf("expected empty posts, got %#v", profile.RecentPosts)
	}
	if profile.EngagementRate != 0 {
		t.Fatalf("expected zero engagement without posts, got %v", profile.EngagementRate)
	}

	missing, err := f.Fetch(context.Background(), "https://instagram.com/ghost")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for 404, got %+v %v", missing, err)
	}
}

func TestFetchPublicPageWithoutMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Login</title></head></html>`)
	}))
	defer srv.Close()

	f := NewFetcher(Config{WebBaseURL: srv.URL}, zap.NewNop())
	if _, err := f.Fetch(context.Background(), "https://instagram.com/acme"); err == nil {
		t.Fatal("expected error for page without profile metadata")
	}
}

func TestFetchRespectsCanceledContext(t *testing.T) {
	f := NewFetcher(Config{WebBaseURL: "http://127.0.0.1:1", RequestsPerMinute: 1}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Fetch(ctx, "https://instagram.com/acme"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestExtractUsername(t *testing.T) {
	tests := map[string]string{
		"https://www.instagram.com/acme/":         "acme",
		"https://instagram.com/acme.studio?hl=en": "acme.studio",
		"https://instagram.com/@acme":             "acme",
		"instagram.com/acme":                      "acme",
	}
	for in, want := range tests {
		got, err := ExtractUsername(in)
		if err != nil || got != want {
			t.Errorf("ExtractUsername(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{
		"",
		"https://instagram.com/",
		"https://instagram.com/acme){id}",
		"https://instagram.com/acme%7Bid%7D",
		"https://instagram.com/" + strings.Repeat("a", 31),
	} {
		if _, err := ExtractUsername(bad); err == nil {
			t.Errorf("ExtractUsername(%q) expected error", bad)
		}
	}
}

func TestParseAbbreviatedCount(t *testing.T) {
	tests := map[string]int64{
		"1,234": 1234,
		"12.5K": 12500,
		"3M":    3000000,
		"1.2b":  1200000000,
		"":      0,
		"n/a":   0,
	}
	for in, want := range tests {
		if got := ParseAbbreviatedCount(in); got != want {
			t.Errorf("ParseAbbreviatedCount(%q) = %d, want %d", in, got, want)
		}
	}
}
