package normalize

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kapu/zenith-go/internal/domain"
)

type stats struct {
	SubscriberCount string `json:"subscriber_count"`
}

func TestOneOrManyShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *stats
	}{
		{"object", `{"subscriber_count":"1500"}`, &stats{SubscriberCount: "1500"}},
		{"list", `[{"subscriber_count":"1500"},{"subscriber_count":"9"}]`, &stats{SubscriberCount: "1500"}},
		{"empty list", `[]`, nil},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v OneOrMany[stats]
			if err := json.Unmarshal([]byte(tt.raw), &v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if diff := cmp.Diff(tt.want, v.First()); diff != "" {
				t.Fatalf("First() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOneOrManyInsideStruct(t *testing.T) {
	type row struct {
		Stats OneOrMany[stats] `json:"youtube_stats"`
	}

	var asObject, asList row
	if err := json.Unmarshal([]byte(`{"youtube_stats":{"subscriber_count":"42"}}`), &asObject); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"youtube_stats":[{"subscriber_count":"42"}]}`), &asList); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(asObject.Stats.First(), asList.Stats.First()); diff != "" {
		t.Fatalf("object and list shapes differ:\n%s", diff)
	}

	var missing row
	if err := json.Unmarshal([]byte(`{}`), &missing); err != nil {
		t.Fatal(err)
	}
	if missing.Stats.First() != nil {
		t.Fatal("expected nil for absent sub-record")
	}
}

func TestOneOrManyRejectsScalars(t *testing.T) {
	var v OneOrMany[stats]
	if err := json.Unmarshal([]byte(`"oops"`), &v); err == nil {
		t.Fatal("expected error for string value")
	}
}

func TestEngagementRate(t *testing.T) {
	tests := []struct {
		avg, followers, want float64
	}{
		{50, 1000, 5},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{10, 0, 0},
		{10, -5, 0},
		{0, 100, 0},
	}
	for _, tt := range tests {
		if got := EngagementRate(tt.avg, tt.followers); got != tt.want {
			t.Errorf("EngagementRate(%v, %v) = %v, want %v", tt.avg, tt.followers, got, tt.want)
		}
	}
}

func TestParseCount(t *testing.T) {
	tests := map[string]float64{
		"":      0,
		"  ":    0,
		"abc":   0,
		"1500":  1500,
		"1,234": 1234,
		" 42 ":  42,
		"12.5":  12.5,
		"NaN":   0,
		"Inf":   0,
		"-inf":  0,
		"1e400": 0,
	}
	for in, want := range tests {
		if got := ParseCount(in); got != want {
			t.Errorf("ParseCount(%q) = %v, want %v", in, got, want)
		}
	}
	if got := FormatCount(18446744073709551615); got != "18446744073709551615" {
		t.Errorf("FormatCount max = %q", got)
	}
}

func TestInstagramProfileFinalize(t *testing.T) {
	posts := make([]domain.InstagramPost, 9)
	for i := range posts {
		posts[i].LikeCount = 50
	}
	p := InstagramProfile(&domain.InstagramProfile{Followers: 1000, RecentPosts: posts})

	if len(p.RecentPosts) != 6 {
		t.Fatalf("expected 6 posts, got %d", len(p.RecentPosts))
	}
	if p.EngagementRate != 5 {
		t.Fatalf("expected engagement 5.00, got %v", p.EngagementRate)
	}

	empty := InstagramProfile(&domain.InstagramProfile{Followers: 0})
	if empty.RecentPosts == nil || len(empty.RecentPosts) != 0 {
		t.Fatalf("expected empty non-nil posts, got %#v", empty.RecentPosts)
	}
	if empty.EngagementRate != 0 {
		t.Fatalf("expected 0 engagement, got %v", empty.EngagementRate)
	}

	if InstagramProfile(nil) != nil {
		t.Fatal("nil profile should stay nil")
	}
}

func TestYouTubeProfileFinalize(t *testing.T) {
	videos := make([]domain.YouTubeVideo, 12)
	p := YouTubeProfile(&domain.YouTubeProfile{RecentVideos: videos})

	if len(p.RecentVideos) != 10 {
		t.Fatalf("expected 10 videos, got %d", len(p.RecentVideos))
	}
	if p.RecentVideos[0].ViewCount != "0" || p.RecentVideos[0].Tags == nil {
		t.Fatalf("expected defaulted video fields, got %+v", p.RecentVideos[0])
	}
	if p.Statistics.SubscriberCount != "0" {
		t.Fatalf("expected default subscriber count, got %q", p.Statistics.SubscriberCount)
	}

	none := YouTubeProfile(&domain.YouTubeProfile{})
	if none.RecentVideos == nil {
		t.Fatal("expected non-nil recent videos")
	}
}

func TestYouTubeEngagement(t *testing.T) {
	p := &domain.YouTubeProfile{
		Statistics:   domain.YouTubeStatistics{SubscriberCount: "1000"},
		RecentVideos: []domain.YouTubeVideo{{LikeCount: "40"}, {LikeCount: "60"}},
	}
	if got := YouTubeEngagement(p); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestResultFromRecord(t *testing.T) {
	rate := 5.0
	rec := &domain.CreatorRecord{
		Handle:    "acme",
		Name:      "Acme",
		AvatarURL: "https://img/acme.jpg",
		YouTube: &domain.YouTubeStatsRecord{
			SubscriberCount: "1500",
		},
		Instagram: &domain.InstagramStatsRecord{
			Username:       "acme",
			FollowerCount:  1000,
			EngagementRate: &rate,
		},
		Persona: &domain.PersonaRecord{Archetype: "Educator", Summary: "Teaches things."},
	}

	got := ResultFromRecord(rec)
	if got == nil || got.YouTube == nil || got.Instagram == nil || got.Persona == nil {
		t.Fatalf("expected all sections, got %+v", got)
	}
	if got.YouTube.Statistics.SubscriberCount != "1500" || got.YouTube.Title != "Acme" {
		t.Fatalf("unexpected youtube section %+v", got.YouTube)
	}
	if got.YouTube.RecentVideos == nil || got.Instagram.RecentPosts == nil {
		t.Fatal("recent items must be non-nil")
	}
	if got.Instagram.EngagementRate != 5 {
		t.Fatalf("unexpected engagement %v", got.Instagram.EngagementRate)
	}
	if got.Persona.Archetype != "Educator" || got.Persona.Topics == nil {
		t.Fatalf("unexpected persona %+v", got.Persona)
	}

	if ResultFromRecord(&domain.CreatorRecord{Handle: "x"}) != nil {
		t.Fatal("record without platform data should not produce a result")
	}
	if ResultFromRecord(nil) != nil {
		t.Fatal("nil record should not produce a result")
	}
}

func TestPersonaFromRecordPrefersFullReport(t *testing.T) {
	full := &domain.Persona{Archetype: "Entertainer", Summary: "Full"}
	got := PersonaFromRecord(&domain.PersonaRecord{Archetype: "Other", Summary: "Short", FullReport: full})
	if got.Summary != "Full" || got.SWOT.Strengths == nil {
		t.Fatalf("unexpected persona %+v", got)
	}
	if PersonaFromRecord(&domain.PersonaRecord{}) != nil {
		t.Fatal("empty persona record should yield nil")
	}
}

func TestCreatorIdentity(t *testing.T) {
	yt := &domain.YouTubeProfile{Title: "Acme TV", Thumbnail: "yt.jpg"}
	ig := &domain.InstagramProfile{FullName: "Acme Studio", ProfilePicURL: "ig.jpg"}

	tests := []struct {
		name string
		yt   *domain.YouTubeProfile
		ig   *domain.InstagramProfile
		want domain.CreatorIdentity
	}{
		{"both", yt, ig, domain.CreatorIdentity{Name: "Acme TV", AvatarURL: "yt.jpg"}},
		{"instagram only", nil, ig, domain.CreatorIdentity{Name: "Acme Studio", AvatarURL: "ig.jpg"}},
		{"neither", nil, nil, domain.CreatorIdentity{Name: "acme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, CreatorIdentity("acme", tt.yt, tt.ig)); diff != "" {
				t.Fatalf("identity mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInsightFor(t *testing.T) {
	s, e := InsightFor(nil)
	if s != "No summary" || e != "N/A" {
		t.Fatalf("unexpected defaults %q %q", s, e)
	}
	s, e = InsightFor(&domain.Persona{Summary: "Great", Engagement: domain.EngagementProfile{Rate: "High"}})
	if s != "Great" || e != "High" {
		t.Fatalf("unexpected values %q %q", s, e)
	}
}
