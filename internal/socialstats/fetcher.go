package socialstats

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// CreatorStats is what we can read off a creator's public channel page.
// Used by brands to sanity-check reach before sending an invitation.
type CreatorStats struct {
	Handle      string     `json:"handle"`
	Followers   *int       `json:"followers,omitempty"`
	Verified    bool       `json:"verified"`
	RecentPosts []PostStat `json:"recent_posts"`
	AvgViews    *int       `json:"avg_views,omitempty"`
	LangGuess   string     `json:"lang_guess"`
	FetchedAt   time.Time  `json:"fetched_at"`
}

type PostStat struct {
	URL   string    `json:"url"`
	Date  time.Time `json:"date"`
	Views *int      `json:"views,omitempty"`
}

type Fetcher struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewFetcher builds a fetcher against a public channel mirror. baseURL is
// joined with the creator handle, e.g. https://t.me/s.
func NewFetcher(baseURL string, timeout time.Duration, log *zap.Logger) *Fetcher {
	return &Fetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, handle string) (*CreatorStats, error) {
	url := fmt.Sprintf("%s/%s", f.baseURL, handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return f.parse(doc, handle), nil
}

func (f *Fetcher) parse(doc *goquery.Document, handle string) *CreatorStats {
	stats := &CreatorStats{
		Handle:    handle,
		FetchedAt: time.Now(),
	}

	doc.Find(".tgme_channel_info_counter .counter_value").Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(s.Parent().Find(".counter_type").Text()))
		if strings.Contains(label, "subscriber") || strings.Contains(label, "member") || strings.Contains(label, "follower") {
			if n := parseCompactCount(strings.TrimSpace(s.Text())); n > 0 {
				stats.Followers = &n
			}
		}
	})

	stats.Verified = doc.Find(".tgme_channel_info_header_title .verified-icon").Length() > 0

	var allText strings.Builder
	doc.Find(".tgme_widget_message_wrap").Each(func(_ int, s *goquery.Selection) {
		post := PostStat{}

		if dataPost, ok := s.Find(".tgme_widget_message").Attr("data-post"); ok {
			post.URL = fmt.Sprintf("%s/%s", f.baseURL, dataPost)
		}
		s.Find(".tgme_widget_message_date time").Each(func(_ int, el *goquery.Selection) {
			if dt, ok := el.Attr("datetime"); ok {
				if t, err := time.Parse(time.RFC3339, dt); err == nil {
					post.Date = t
				}
			}
		})
		s.Find(".tgme_widget_message_views").Each(func(_ int, el *goquery.Selection) {
			if n := parseCompactCount(strings.TrimSpace(el.Text())); n > 0 {
				post.Views = &n
			}
		})

		allText.WriteString(strings.TrimSpace(s.Find(".tgme_widget_message_text").Text()))
		allText.WriteString(" ")

		if post.URL != "" {
			stats.RecentPosts = append(stats.RecentPosts, post)
		}
	})

	if avg, ok := averageViews(stats.RecentPosts, 20); ok {
		stats.AvgViews = &avg
	}
	stats.LangGuess = guessLanguage(allText.String())
	return stats
}

// averageViews averages the view counts of up to limit posts. Posts with
// no visible counter are skipped rather than counted as zero.
func averageViews(posts []PostStat, limit int) (int, bool) {
	total, counted := 0, 0
	for i, p := range posts {
		if i >= limit {
			break
		}
		if p.Views != nil {
			total += *p.Views
			counted++
		}
	}
	if counted == 0 {
		return 0, false
	}
	return total / counted, true
}

var compactCountRE = regexp.MustCompile(`[\d,.]+[KkMm]?`)

// parseCompactCount reads counters like "12,345", "1.2K" or "5.6M views".
func parseCompactCount(text string) int {
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, ",", "")

	match := compactCountRE.FindString(text)
	if match == "" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(match, "K"), strings.HasSuffix(match, "k"):
		multiplier = 1_000
		match = match[:len(match)-1]
	case strings.HasSuffix(match, "M"), strings.HasSuffix(match, "m"):
		multiplier = 1_000_000
		match = match[:len(match)-1]
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return int(f * multiplier)
}

func guessLanguage(text string) string {
	if text == "" {
		return "unknown"
	}

	var cyrillic, latin, arabic, cjk, total int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Latin, r):
			latin++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Han, r), unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			cjk++
		}
	}
	if total == 0 {
		return "unknown"
	}

	share := func(n int) float64 { return float64(n) / float64(total) }
	switch {
	case share(cyrillic) >= 0.3:
		return "ru"
	case share(arabic) >= 0.3:
		return "ar"
	case share(cjk) >= 0.3:
		return "zh"
	case share(latin) >= 0.3:
		return "en"
	default:
		return "other"
	}
}
