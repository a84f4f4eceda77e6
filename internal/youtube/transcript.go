package youtube

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	ytdl "github.com/kkdai/youtube/v2"
)

// Sentinel errors mapped to distinct HTTP statuses by the URL summarize route
var (
	ErrInvalidURL       = errors.New("not a valid YouTube URL")
	ErrVideoUnavailable = errors.New("video unavailable")
	ErrNoCaptions       = errors.New("transcript is disabled for this video")
)

// videoIDPattern matches the 11-character video ID in watch and short URLs
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID pulls the video ID out of a YouTube URL
func ExtractVideoID(url string) (string, error) {
	match := videoIDPattern.FindStringSubmatch(url)
	if match == nil {
		return "", ErrInvalidURL
	}
	return match[1], nil
}

// Client retrieves caption transcripts for YouTube videos
type Client struct {
	yt         ytdl.Client
	httpClient *http.Client
}

// NewClient creates a transcript client
func NewClient(timeout time.Duration) *Client {
	return &Client{
		yt: ytdl.Client{},
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Transcript resolves the video behind url and returns its caption text as a
// single space-joined string, preferring the requested language and falling
// back to the first available track.
func (c *Client) Transcript(ctx context.Context, url, lang string) (string, error) {
	videoID, err := ExtractVideoID(url)
	if err != nil {
		return "", err
	}

	video, err := c.yt.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrVideoUnavailable, videoID)
	}

	track := pickTrack(video.CaptionTracks, lang)
	if track == nil {
		return "", ErrNoCaptions
	}

	return c.fetchTrack(ctx, track.BaseURL)
}

// pickTrack selects the caption track for lang, or the first track if no
// language matches.
func pickTrack(tracks []ytdl.CaptionTrack, lang string) *ytdl.CaptionTrack {
	if len(tracks) == 0 {
		return nil
	}
	for i := range tracks {
		if tracks[i].LanguageCode == lang {
			return &tracks[i]
		}
	}
	return &tracks[0]
}

// Caption track XML layout
type timedText struct {
	XMLName    xml.Name      `xml:"timedtext"`
	Paragraphs []captionPara `xml:"body>p"`
}

type captionPara struct {
	Segments []captionSegment `xml:"s"`
	Text     string           `xml:",chardata"`
}

type captionSegment struct {
	Text string `xml:",chardata"`
}

// fetchTrack downloads a caption track and joins its text entries
func (c *Client) fetchTrack(ctx context.Context, trackURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create caption request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read caption response: %w", err)
	}

	return ParseTimedText(body)
}

// ParseTimedText extracts the plain transcript text from caption track XML
func ParseTimedText(data []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", fmt.Errorf("failed to parse caption XML: %w", err)
	}

	var parts []string
	for _, p := range tt.Paragraphs {
		text := p.Text
		for _, seg := range p.Segments {
			text += seg.Text
		}
		text = strings.TrimSpace(text)
		if text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", ErrNoCaptions
	}

	return strings.Join(parts, " "), nil
}
