// Package translator looks up translations through the MyMemory API.
package translator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.mymemory.translated.net/get"

// Client is a MyMemory translation API client
type Client struct {
	apiURL string
	http   *http.Client
}

// New creates a new translation client. MYMEMORY_API_URL overrides the
// endpoint (used by tests).
func New() *Client {
	apiURL := os.Getenv("MYMEMORY_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		apiURL: apiURL,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Match is one ranked translation candidate.
type Match struct {
	Translation string  `json:"translation"`
	Source      string  `json:"source"`
	Quality     Quality `json:"quality"`
}

// Result is a translation lookup outcome: the service's best pick plus
// all ranked matches.
type Result struct {
	BestTranslation string
	Matches         []Match
}

// Quality tolerates the API returning either a JSON number or a
// numeric string.
type Quality float64

func (q *Quality) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*q = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*q = 0
		return nil
	}
	*q = Quality(v)
	return nil
}

// Percent returns the quality as a 0-100 score.
func (q Quality) Percent() int {
	return int(float64(q) * 100)
}

type apiResponse struct {
	ResponseStatus  responseStatus `json:"responseStatus"`
	ResponseDetails string         `json:"responseDetails"`
	ResponseData    struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	Matches []Match `json:"matches"`
}

// responseStatus tolerates a number or a string, both of which the API
// has been seen to return.
type responseStatus int

func (r *responseStatus) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.Atoi(s)
	if err != nil {
		*r = 0
		return nil
	}
	*r = responseStatus(v)
	return nil
}

// Translate looks up text from sourceLang to targetLang (language
// codes, e.g. "en"|"sv"). This is a blocking network call; callers
// keep it off interactive loops. Failures come back as errors for the
// caller to render as text.
func (c *Client) Translate(text, sourceLang, targetLang string) (*Result, error) {
	reqURL := fmt.Sprintf("%s?q=%s&langpair=%s", c.apiURL,
		url.QueryEscape(text),
		url.QueryEscape(sourceLang+"|"+targetLang))

	resp, err := c.http.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode translation response: %w", err)
	}

	if data.ResponseStatus != 200 {
		details := data.ResponseDetails
		if details == "" {
			details = "unknown error"
		}
		return nil, fmt.Errorf("translation API error: %s", details)
	}

	return &Result{
		BestTranslation: data.ResponseData.TranslatedText,
		Matches:         data.Matches,
	}, nil
}
