package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abhisek/triviaz/internal/quiz"
)

// DefaultBaseURL is the public Open Trivia DB endpoint.
const DefaultBaseURL = "https://opentdb.com"

// Client talks to the Open Trivia DB API. It implements quiz.Provider.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *log.Logger
	useToken bool

	mu    sync.Mutex
	token string
	rng   *rand.Rand
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l.WithPrefix("opentdb") }
}

// WithSessionToken enables session tokens, which stop the API from
// repeating questions until the token is exhausted.
func WithSessionToken(enabled bool) Option {
	return func(c *Client) { c.useToken = enabled }
}

// WithRand sets the source used to shuffle options.
func WithRand(r *rand.Rand) Option {
	return func(c *Client) { c.rng = r }
}

// NewClient creates a Client for baseURL ("" means DefaultBaseURL).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  log.New(io.Discard),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7472697669617a)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type apiQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type questionsResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

type tokenResponse struct {
	ResponseCode    int    `json:"response_code"`
	ResponseMessage string `json:"response_message"`
	Token           string `json:"token"`
}

type categoriesResponse struct {
	TriviaCategories []Category `json:"trivia_categories"`
}

// Fetch retrieves req.Amount questions. Response codes other than 0 are
// returned as *quiz.ProviderError. Code 3 drops the session token and code 4
// resets it, so the next attempt starts clean.
func (c *Client) Fetch(ctx context.Context, req quiz.Request) ([]quiz.Question, error) {
	q := url.Values{}
	q.Set("amount", strconv.Itoa(req.Amount))
	if req.Category != nil {
		q.Set("category", strconv.Itoa(*req.Category))
	}
	if req.Difficulty != "" {
		q.Set("difficulty", string(req.Difficulty))
	}
	token := c.sessionToken(ctx)
	if token != "" {
		q.Set("token", token)
	}

	var resp questionsResponse
	if err := c.get(ctx, "/api.php", q, &resp); err != nil {
		return nil, err
	}

	switch resp.ResponseCode {
	case 0:
	case quiz.CodeTokenNotFound:
		c.setToken("")
		return nil, &quiz.ProviderError{Code: resp.ResponseCode}
	case quiz.CodeTokenEmpty:
		if err := c.resetToken(ctx, token); err != nil {
			c.logger.Warn("reset session token", "err", err)
		}
		return nil, &quiz.ProviderError{Code: resp.ResponseCode}
	default:
		return nil, &quiz.ProviderError{Code: resp.ResponseCode}
	}

	out := make([]quiz.Question, 0, len(resp.Results))
	c.mu.Lock()
	for _, r := range resp.Results {
		out = append(out, normalize(r, c.rng))
	}
	c.mu.Unlock()

	c.logger.Debug("fetched questions", "amount", req.Amount, "got", len(out))
	return out, nil
}

// Categories fetches the category list.
func (c *Client) Categories(ctx context.Context) (Catalog, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "/api_category.php", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.TriviaCategories) == 0 {
		return nil, fmt.Errorf("empty category list")
	}
	return Catalog(resp.TriviaCategories), nil
}

// CategoriesOrDefault fetches categories, falling back to DefaultCategories.
func (c *Client) CategoriesOrDefault(ctx context.Context) Catalog {
	cats, err := c.Categories(ctx)
	if err != nil {
		c.logger.Warn("fetch categories, using defaults", "err", err)
		return DefaultCatalog()
	}
	return cats
}

// RequestToken asks the API for a new session token.
func (c *Client) RequestToken(ctx context.Context) (string, error) {
	var resp tokenResponse
	q := url.Values{"command": {"request"}}
	if err := c.get(ctx, "/api_token.php", q, &resp); err != nil {
		return "", err
	}
	if resp.ResponseCode != 0 || resp.Token == "" {
		return "", fmt.Errorf("request token: code %d: %s", resp.ResponseCode, resp.ResponseMessage)
	}
	return resp.Token, nil
}

func (c *Client) sessionToken(ctx context.Context) string {
	if !c.useToken {
		return ""
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token
	}

	token, err := c.RequestToken(ctx)
	if err != nil {
		c.logger.Warn("request session token, continuing without", "err", err)
		return ""
	}
	c.setToken(token)
	return token
}

func (c *Client) resetToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	var resp tokenResponse
	q := url.Values{"command": {"reset"}, "token": {token}}
	if err := c.get(ctx, "/api_token.php", q, &resp); err != nil {
		return err
	}
	if resp.ResponseCode != 0 {
		c.setToken("")
		return &quiz.ProviderError{Code: resp.ResponseCode}
	}
	if resp.Token != "" {
		c.setToken(resp.Token)
	}
	return nil
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &quiz.ProviderError{Code: quiz.CodeRateLimit}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// normalize decodes HTML entities and shuffles the options.
func normalize(q apiQuestion, rng *rand.Rand) quiz.Question {
	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	for _, a := range q.IncorrectAnswers {
		options = append(options, html.UnescapeString(a))
	}
	correct := html.UnescapeString(q.CorrectAnswer)
	options = append(options, correct)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return quiz.Question{
		Category:      html.UnescapeString(q.Category),
		Type:          q.Type,
		Difficulty:    q.Difficulty,
		Text:          html.UnescapeString(q.Question),
		CorrectAnswer: correct,
		Options:       options,
	}
}
