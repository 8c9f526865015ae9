package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/audithive/arbiter/internal/domain/finding"
	"github.com/audithive/arbiter/internal/metrics"
)

// ClientConfig configures the HTTP oracle client.
type ClientConfig struct {
	Endpoint   string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries uint
}

// Client calls an OpenAI-compatible chat completions backend and parses
// single-token replies into verdicts and scores.
type Client struct {
	cfg    ClientConfig
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates an oracle client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

const judgePromptFmt = `Compare these two security findings and decide whether they describe the same underlying issue, based ONLY on their description and code location.

Finding 1:
Description: %s
Code Location: %s

Finding 2:
Description: %s
Code Location: %s

Reply with exactly one word: SAME, DIFFERENT, or UNSURE.`

const scorePromptFmt = `You are a security expert who evaluates vulnerability findings.

Rate this finding from 0-100 based on:
1. Clarity and specificity of the description
2. Appropriateness of severity rating
3. Actionability of recommendation
4. Precision of code reference

Finding to evaluate:
Description: %s
Severity: %s
Location: %s
Recommendation: %s

Reply only with a number 0-100.`

// Judge asks the oracle whether two findings describe the same issue.
func (c *Client) Judge(ctx context.Context, a, b finding.Finding) (Verdict, error) {
	prompt := fmt.Sprintf(judgePromptFmt,
		a.Description, a.CodeReference,
		b.Description, b.CodeReference)

	reply, err := c.complete(ctx, "judge", prompt)
	if err != nil {
		return "", err
	}

	switch strings.ToUpper(strings.TrimSpace(reply)) {
	case "SAME":
		return VerdictSameIssue, nil
	case "DIFFERENT":
		return VerdictDifferentIssue, nil
	default:
		// UNSURE, or a reply the oracle could not keep to one word.
		return VerdictContested, nil
	}
}

// Score rates a finding's quality from 0 to 100.
func (c *Client) Score(ctx context.Context, f finding.Finding) (int, error) {
	prompt := fmt.Sprintf(scorePromptFmt,
		f.Description, f.Severity, f.CodeReference, f.Recommendation)

	reply, err := c.complete(ctx, "score", prompt)
	if err != nil {
		return 0, err
	}

	score, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable score %q", ErrUnavailable, reply)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends one prompt and returns the raw reply text. Transient
// failures (network errors, 429, 5xx) are retried with exponential backoff;
// anything else fails permanently.
func (c *Client) complete(ctx context.Context, op, prompt string) (string, error) {
	started := time.Now()

	reply, err := backoff.Retry(ctx, func() (string, error) {
		return c.completeOnce(ctx, prompt)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.cfg.MaxRetries),
	)

	metrics.OracleLatency.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.OracleCalls.WithLabelValues(op, "error").Inc()
		c.logger.Warn("oracle call failed", "op", op, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	metrics.OracleCalls.WithLabelValues(op, "ok").Inc()
	return reply, nil
}

func (c *Client) completeOnce(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0,
		MaxTokens:   10,
	})
	if err != nil {
		return "", backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.Endpoint, "/")+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("oracle returned %d", resp.StatusCode)
	default:
		return "", backoff.Permanent(fmt.Errorf("oracle returned %d: %s", resp.StatusCode, data))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode oracle response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", backoff.Permanent(fmt.Errorf("oracle response has no choices"))
	}
	return parsed.Choices[0].Message.Content, nil
}
