package morph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/httpclient"
	"github.com/semkit/rolemark/internal/interfaces"
)

// RemoteTagger calls an external tagging service over HTTP.
// Contract: POST <endpoint> {"text": "..."} returns
// {"tokens": [{"text": "...", "lemma": "...", "pos": "..."}]}
type RemoteTagger struct {
	endpoint string
	client   *http.Client
	logger   arbor.ILogger
}

// NewRemoteTagger creates a tagger client for the given endpoint
func NewRemoteTagger(endpoint string, timeout time.Duration, logger arbor.ILogger) *RemoteTagger {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteTagger{
		endpoint: endpoint,
		client:   httpclient.NewDefaultHTTPClient(timeout),
		logger:   logger,
	}
}

type remoteTagRequest struct {
	Text string `json:"text"`
}

type remoteTagResponse struct {
	Tokens []interfaces.Token `json:"tokens"`
	Error  string             `json:"error,omitempty"`
}

// Tag analyzes text via the remote service
func (t *RemoteTagger) Tag(ctx context.Context, text string) ([]interfaces.Token, error) {
	body, err := json.Marshal(remoteTagRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tag request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tagger request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read tagger response: %w", err)
	}

	var tagResp remoteTagResponse
	if err := json.Unmarshal(respBytes, &tagResp); err != nil {
		return nil, fmt.Errorf("failed to parse tagger response (HTTP %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if tagResp.Error != "" {
			return nil, fmt.Errorf("tagger: %s", tagResp.Error)
		}
		return nil, fmt.Errorf("tagger: HTTP %d", resp.StatusCode)
	}

	return tagResp.Tokens, nil
}

// Lemma returns the lemma of a single word via the remote service
func (t *RemoteTagger) Lemma(ctx context.Context, word string) (string, error) {
	tokens, err := t.Tag(ctx, word)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return word, nil
	}
	return tokens[0].Lemma, nil
}

// FindVerbs returns the lemmas and surface forms of all VERB tokens
func FindVerbs(tokens []interfaces.Token) (lemmas, forms []string) {
	for _, tok := range tokens {
		if tok.POS == POSVerb {
			lemmas = append(lemmas, tok.Lemma)
			forms = append(forms, tok.Text)
		}
	}
	return lemmas, forms
}
