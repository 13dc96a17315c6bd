package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"commonwealth/internal/types"
)

const defaultTimeout = 10 * time.Second

// HTTPSource reads community data from the Commonwealth REST API. The three
// queries run concurrently.
type HTTPSource struct {
	baseURL string
	token   string
	http    *http.Client
}

type HTTPOption func(*HTTPSource)

func WithToken(token string) HTTPOption {
	return func(s *HTTPSource) {
		s.token = strings.TrimSpace(token)
	}
}

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.http = client
		}
	}
}

func WithTimeout(timeout time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if timeout > 0 {
			s.http = &http.Client{Timeout: timeout, Transport: s.http.Transport}
		}
	}
}

func NewHTTPSource(baseURL string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type topicsResponse struct {
	Topics []types.Topic `json:"topics"`
}

type membershipsResponse struct {
	Memberships []types.Membership `json:"memberships"`
	User        *types.User        `json:"user,omitempty"`
}

func (s *HTTPSource) Load(ctx context.Context, communityID string) (*types.CommunityData, error) {
	id := url.PathEscape(communityID)
	query := "?community_id=" + url.QueryEscape(communityID)

	var (
		community   types.Community
		topics      topicsResponse
		memberships membershipsResponse
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.doJSON(ctx, "/communities/"+id, &community)
		if apiErr := asAPIError(err); apiErr != nil && apiErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrCommunityNotFound, communityID)
		}
		return err
	})
	g.Go(func() error {
		return s.doJSON(ctx, "/topics"+query, &topics)
	})
	g.Go(func() error {
		err := s.doJSON(ctx, "/memberships"+query, &memberships)
		// Anonymous visitors have no memberships.
		if apiErr := asAPIError(err); apiErr != nil && apiErr.StatusCode == http.StatusUnauthorized {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if community.ID == "" {
		community.ID = communityID
	}
	return &types.CommunityData{
		Community:   &community,
		Topics:      topics.Topics,
		Memberships: memberships.Memberships,
		User:        memberships.User,
	}, nil
}

func (s *HTTPSource) doJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func asAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
