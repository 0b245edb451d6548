package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/baajur/users/internal/errs"
)

// Fetcher calls provider profile-info endpoints. Every call is bound
// by the client timeout; exceeding it is an upstream error, never a
// retry.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Google fetches the profile for an access token. Google takes the
// token as a bearer header, attached by the oauth2 transport.
func (f *Fetcher) Google(ctx context.Context, infoURL, accessToken string) (*Google, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return nil, errs.Upstream("google", err)
	}

	client := &http.Client{
		Timeout: f.client.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}),
		},
	}

	var p Google
	if err := f.do(client, req, &p); err != nil {
		return nil, errs.Upstream("google", err)
	}
	return &p, nil
}

// Facebook fetches the profile for an access token. Facebook takes
// the token and field list as query parameters.
func (f *Fetcher) Facebook(ctx context.Context, infoURL, accessToken string) (*Facebook, error) {
	q := url.Values{}
	q.Set("fields", "first_name,last_name,gender,email,name")
	q.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errs.Upstream("facebook", err)
	}

	var p Facebook
	if err := f.do(f.client, req, &p); err != nil {
		return nil, errs.Upstream("facebook", err)
	}
	return &p, nil
}

func (f *Fetcher) do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	return nil
}
