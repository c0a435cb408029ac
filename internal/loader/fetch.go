package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// statusError is a non-2xx HTTP response.
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d %s", e.Code, http.StatusText(e.Code))
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// resolve joins a relative location onto base. Absolute paths and URLs are
// returned unchanged.
func resolve(base, location string) string {
	if base == "" || isRemote(location) || filepath.IsAbs(location) {
		return location
	}
	if isRemote(base) {
		u, err := url.Parse(base)
		if err != nil {
			return location
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		ref, err := url.Parse(location)
		if err != nil {
			return location
		}
		return u.ResolveReference(ref).String()
	}
	return filepath.Join(base, location)
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if !isRemote(location) {
		return os.ReadFile(location)
	}

	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		data, err := l.get(ctx, location)
		if err != nil {
			l.log.Debug("fetch attempt failed",
				zap.String("url", location),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return data, err
	}

	tries := l.cfg.Fetch.MaxAttempts
	if tries <= 0 {
		tries = 1
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = l.retryInterval

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(tries)),
	)
}

func (l *Loader) get(ctx context.Context, location string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, location, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := &statusError{Code: resp.StatusCode}
		if retryable(resp.StatusCode) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	data, err := readAllLimited(resp.Body, maxBodyBytes)
	if errors.Is(err, errBodyTooLarge) {
		return nil, backoff.Permanent(err)
	}
	return data, err
}

func retryable(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

const (
	defaultTimeout       = 60 * time.Second
	defaultRetryInterval = 500 * time.Millisecond
)
