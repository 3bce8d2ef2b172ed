package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/logger"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim queries the Nominatim search API.
type Nominatim struct {
	client *resty.Client
	log    *zap.SugaredLogger
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatim creates a client for the Nominatim instance at baseURL.
// Nominatim's usage policy requires an identifying userAgent.
func NewNominatim(baseURL, userAgent string, timeout time.Duration, log *zap.SugaredLogger) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Nominatim{client: client, log: logger.OrNop(log)}
}

// Geocode returns the best match for name.
func (n *Nominatim) Geocode(ctx context.Context, name string) (Location, bool, error) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      name,
			"format": "jsonv2",
			"limit":  "1",
		}).
		Get("/search")
	if err != nil {
		return Location{}, false, classify(ctx, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusTooManyRequests,
		code == http.StatusBadGateway,
		code == http.StatusServiceUnavailable,
		code == http.StatusGatewayTimeout:
		return Location{}, false, fmt.Errorf("%w: HTTP %d", ErrUnavailable, code)
	case code != http.StatusOK:
		return Location{}, false, fmt.Errorf("nominatim returned HTTP %d", code)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(resp.Body(), &places); err != nil {
		return Location{}, false, fmt.Errorf("decoding nominatim response: %w", err)
	}
	if len(places) == 0 {
		n.log.Debugf("No geocoding match for %q", name)
		return Location{}, false, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Location{}, false, fmt.Errorf("parsing latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Location{}, false, fmt.Errorf("parsing longitude %q: %w", places[0].Lon, err)
	}

	return Location{Latitude: lat, Longitude: lon, DisplayName: places[0].DisplayName}, true, nil
}

// classify maps transport errors onto ErrTimeout and ErrUnavailable. Any
// failure to reach the service or read its reply is unavailability; only
// cancellation of the caller's context is returned as is.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
		return ctxErr
	}

	var (
		netErr net.Error
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.As(err, &dnsErr),
		errors.As(err, &opErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("nominatim request: %w", err)
}
