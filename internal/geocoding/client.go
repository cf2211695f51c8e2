// Package geocoding implements a client for the BAN address API, the external
// collaborator that turns free-text addresses into WGS84 coordinates and back.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/covermap/covermap/internal/errors"
	"github.com/covermap/covermap/internal/geo"
)

// Config defines settings for the geocoding client.
type Config struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec float64
}

// Client calls the BAN geocoding service with a request rate limit.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a geocoding client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api-adresse.data.gouv.fr"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RequestsPerSec == 0 {
		config.RequestsPerSec = 10
	}
	return &Client{
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		userAgent: config.UserAgent,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSec), 1),
	}
}

// Search resolves a free-text address to a geographic point, taking the best
// fit the service returns.
func (c *Client) Search(ctx context.Context, query string) (geo.Point, error) {
	params := url.Values{}
	params.Set("q", query)

	var collection featureCollection
	if err := c.doRequest(ctx, "search", params, &collection); err != nil {
		return geo.Point{}, err
	}

	if len(collection.Features) == 0 {
		return geo.Point{}, errors.NewAddressNotFoundError()
	}
	coords := collection.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return geo.Point{}, errors.NewExternalError("geocoder", "search",
			fmt.Errorf("malformed geometry in response"))
	}

	return geo.Point{Lon: coords[0], Lat: coords[1]}, nil
}

// Reverse resolves a geographic point to the best-fit address, trimmed to the
// outward-facing fields.
func (c *Client) Reverse(ctx context.Context, point geo.Point) (Address, error) {
	params := url.Values{}
	params.Set("lon", strconv.FormatFloat(point.Lon, 'f', -1, 64))
	params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))

	var collection featureCollection
	if err := c.doRequest(ctx, "reverse", params, &collection); err != nil {
		return Address{}, err
	}

	if len(collection.Features) == 0 {
		return Address{}, errors.NewAppError(errors.ErrorTypeNotFound,
			"ADDRESS_NOT_FOUND", "No address found for these coordinates")
	}

	props := collection.Features[0].Properties
	return Address{
		City:     props.City,
		Context:  props.Context,
		Label:    props.Label,
		Name:     props.Name,
		Postcode: props.Postcode,
		Street:   props.Street,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.NewExternalError("geocoder", endpoint, err)
	}

	u := fmt.Sprintf("%s/%s/?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.NewExternalError("geocoder", endpoint, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewExternalError("geocoder", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewExternalError("geocoder", endpoint,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.NewExternalError("geocoder", endpoint, err)
	}
	return nil
}
