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

	"kmend/agriroute/pkg/datastructure"

	"github.com/gojek/heimdall/v7/httpclient"
)

const userAgent = "agriroute/1.0"

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Nominatim openstreetmap nominatim /search client.
type Nominatim struct {
	client       *httpclient.Client
	baseURL      string
	countryCodes string
}

func NewNominatim(baseURL, countryCodes string, timeout time.Duration) *Nominatim {
	return &Nominatim{
		client:       httpclient.NewClient(httpclient.WithHTTPTimeout(timeout), httpclient.WithRetryCount(0)),
		baseURL:      strings.TrimRight(baseURL, "/"),
		countryCodes: countryCodes,
	}
}

func (n *Nominatim) Name() string {
	return "nominatim"
}

func (n *Nominatim) Geocode(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "5")
	if n.countryCodes != "" {
		params.Set("countrycodes", n.countryCodes)
	}

	var places []nominatimPlace
	if err := getJSON(ctx, n.client, n.baseURL+"/search?"+params.Encode(), &places); err != nil {
		return nil, fmt.Errorf("nominatim: %w", err)
	}

	candidates := make([]Candidate, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		candidates = append(candidates, Candidate{
			Coord:       datastructure.NewCoordinate(lat, lon),
			DisplayName: p.DisplayName,
		})
	}
	return candidates, nil
}

func doGet(ctx context.Context, client *httpclient.Client, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		if res != nil {
			res.Body.Close()
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	return res, nil
}

func getJSON(ctx context.Context, client *httpclient.Client, rawURL string, dst interface{}) error {
	res, err := doGet(ctx, client, rawURL)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(dst)
}
