package geocoding

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"kmend/agriroute/pkg/datastructure"

	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Photon komoot photon /api client, used as the secondary geocoder.
// Responses are GeoJSON feature collections.
type Photon struct {
	client      *httpclient.Client
	baseURL     string
	countryCode string
}

func NewPhoton(baseURL, countryCodes string, timeout time.Duration) *Photon {
	cc := ""
	if codes := strings.Split(countryCodes, ","); len(codes) > 0 {
		cc = strings.ToUpper(strings.TrimSpace(codes[0]))
	}
	return &Photon{
		client:      httpclient.NewClient(httpclient.WithHTTPTimeout(timeout), httpclient.WithRetryCount(0)),
		baseURL:     strings.TrimRight(baseURL, "/"),
		countryCode: cc,
	}
}

func (p *Photon) Name() string {
	return "photon"
}

func (p *Photon) Geocode(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "5")

	res, err := doGet(ctx, p.client, p.baseURL+"/api?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("photon: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("photon: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("photon: %w", err)
	}

	candidates := make([]Candidate, 0, len(fc.Features))
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		if p.countryCode != "" {
			if cc := f.Properties.MustString("countrycode", ""); cc != "" && !strings.EqualFold(cc, p.countryCode) {
				continue
			}
		}
		candidates = append(candidates, Candidate{
			Coord:       datastructure.NewCoordinate(pt.Lat(), pt.Lon()),
			DisplayName: f.Properties.MustString("name", ""),
		})
	}
	return candidates, nil
}
