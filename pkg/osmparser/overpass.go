package osmparser

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kmend/agriroute/pkg/datastructure"

	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/paulmach/osm"
)

const overpassQuery = `[out:xml][timeout:%d];
(
  way["highway"](%f,%f,%f,%f);
);
(._;>;);
out body;`

// OverpassSource downloads the road network of a bounding box from an Overpass API endpoint.
type OverpassSource struct {
	client  *httpclient.Client
	url     string
	timeout time.Duration
}

func NewOverpassSource(endpoint string, timeout time.Duration) *OverpassSource {
	return &OverpassSource{
		client:  httpclient.NewClient(httpclient.WithHTTPTimeout(timeout), httpclient.WithRetryCount(0)),
		url:     endpoint,
		timeout: timeout,
	}
}

func (s *OverpassSource) Name() string {
	return "overpass"
}

func (s *OverpassSource) FetchRoadNetwork(ctx context.Context, bb datastructure.BoundingBox) (*datastructure.RoadGraph, error) {
	serverTimeout := int(s.timeout.Seconds())
	if serverTimeout < 1 {
		serverTimeout = 1
	}
	query := fmt.Sprintf(overpassQuery, serverTimeout, bb.MinLat, bb.MinLon, bb.MaxLat, bb.MaxLon)
	form := url.Values{"data": []string{query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.client.Do(req)
	if err != nil {
		if res != nil {
			res.Body.Close()
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("overpass request: %w", ctx.Err())
		}
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("overpass returned status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	return ParseOSMXML(res.Body, bb.Key(), time.Now())
}

// ParseOSMXML reads an osm xml document (nodes + ways) into a RoadGraph.
func ParseOSMXML(r io.Reader, key string, fetchedAt time.Time) (*datastructure.RoadGraph, error) {
	o := &osm.OSM{}
	if err := xml.NewDecoder(r).Decode(o); err != nil {
		return nil, fmt.Errorf("decode osm xml: %w", err)
	}

	coords := make(map[osm.NodeID]datastructure.Coordinate, len(o.Nodes))
	for _, n := range o.Nodes {
		coords[n.ID] = datastructure.NewCoordinate(n.Lat, n.Lon)
	}
	ways := make([]*osm.Way, 0, len(o.Ways))
	for _, w := range o.Ways {
		ways = append(ways, w)
	}
	fillWayNodeCoords(ways, coords)

	return BuildRoadGraph(key, fetchedAt, ways)
}
