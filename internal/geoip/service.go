package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/soukmarket/souk-backend/pkg/config"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
)

const (
	ipifyURL  = "https://api.ipify.org?format=json"
	ipAPIBase = "http://ip-api.com/json/"
	ipWhoBase = "http://ipwho.is/"
)

// LocationResult aggregates the upstream provider payloads for one IP.
type LocationResult struct {
	IP               string         `json:"ip"`
	Location         map[string]any `json:"location"`
	DetailedLocation map[string]any `json:"detailed_location"`
}

// Service resolves the server's public IP and aggregates geo lookups for it.
type Service interface {
	Lookup(ctx context.Context) (*LocationResult, error)
}

type service struct {
	client *http.Client
}

// ServiceParams carries the geoip service dependencies. HTTPClient is
// optional; when nil a client with the configured timeout is used.
type ServiceParams struct {
	Config     config.GeoIPConfig
	HTTPClient *http.Client
}

func NewService(params ServiceParams) Service {
	client := params.HTTPClient
	if client == nil {
		timeout := params.Config.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &service{client: client}
}

// Lookup resolves the public IP via ipify, then fans out to ip-api and
// ipwho.is. The two location payloads pass through untyped so upstream
// field additions never break the response.
func (s *service) Lookup(ctx context.Context) (*LocationResult, error) {
	var ipPayload struct {
		IP string `json:"ip"`
	}
	if err := s.getJSON(ctx, ipifyURL, &ipPayload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving public ip")
	}
	if ipPayload.IP == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ip provider returned empty address")
	}

	var location map[string]any
	if err := s.getJSON(ctx, ipAPIBase+ipPayload.IP, &location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up ip location")
	}

	var detailed map[string]any
	if err := s.getJSON(ctx, ipWhoBase+ipPayload.IP, &detailed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up detailed ip location")
	}

	return &LocationResult{
		IP:               ipPayload.IP,
		Location:         location,
		DetailedLocation: detailed,
	}, nil
}

func (s *service) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
