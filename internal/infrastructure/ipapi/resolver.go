package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/internal/domain/suggestion"
	"github.com/oksasatya/etherescape/internal/observability"
)

// Resolver implements suggestion.GeoResolver using ip-api.com
type Resolver struct {
	BaseURL string
	// LoopbackFallback replaces 127.0.0.1/::1 before lookup; see suggestion.PrepareIP.
	LoopbackFallback string
	Client           *http.Client
	Logger           *logrus.Logger
}

func NewResolver(baseURL, loopbackFallback string, timeout time.Duration, logger *logrus.Logger) *Resolver {
	if baseURL == "" {
		baseURL = "http://ip-api.com"
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Resolver{
		BaseURL:          strings.TrimRight(baseURL, "/"),
		LoopbackFallback: loopbackFallback,
		Client:           &http.Client{Timeout: timeout, Transport: tr},
		Logger:           logger,
	}
}

type lookupResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	City       string `json:"city"`
	RegionName string `json:"regionName"`
}

// Resolve performs a single GET {base}/json/{ip}. No retries.
func (r *Resolver) Resolve(ctx context.Context, ip string) (entity.GeoLocation, error) {
	target, err := suggestion.PrepareIP(ip, r.LoopbackFallback)
	if err != nil {
		return entity.GeoLocation{}, err
	}
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	url := fmt.Sprintf("%s/json/%s?fields=status,message,regionName,city", r.BaseURL, target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return entity.GeoLocation{}, fmt.Errorf("%w: %v", suggestion.ErrLookup, err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	observability.ObserveUpstream("geo", start)
	if err != nil {
		return entity.GeoLocation{}, fmt.Errorf("%w: %v", suggestion.ErrLookup, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		return entity.GeoLocation{}, fmt.Errorf("%w: http %d", suggestion.ErrLookup, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entity.GeoLocation{}, fmt.Errorf("%w: decode: %v", suggestion.ErrLookup, err)
	}
	if body.Status != "" && !strings.EqualFold(body.Status, "success") {
		return entity.GeoLocation{}, fmt.Errorf("%w: %s", suggestion.ErrLookup, body.Message)
	}

	loc, err := suggestion.CheckLocation(body.City, body.RegionName)
	if err != nil {
		return entity.GeoLocation{}, err
	}
	if r.Logger != nil {
		r.Logger.WithFields(logrus.Fields{"ip": target, "city": loc.City, "region": loc.Region}).Debug("ip resolved")
	}
	return loc, nil
}

var _ suggestion.GeoResolver = (*Resolver)(nil)
