package ipapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/internal/domain/suggestion"
)

type fakeIPAPI struct {
	hits     atomic.Int32
	lastPath atomic.Value
	status   int
	body     string
}

func (f *fakeIPAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	f.lastPath.Store(r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func newTestResolver(t *testing.T, f *fakeIPAPI) *Resolver {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewResolver(srv.URL, "129.15.64.228", 2*time.Second, nil)
}

func TestResolveSuccess(t *testing.T) {
	f := &fakeIPAPI{status: http.StatusOK, body: `{"status":"success","city":"Springfield","regionName":"Illinois"}`}
	r := newTestResolver(t, f)

	loc, err := r.Resolve(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, entity.GeoLocation{City: "Springfield", Region: "Illinois"}, loc)
	assert.Equal(t, "/json/8.8.8.8", f.lastPath.Load())
}

func TestResolveUnknownIPSkipsNetwork(t *testing.T) {
	f := &fakeIPAPI{status: http.StatusOK, body: `{}`}
	r := newTestResolver(t, f)

	_, err := r.Resolve(context.Background(), suggestion.UnknownIP)
	require.ErrorIs(t, err, suggestion.ErrNoIP)

	_, err = r.Resolve(context.Background(), "")
	require.ErrorIs(t, err, suggestion.ErrNoIP)

	assert.Zero(t, f.hits.Load())
}

func TestResolveSubstitutesLoopback(t *testing.T) {
	f := &fakeIPAPI{status: http.StatusOK, body: `{"status":"success","city":"Norman","regionName":"Oklahoma"}`}
	r := newTestResolver(t, f)

	_, err := r.Resolve(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "/json/129.15.64.228", f.lastPath.Load())
}

func TestResolveNon2xx(t *testing.T) {
	f := &fakeIPAPI{status: http.StatusTooManyRequests, body: `{}`}
	r := newTestResolver(t, f)

	_, err := r.Resolve(context.Background(), "8.8.8.8")
	require.ErrorIs(t, err, suggestion.ErrLookup)
}

func TestResolveMalformedPayload(t *testing.T) {
	f := &fakeIPAPI{status: http.StatusOK, body: `<html>`}
	r := newTestResolver(t, f)

	_, err := r.Resolve(context.Background(), "8.8.8.8")
	require.ErrorIs(t, err, suggestion.ErrLookup)
}

func TestResolveFailStatus(t *testing.T) {
	f := &fakeIPAPI{status: http.StatusOK, body: `{"status":"fail","message":"reserved range"}`}
	r := newTestResolver(t, f)

	_, err := r.Resolve(context.Background(), "10.0.0.1")
	require.ErrorIs(t, err, suggestion.ErrLookup)
}

func TestResolveIncompleteLocation(t *testing.T) {
	f := &fakeIPAPI{status: http.StatusOK, body: `{"status":"success","city":"","regionName":"Illinois"}`}
	r := newTestResolver(t, f)

	_, err := r.Resolve(context.Background(), "8.8.8.8")
	require.ErrorIs(t, err, suggestion.ErrIncompleteLocation)
}

type countingResolver struct {
	calls int
	loc   entity.GeoLocation
	err   error
}

func (c *countingResolver) Resolve(ctx context.Context, ip string) (entity.GeoLocation, error) {
	c.calls++
	return c.loc, c.err
}

func TestCachedResolverWithoutRedisDelegates(t *testing.T) {
	next := &countingResolver{loc: entity.GeoLocation{City: "Norman", Region: "Oklahoma"}}
	c := NewCachedResolver(next, nil, time.Hour, nil)

	loc, err := c.Resolve(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "Norman", loc.City)
	assert.Equal(t, 1, next.calls)

	_, err = c.Resolve(context.Background(), suggestion.UnknownIP)
	require.ErrorIs(t, err, suggestion.ErrNoIP)
	assert.Equal(t, 1, next.calls)
}
