package ogc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/data-tales/datasources/internal/domain"
	"github.com/data-tales/datasources/internal/logger"
)

const wms111Negotiated = `<?xml version="1.0"?>
<WMT_MS_Capabilities version="1.1.1">
  <Capability>
    <Layer><Name>legacy</Name><Title>Legacy layer</Title></Layer>
  </Capability>
</WMT_MS_Capabilities>`

func testNegotiator(ts *httptest.Server, cfg TransportConfig) *Negotiator {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 5 * time.Second
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 2 * time.Second
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 1 << 20
	}
	cfg.UserAgent = "test-agent"
	log := logger.New("error", false)
	tr := NewTransport(cfg, log).WithHTTPClient(ts.Client())
	return NewNegotiator(tr, 400, log)
}

func wmsService(ts *httptest.Server) domain.ServiceDescriptor {
	return domain.ServiceDescriptor{
		Key:     "test_wms",
		Label:   "Test WMS",
		Kind:    domain.KindWMS,
		BaseURL: ts.URL + "/wms?SERVICE=WMS",
	}
}

func TestNegotiateFallsBackToOlderVersion(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("version") {
		case "1.3.0":
			http.Error(w, "version not supported", http.StatusBadRequest)
		case "1.1.1":
			_, _ = w.Write([]byte(wms111Negotiated))
		default:
			http.Error(w, "unexpected version", http.StatusBadRequest)
		}
	}))
	defer ts.Close()

	neg := testNegotiator(ts, TransportConfig{})
	caps, err := neg.Fetch(context.Background(), wmsService(ts))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if caps.Version != "1.1.1" {
		t.Errorf("negotiated version = %q, want 1.1.1", caps.Version)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2 (1.3.0 then 1.1.1)", got)
	}
	if len(caps.Items) != 1 || caps.Items[0].Name != "legacy" {
		t.Errorf("Items = %+v, want the single legacy layer", caps.Items)
	}
	if !strings.Contains(caps.CapabilitiesURL, "version=1.1.1") {
		t.Errorf("CapabilitiesURL = %q, want the 1.1.1 candidate url", caps.CapabilitiesURL)
	}
}

func TestNegotiateUnspecifiedSentinel(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("version") != "" {
			// Rejects every explicit version, answers an unqualified request.
			http.Error(w, "no", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(wms111Negotiated))
	}))
	defer ts.Close()

	neg := testNegotiator(ts, TransportConfig{})
	caps, err := neg.Fetch(context.Background(), wmsService(ts))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3 (all WMS candidates)", got)
	}
	// The document's own version attribute wins over the blank candidate.
	if caps.Version != "1.1.1" {
		t.Errorf("negotiated version = %q, want 1.1.1 from the document", caps.Version)
	}
}

func TestNegotiateMalformedDocumentTriesNextCandidate(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("version") == "1.3.0" {
			// 200 with garbage counts as a failed candidate, not a success.
			_, _ = w.Write([]byte("<html>error page</html"))
			return
		}
		_, _ = w.Write([]byte(wms111Negotiated))
	}))
	defer ts.Close()

	neg := testNegotiator(ts, TransportConfig{})
	caps, err := neg.Fetch(context.Background(), wmsService(ts))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if caps.Version != "1.1.1" {
		t.Errorf("negotiated version = %q, want 1.1.1", caps.Version)
	}
}

func TestNegotiateAllCandidatesFail(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "permanently broken "+strings.Repeat("x", 300), http.StatusNotFound)
	}))
	defer ts.Close()

	neg := testNegotiator(ts, TransportConfig{})
	_, err := neg.Fetch(context.Background(), wmsService(ts))
	if err == nil {
		t.Fatal("Fetch() expected error when every candidate fails")
	}
	if KindOf(err) != KindCapabilitiesUnavailable {
		t.Errorf("KindOf(err) = %v, want KindCapabilitiesUnavailable", KindOf(err))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}

	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatal("error is not a typed *Error")
	}
	if len(typed.Msg) > maxErrorDetail+3 {
		t.Errorf("error detail length = %d, want at most %d plus ellipsis", len(typed.Msg), maxErrorDetail)
	}
}

func TestNegotiateInvalidEndpointStopsImmediately(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server must not be contacted for an invalid endpoint")
	}))
	defer ts.Close()

	neg := testNegotiator(ts, TransportConfig{})
	svc := domain.ServiceDescriptor{
		Key:     "bad",
		Kind:    domain.KindWFS,
		BaseURL: "http://insecure.example.com/wfs",
	}
	_, err := neg.Fetch(context.Background(), svc)
	if err == nil {
		t.Fatal("Fetch() expected error for non-https base url")
	}
	if KindOf(err) != KindInvalidEndpoint {
		t.Errorf("KindOf(err) = %v, want KindInvalidEndpoint", KindOf(err))
	}
}

func TestDisplayVersion(t *testing.T) {
	if got := displayVersion(""); got != "unspecified" {
		t.Errorf("displayVersion(\"\") = %q, want unspecified", got)
	}
	if got := displayVersion("2.0.0"); got != "2.0.0" {
		t.Errorf("displayVersion(2.0.0) = %q, want 2.0.0", got)
	}
}
