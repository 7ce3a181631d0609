package dish

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/R167/starnmea/internal/output"
	"github.com/R167/starnmea/internal/security"
	"github.com/R167/starnmea/internal/telemetry"
)

const userAgent = "starnmea/1.0"

var diagnosticPaths = []string{"/api/diagnostic", "/"}

// Diagnostics fetches the dish HTTP diagnostic document, the fallback data
// source when the gRPC API is unavailable. Response format:
// {"location": {"latitude", "longitude", "altitudeMeters"}, ...}
type Diagnostics struct {
	client  *http.Client
	maxBody int64
	out     output.Output
}

func NewDiagnostics(out output.Output) *Diagnostics {
	cfg := security.DefaultClientConfig()
	return &Diagnostics{
		client:  security.NewHTTPClient(cfg),
		maxBody: cfg.MaxResponseSize,
		out:     out,
	}
}

// FetchLocation tries each diagnostic path on the dish and extracts a
// location from the first usable document. Any per-path failure just moves
// on to the next path.
func (d *Diagnostics) FetchLocation(ctx context.Context, host string) (telemetry.Location, bool) {
	if host == "" {
		return telemetry.Location{}, false
	}
	for _, path := range diagnosticPaths {
		payload, ok := d.fetch(ctx, "http://"+host+path)
		if !ok {
			continue
		}
		if loc, ok := telemetry.Extract(payload); ok {
			return loc, true
		}
	}
	return telemetry.Location{}, false
}

func (d *Diagnostics) fetch(ctx context.Context, url string) (any, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		d.out.Debug("diagnostic fetch %s: %v", url, err)
		return nil, false
	}
	defer resp.Body.Close()
	body, err := security.LimitedReadAll(resp.Body, d.maxBody)
	if err != nil {
		return nil, false
	}

	text := string(body)
	if !isJSONContentType(resp.Header.Get("Content-Type")) {
		// Some dish UIs return HTML with embedded JSON; dig out the first
		// balanced object if the page plausibly carries a location.
		if !strings.Contains(text, "location") || !strings.Contains(text, "latitude") {
			return nil, false
		}
		embedded, ok := embeddedJSON(text)
		if !ok {
			return nil, false
		}
		text = embedded
	}

	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		d.out.Debug("diagnostic parse %s: %v", url, err)
		return nil, false
	}
	return payload, true
}

func isJSONContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// embeddedJSON returns the first balanced brace-delimited object substring.
// Depth tracking only; the dish diagnostic pages do not put braces inside
// string literals, so a full JSON scanner is not warranted.
func embeddedJSON(body string) (string, bool) {
	start := strings.IndexByte(body, '{')
	if start == -1 {
		return "", false
	}
	depth := 0
	for i := start; i < len(body); i++ {
		switch body[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return body[start : i+1], true
			}
		}
	}
	return "", false
}
