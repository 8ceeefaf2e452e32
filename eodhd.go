package kodak

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/sstandnes/kodak/date"
)

// This file implements the EODHD-backed market data provider. It is the live
// collaborator behind MarketDataProvider: the engine only ever sees the price
// map it returns, and any gap degrades through the resolver tiers.

// diskCache is a simple disk cache for HTTP responses. Keys embed the current
// day, so cached quotes expire daily.
type diskCache struct {
	base http.RoundTripper
	log  zerolog.Logger
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("method", resp.Request.Method).Str("host", resp.Request.URL.Host).
		Str("path", resp.Request.URL.Path).Str("status", resp.Status).Msg("quote fetch")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("quote cache write failed (ignored)")
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), "kodak-"+key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(os.TempDir(), "kodak-"+key))
	if err != nil {
		return err
	}
	_, err = f.Write(content)
	f.Close()
	return err
}

// EODHDProvider fetches end-of-day closes from the EODHD API.
type EODHDProvider struct {
	apiKey string
	client *http.Client
	log    zerolog.Logger
}

// NewEODHDProvider creates a provider with a daily-expiring disk cache.
func NewEODHDProvider(apiKey string, log zerolog.Logger) *EODHDProvider {
	client := &http.Client{Transport: &diskCache{base: http.DefaultTransport, log: log}}
	return &EODHDProvider{apiKey: apiKey, client: client, log: log}
}

// jwget performs an HTTP GET and unmarshals the JSON response into data.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// PricesOn fetches the close on or nearest before the given date for each
// symbol. Individual symbol failures are logged and skipped: the result is a
// partial map and the engine's fallback chain handles the rest.
func (p *EODHDProvider) PricesOn(symbols []string, on date.Date) (map[string]float64, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("eodhd: missing API key")
	}
	out := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		price, err := p.closeOn(symbol, on)
		if err != nil {
			p.log.Warn().Err(err).Str("symbol", symbol).Stringer("date", on).Msg("quote unavailable")
			continue
		}
		if price > 0 {
			out[symbol] = price
		}
	}
	return out, nil
}

// closeOn queries a small trailing window ending on the target date and keeps
// the last close, covering weekends and market holidays.
func (p *EODHDProvider) closeOn(symbol string, on date.Date) (float64, error) {
	addr := fmt.Sprintf("https://eodhd.com/api/eod/%s?from=%s&to=%s&fmt=json&api_token=%s",
		url.PathEscape(symbol), on.Add(-7), on, url.QueryEscape(p.apiKey))

	var jobj any
	if err := jwget(p.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("eodhd %q: %w", symbol, err)
	}
	jval, err := jsonpath.Get("$[-1:].close", jobj)
	if err != nil {
		return 0, fmt.Errorf("eodhd %q: no close in response: %w", symbol, err)
	}
	// jsonpath may return a list of one answer; keep the first if so.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return 0, fmt.Errorf("eodhd %q: empty window", symbol)
		}
		jval = jlist[0]
	}
	price, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("eodhd %q: close is not a number: %v", symbol, jval)
	}
	return price, nil
}

var _ MarketDataProvider = (*EODHDProvider)(nil)
