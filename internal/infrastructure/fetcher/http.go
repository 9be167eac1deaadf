package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
)

const (
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.5"
	acceptEncoding = "gzip, deflate, br"
)

// newHTTPClient builds the client shared by all strategies.
// Compression is negotiated and decoded by readBody so brotli is supported.
func newHTTPClient(opts Options) *http.Client {
	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   opts.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			DisableCompression:  true,
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
}

// setBrowserHeaders makes the request look like a regular browser page load.
func setBrowserHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Accept-Encoding", acceptEncoding)
}

// readBody reads at most maxBytes of decoded content from resp.
// When transcode is set the body is converted to UTF-8 from its declared charset.
func readBody(resp *http.Response, maxBytes int64, transcode bool) ([]byte, error) {
	var reader io.Reader = io.LimitReader(resp.Body, maxBytes)

	reader, err := decompressReader(resp.Header.Get("Content-Encoding"), reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecode, err)
	}

	if transcode {
		if utf8Reader, err := charset.NewReader(reader, resp.Header.Get("Content-Type")); err == nil {
			reader = utf8Reader
		}
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// decompressReader wraps a reader with the decoder for the given Content-Encoding.
func decompressReader(encoding string, reader io.Reader) (io.Reader, error) {
	switch encoding {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}
