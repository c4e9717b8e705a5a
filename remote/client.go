package remote

import (
	colsync "github.com/colsync/colsync/lib"

	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MethodMkcol is the collection-creation method of the store's REST
// interface.
const MethodMkcol = "MKCOL"

type namedEntry struct {
	Name string `xml:"name,attr"`
}

// collectionListing mirrors the XML body returned by a GET on a collection:
// <collection name="..."><collection name="a"/><resource name="b"/></collection>
type collectionListing struct {
	XMLName     xml.Name     `xml:"collection"`
	Collections []namedEntry `xml:"collection"`
	Resources   []namedEntry `xml:"resource"`
}

type httpClient struct {
	base     string
	username string
	password string
	client   *http.Client
}

// New builds the HTTP remote tree client for the store described by cfg.
// Every request carries basic auth; path segments are percent-encoded on the
// way into request URLs.
func New(cfg colsync.Config) colsync.Client {
	return &httpClient{
		base:     strings.TrimRight(cfg.ServerURL, "/") + cfg.RestPrefix,
		username: cfg.Username,
		password: cfg.Password,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *httpClient) url(p string) string {
	return c.base + colsync.EncodeRemotePath(colsync.NormalizeRemotePath(p))
}

// do performs one exchange. Any network failure or unexpected status
// surfaces as a *colsync.TransportError; nothing is retried.
func (c *httpClient) do(method, p string, body io.Reader, accept func(int) bool) (*http.Response, error) {
	u := c.url(p)

	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return nil, &colsync.TransportError{Method: method, URL: u, Err: err}
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &colsync.TransportError{Method: method, URL: u, Err: err}
	}

	if !accept(resp.StatusCode) {
		resp.Body.Close()
		return nil, &colsync.TransportError{Method: method, URL: u, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	return resp, nil
}

func is2xx(code int) bool {
	return code >= 200 && code < 300
}

func (c *httpClient) List(p string) (colsync.Listing, error) {
	resp, err := c.do(http.MethodGet, p, nil, is2xx)
	if err != nil {
		return colsync.Listing{}, err
	}
	defer resp.Body.Close()

	var parsed collectionListing
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return colsync.Listing{}, &colsync.TransportError{Method: http.MethodGet, URL: c.url(p), Err: fmt.Errorf("invalid listing: %v", err)}
	}

	var listing colsync.Listing
	for _, e := range parsed.Collections {
		if e.Name != "" {
			listing.Collections = append(listing.Collections, e.Name)
		}
	}
	for _, e := range parsed.Resources {
		if e.Name != "" {
			listing.Resources = append(listing.Resources, e.Name)
		}
	}

	return listing, nil
}

func (c *httpClient) Read(p string) ([]byte, error) {
	resp, err := c.do(http.MethodGet, p, nil, is2xx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &colsync.TransportError{Method: http.MethodGet, URL: c.url(p), Err: err}
	}
	return data, nil
}

// Write uploads content as-is: the body is never encoded, only the path is.
func (c *httpClient) Write(p string, data []byte) error {
	resp, err := c.do(http.MethodPut, p, bytes.NewReader(data), is2xx)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// EnsureCollection creates a collection. The store answers 405 when the
// collection already exists, which is a success here: callers create
// unconditionally instead of probing for existence first.
func (c *httpClient) EnsureCollection(p string) error {
	resp, err := c.do(MethodMkcol, p, nil, func(code int) bool {
		return is2xx(code) || code == http.StatusMethodNotAllowed
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
