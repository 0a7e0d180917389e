// Package httpclient provides the HTTP client used to download definitions files.
// It refuses private, loopback and link-local destinations unless told otherwise,
// both for the requested URL and for every redirect and resolved address.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/teranos/unitx/errors"
)

// DefaultTimeout bounds a whole download, redirects included
const DefaultTimeout = 30 * time.Second

// DefaultMaxRedirects is the redirect limit when Options leaves it unset
const DefaultMaxRedirects = 10

// ErrBlocked marks requests refused by the address checks
var ErrBlocked = errors.New("request blocked")

// Options customizes a Client. The zero value gives the defaults.
type Options struct {
	Timeout        time.Duration
	MaxRedirects   int
	AllowedSchemes []string // default: http, https
	AllowPrivate   bool     // allow loopback and private networks, e.g. an intranet mirror
}

// Client is an http.Client that validates destinations before connecting.
type Client struct {
	*http.Client
	allowedSchemes []string
	allowPrivate   bool
	maxRedirects   int
}

// New creates a Client from opts
func New(opts Options) *Client {
	c := &Client{
		Client:         &http.Client{Timeout: opts.Timeout},
		allowedSchemes: opts.AllowedSchemes,
		allowPrivate:   opts.AllowPrivate,
		maxRedirects:   opts.MaxRedirects,
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.maxRedirects == 0 {
		c.maxRedirects = DefaultMaxRedirects
	}
	if len(c.allowedSchemes) == 0 {
		c.allowedSchemes = []string{"http", "https"}
	}

	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= c.maxRedirects {
			return errors.Newf("stopped after %d redirects", c.maxRedirects)
		}
		if err := c.validateURL(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	if !c.allowPrivate {
		dialer := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}
		c.Transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, _, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, errors.Wrap(err, "invalid address")
				}
				// resolve here so a name cannot point at a private address (DNS rebinding)
				ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
				if err != nil {
					return nil, errors.Wrapf(err, "failed to resolve host %q", host)
				}
				for _, ip := range ips {
					if isPrivateIP(ip) {
						return nil, errors.Mark(errors.Newf("private IP address blocked: %s", ip), ErrBlocked)
					}
				}
				return dialer.DialContext(ctx, network, addr)
			},
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}
	return c
}

// ValidateURL parses rawURL and checks its scheme and host
func (c *Client) ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}
	if err := c.validateURL(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) validateURL(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	if !slices.Contains(c.allowedSchemes, scheme) {
		return errors.Mark(errors.Newf("scheme %q not allowed (allowed: %v)", scheme, c.allowedSchemes), ErrBlocked)
	}
	// http://mirror.example@localhost/ reads as one host and connects to another
	if u.User != nil {
		return errors.Mark(errors.New("URL contains @ character (credentials are not supported)"), ErrBlocked)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return errors.New("URL missing hostname")
	}
	if c.allowPrivate {
		return nil
	}
	if isLocalhost(hostname) {
		return errors.Mark(errors.New("localhost access blocked"), ErrBlocked)
	}
	if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
		return errors.Mark(errors.Newf("private IP address blocked: %s", hostname), ErrBlocked)
	}
	return nil
}

// Do validates the request URL and sends it
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.validateURL(req.URL); err != nil {
		return nil, errors.Wrap(err, "request blocked")
	}
	return c.Client.Do(req)
}

var privateBlocks = []net.IPNet{
	{IP: net.IPv4(10, 0, 0, 0), Mask: net.CIDRMask(8, 32)},
	{IP: net.IPv4(172, 16, 0, 0), Mask: net.CIDRMask(12, 32)},
	{IP: net.IPv4(192, 168, 0, 0), Mask: net.CIDRMask(16, 32)},
	{IP: net.IPv4(127, 0, 0, 0), Mask: net.CIDRMask(8, 32)},
	{IP: net.IPv4(169, 254, 0, 0), Mask: net.CIDRMask(16, 32)},
	{IP: net.IPv4(0, 0, 0, 0), Mask: net.CIDRMask(8, 32)},
	{IP: net.IPv4(224, 0, 0, 0), Mask: net.CIDRMask(4, 32)},
	{IP: net.IPv4(240, 0, 0, 0), Mask: net.CIDRMask(4, 32)},
}

// isPrivateIP reports loopback, private, link-local, multicast and reserved addresses
func isPrivateIP(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		for _, block := range privateBlocks {
			if block.Contains(ip4) {
				return true
			}
		}
		return false
	}
	if len(ip) != net.IPv6len {
		return false
	}
	switch {
	case ip.IsLoopback(), ip.IsLinkLocalUnicast(), ip.IsMulticast(), ip.IsUnspecified():
		return true
	case ip[0]&0xfe == 0xfc: // fc00::/7 unique local
		return true
	case ip[0] == 0xfe && ip[1]&0xc0 == 0xc0: // fec0::/10 site-local
		return true
	case ip[0] == 0x20 && ip[1] == 0x01 && ip[2] == 0x0d && ip[3] == 0xb8: // 2001:db8::/32
		return true
	}
	return false
}

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "localhost.localdomain" ||
		strings.HasSuffix(hostname, ".localhost")
}
