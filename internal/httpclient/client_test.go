package httpclient

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/unitx/errors"
)

func TestNew_Defaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, DefaultTimeout, c.Timeout)
	assert.Equal(t, DefaultMaxRedirects, c.maxRedirects)
	assert.Equal(t, []string{"http", "https"}, c.allowedSchemes)
	assert.False(t, c.allowPrivate)
	assert.NotNil(t, c.Transport, "blocking transport installed")

	c = New(Options{Timeout: time.Second, MaxRedirects: 3, AllowedSchemes: []string{"https"}, AllowPrivate: true})
	assert.Equal(t, time.Second, c.Timeout)
	assert.Equal(t, 3, c.maxRedirects)
	assert.Equal(t, []string{"https"}, c.allowedSchemes)
	assert.Nil(t, c.Transport)
}

func TestValidateURL(t *testing.T) {
	c := New(Options{})
	tests := []struct {
		name        string
		url         string
		errContains string
	}{
		{"https", "https://example.org/units.toml", ""},
		{"http", "http://example.org", ""},
		{"public IP", "http://8.8.8.8/", ""},
		{"file scheme", "file:///etc/passwd", "scheme"},
		{"ftp scheme", "ftp://example.org", "scheme"},
		{"localhost", "http://localhost/units.toml", "localhost"},
		{"localhost subdomain", "http://mirror.localhost/", "localhost"},
		{"loopback", "http://127.0.0.1:8080/", "private"},
		{"private network", "http://192.168.1.10/", "private"},
		{"link-local metadata", "http://169.254.169.254/latest/", "private"},
		{"IPv6 loopback", "http://[::1]/", "private"},
		{"credentials", "http://mirror.example.org@localhost/", "@"},
		{"missing host", "http:///path", "hostname"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ValidateURL(tt.url)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidateURL_AllowPrivate(t *testing.T) {
	c := New(Options{AllowPrivate: true})
	_, err := c.ValidateURL("http://127.0.0.1:8080/units.toml")
	assert.NoError(t, err)

	_, err = c.ValidateURL("file:///etc/passwd")
	assert.True(t, errors.Is(err, ErrBlocked))
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"172.32.0.1", false},
		{"192.168.0.1", true},
		{"127.0.0.1", true},
		{"169.254.1.1", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"8.8.8.8", false},
		{"::1", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"2001:db8::1", true},
		{"2606:4700::1111", false},
		{"::ffff:10.0.0.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.private, isPrivateIP(net.ParseIP(tt.ip)))
		})
	}
}

func TestIsLocalhost(t *testing.T) {
	for host, want := range map[string]bool{
		"localhost":             true,
		"LOCALHOST":             true,
		"localhost.localdomain": true,
		"mirror.localhost":      true,
		"example.org":           false,
		"local.host":            false,
	} {
		assert.Equal(t, want, isLocalhost(host), host)
	}
}

func TestDo_BlocksLoopbackServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "version = \"1.0.0\"\n")
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = New(Options{}).Do(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBlocked))

	resp, err := New(Options{AllowPrivate: true}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "version = \"1.0.0\"\n", string(body))
}

func TestMaxRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/again", http.StatusFound)
	}))
	defer server.Close()

	c := New(Options{AllowPrivate: true, MaxRedirects: 2})
	resp, err := c.Get(server.URL)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 2 redirects")
}

func TestRedirectToBlockedScheme(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "ftp://example.org/units.toml", http.StatusFound)
	}))
	defer server.Close()

	c := New(Options{AllowPrivate: true})
	resp, err := c.Get(server.URL)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect blocked")
}
