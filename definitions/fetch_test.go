package definitions

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/internal/httpclient"
)

func TestFetch_LocalFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "furlong.toml")
	writeFile(t, src, furlongTOML)
	dst := filepath.Join(t.TempDir(), "cache", "furlong.toml")

	set, err := Fetch(context.Background(), src, dst, nil)
	require.NoError(t, err)
	require.Len(t, set.Units, 1)
	assert.Equal(t, "fur", set.Units[0].Symbol)

	info, err := os.Lstat(dst)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "fetched file is a copy, not a link")
}

func TestFetch_RejectsInvalidDefinitions(t *testing.T) {
	src := filepath.Join(t.TempDir(), "broken.toml")
	writeFile(t, src, "this is = = not toml")
	dst := filepath.Join(t.TempDir(), "broken.toml")

	_, err := Fetch(context.Background(), src, dst, nil)
	require.Error(t, err)

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetch_MissingSource(t *testing.T) {
	_, err := Fetch(context.Background(), filepath.Join(t.TempDir(), "absent.toml"), filepath.Join(t.TempDir(), "x.toml"), nil)
	assert.Error(t, err)
}

func furlongServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, furlongTOML)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_HTTP(t *testing.T) {
	server := furlongServer(t)
	dst := filepath.Join(t.TempDir(), "furlong.toml")

	set, err := Fetch(context.Background(), server.URL+"/furlong.toml", dst, nil, AllowPrivateNetworks())
	require.NoError(t, err)
	require.Len(t, set.Units, 1)
	assert.FileExists(t, dst)
}

func TestFetch_HTTPBlocksPrivateHosts(t *testing.T) {
	server := furlongServer(t)
	dst := filepath.Join(t.TempDir(), "furlong.toml")

	_, err := Fetch(context.Background(), server.URL+"/furlong.toml", dst, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpclient.ErrBlocked))
	assert.Contains(t, errors.FlattenHints(err), "--allow-private")
	assert.NoFileExists(t, dst)
}

func TestFetch_HTTPOptions(t *testing.T) {
	server := furlongServer(t)
	dst := filepath.Join(t.TempDir(), "furlong.toml")

	_, err := Fetch(context.Background(), server.URL+"/furlong.toml", dst, nil,
		WithHTTPOptions(httpclient.Options{AllowedSchemes: []string{"https"}, AllowPrivate: true}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme")
}
