package definitions

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/internal/httpclient"
	"github.com/teranos/unitx/logger"
)

type fetchConfig struct {
	http httpclient.Options
}

// FetchOption configures Fetch
type FetchOption func(*fetchConfig)

// WithHTTPOptions sets the options of the client used for http(s) sources
func WithHTTPOptions(opts httpclient.Options) FetchOption {
	return func(c *fetchConfig) { c.http = opts }
}

// AllowPrivateNetworks lets http(s) sources point at loopback and private addresses
func AllowPrivateNetworks() FetchOption {
	return func(c *fetchConfig) { c.http.AllowPrivate = true }
}

// Fetch downloads a definitions file from src to the file dst and checks that it decodes.
// src is anything go-getter understands: a local path, an http(s) URL, a git or S3
// address. http(s) downloads refuse private and loopback hosts unless
// AllowPrivateNetworks is given. A file that does not decode is removed again.
func Fetch(ctx context.Context, src, dst string, log *zap.SugaredLogger, opts ...FetchOption) (Set, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var cfg fetchConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	client := httpclient.New(cfg.http)

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}
	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return Set{}, errors.Wrapf(err, "failed to detect source type of %s", src)
	}
	log.Debugw("go-getter detected source",
		logger.FieldSource, src,
		"detected", detected,
	)

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return Set{}, errors.Wrapf(err, "failed to create directory for %s", dst)
	}

	// copy local files rather than symlinking them, so dst survives the source moving
	getters := make(map[string]getter.Getter, len(getter.Getters))
	for scheme, g := range getter.Getters {
		getters[scheme] = g
	}
	getters["file"] = &getter.FileGetter{Copy: true}
	getters["http"] = &getter.HttpGetter{Client: client.Client}
	getters["https"] = &getter.HttpGetter{Client: client.Client}

	if strings.HasPrefix(detected, "http://") || strings.HasPrefix(detected, "https://") {
		if _, err := client.ValidateURL(detected); err != nil {
			return Set{}, errors.WithHint(errors.Wrapf(err, "refusing to fetch %s", src),
				"use --allow-private for a mirror on a private network")
		}
	}

	gc := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: getters,
	}
	log.Infow("Fetching definitions", logger.FieldSource, detected, logger.FieldPath, dst)
	if err := gc.Get(); err != nil {
		return Set{}, errors.Wrapf(err, "failed to fetch %s", src)
	}

	set, err := LoadFile(dst)
	if err != nil {
		if rmErr := os.Remove(dst); rmErr != nil {
			log.Warnw("Failed to remove rejected definitions", logger.FieldPath, dst, logger.FieldError, rmErr)
		}
		return Set{}, errors.Wrapf(err, "fetched file %s is not valid", src)
	}

	log.Infow("Fetch completed",
		logger.FieldPath, dst,
		logger.FieldUnits, len(set.Units),
		logger.FieldPrefixes, len(set.Prefixes),
	)
	return set, nil
}
