// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// directoryTimeout bounds the remote lookup so an unreachable directory
// cannot stall resolution.
const directoryTimeout = 10 * time.Second

// Directory is a remote currency directory, looked up by name or ticker.
type Directory interface {
	LookupSymbol(ctx context.Context, name string) (string, error)
}

// DirectoryResolver extends a static Resolver with a remote directory as a
// last stage. The static table stays authoritative; the directory is only
// consulted when the table misses.
type DirectoryResolver struct {
	static *Resolver
	dir    Directory
	log    zerolog.Logger
}

// NewDirectoryResolver wraps static with dir as a fallback stage.
func NewDirectoryResolver(static *Resolver, dir Directory, log zerolog.Logger) *DirectoryResolver {
	return &DirectoryResolver{
		static: static,
		dir:    dir,
		log:    log.With().Str("component", "directory_resolver").Logger(),
	}
}

// Resolve tries the static table first and falls back to the directory.
// Directory failures degrade to ErrNotFound so callers see one error kind.
func (r *DirectoryResolver) Resolve(query string) (string, error) {
	symbol, err := r.static.Resolve(query)
	if err == nil {
		return symbol, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), directoryTimeout)
	defer cancel()

	symbol, err = r.dir.LookupSymbol(ctx, query)
	if err != nil {
		r.log.Debug().Err(err).Str("query", query).Msg("directory lookup missed")
		return "", ErrNotFound
	}
	r.log.Debug().Str("query", query).Str("symbol", symbol).Msg("resolved via directory")
	return symbol, nil
}
