package coverage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/covermap/covermap/internal/errors"
	"github.com/covermap/covermap/internal/telemetry"
)

// cacheArtifact is the on-disk form of a built catalog: operator code (as a
// string key) to the ordered site sequence. The source field records which
// dataset the artifact was built from, for diagnostics only.
type cacheArtifact struct {
	Source string            `json:"source"`
	Sites  map[string][]Site `json:"sites"`
}

// LoadOrBuild returns the catalog from the cache artifact when one exists at
// cachePath, otherwise builds from the dataset, persists the artifact and
// returns the fresh catalog.
//
// Presence of the artifact short-circuits the build unconditionally; there is
// no freshness check. A present but unreadable or corrupt artifact is fatal
// rather than triggering a silent rebuild, so corruption does not get masked.
func (b *Builder) LoadOrBuild(ctx context.Context, cachePath string) (Catalog, error) {
	if _, err := os.Stat(cachePath); err == nil {
		return b.loadCache(ctx, cachePath)
	} else if !os.IsNotExist(err) {
		return nil, errors.NewCacheError("stat cache artifact", err)
	}

	catalog, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.saveCache(catalog, cachePath); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (b *Builder) loadCache(ctx context.Context, cachePath string) (Catalog, error) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, errors.NewCacheError("read cache artifact", err)
	}

	var artifact cacheArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.NewCacheError("decode cache artifact", err)
	}

	// The artifact is validated against the same operator table as the raw
	// dataset: a stale artifact with unattributable codes is a build failure.
	catalog := make(Catalog, len(artifact.Sites))
	for rawCode, sites := range artifact.Sites {
		code, err := strconv.Atoi(rawCode)
		if err != nil {
			return nil, errors.NewInvalidOperatorCodeError(rawCode)
		}
		if _, known := b.operators[OperatorCode(code)]; !known {
			return nil, errors.NewUnknownOperatorError(code)
		}
		catalog[OperatorCode(code)] = sites
	}

	telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
		"cache":     cachePath,
		"source":    artifact.Source,
		"operators": len(catalog),
	}).Info("Coverage catalog loaded from cache artifact")

	return catalog, nil
}

func (b *Builder) saveCache(catalog Catalog, cachePath string) error {
	artifact := cacheArtifact{
		Source: b.dataset.Path,
		Sites:  make(map[string][]Site, len(catalog)),
	}
	for code, sites := range catalog {
		artifact.Sites[strconv.Itoa(int(code))] = sites
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		return errors.NewCacheError("encode cache artifact", err)
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return errors.NewCacheError("create cache directory", err)
	}
	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		return errors.NewCacheError("write cache artifact", err)
	}
	return nil
}
