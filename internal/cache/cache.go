package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/limaJavier/cttfeatures/pkg/model"
)

const keyPrefix = "cttfeatures:batch:"

// FeatureCache stores batch results keyed by the documents that produced them.
type FeatureCache interface {
	Get(ctx context.Context, key string) (model.BatchResult, bool, error)
	Set(ctx context.Context, key string, result model.BatchResult) error
}

// Key fingerprints an engine configuration together with (name, content)
// pairs, so a configuration change never serves stale features.
func Key(config model.Config, names, contents []string) string {
	hash := sha256.New()
	fmt.Fprintf(hash, "%d|%d|%+v|%d|", config.DefaultDays, config.DefaultPeriodsPerDay, config.MinFields, config.CentralityNodeLimit)
	for i := range names {
		fmt.Fprintf(hash, "%d:%s|%d:%s|", len(names[i]), names[i], len(contents[i]), contents[i])
	}
	return keyPrefix + hex.EncodeToString(hash.Sum(nil))
}

type noopCache struct{}

// NewNoop returns a cache that never hits.
func NewNoop() FeatureCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) (model.BatchResult, bool, error) {
	return model.BatchResult{}, false, nil
}

func (noopCache) Set(context.Context, string, model.BatchResult) error {
	return nil
}
