// SPDX-License-Identifier: MIT

package dlr

import (
	"fmt"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/katalvlaran/gfmesh/domain"
	"golang.org/x/sync/singleflight"
)

// cacheKey identifies a basis: identical keys yield bit-identical bases.
type cacheKey struct {
	lambda, eps uint64 // float bit patterns
	stat        domain.Statistic
	symmetrize  bool
	panelOrder  int
	nmax        int
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%x/%x/%d/%t/%d/%d", k.lambda, k.eps, k.stat, k.symmetrize, k.panelOrder, k.nmax)
}

var (
	cacheOnce sync.Once
	cache     *lru.Cache[cacheKey, *Basis]
	inflight  singleflight.Group
)

func basisCache() *lru.Cache[cacheKey, *Basis] {
	cacheOnce.Do(func() {
		c, err := lru.New[cacheKey, *Basis](DefaultCacheSize)
		if err != nil {
			panic(err) // only for a non-positive size
		}
		cache = c
	})

	return cache
}

// Get returns the basis for (Λ, ε, statistic, options), building it at most
// once per process while it stays in the LRU. Concurrent callers asking for
// the same key share a single build.
func Get(lambda, eps float64, stat domain.Statistic, opts ...Option) (*Basis, error) {
	if err := ValidateParams(lambda, eps); err != nil {
		return nil, dlrErrorf(opBuild, err)
	}
	o := gatherOptions(opts...)
	key := cacheKey{
		lambda:     math.Float64bits(lambda),
		eps:        math.Float64bits(eps),
		stat:       stat,
		symmetrize: o.symmetrize,
		panelOrder: o.panelOrder,
		nmax:       o.nmax,
	}
	c := basisCache()
	if b, ok := c.Get(key); ok {
		basisCacheLookups.WithLabelValues("hit").Inc()
		return b, nil
	}

	v, err, shared := inflight.Do(key.String(), func() (any, error) {
		if b, ok := c.Get(key); ok {
			return b, nil
		}
		b, err := Build(lambda, eps, stat, opts...)
		if err != nil {
			return nil, err
		}
		c.Add(key, b)

		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		basisCacheLookups.WithLabelValues("shared").Inc()
	} else {
		basisCacheLookups.WithLabelValues("miss").Inc()
	}

	return v.(*Basis), nil
}

// PurgeCache drops every memoized basis.
func PurgeCache() {
	basisCache().Purge()
}
