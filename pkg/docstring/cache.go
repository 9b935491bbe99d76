package docstring

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheSize is the default number of docstrings whose parsed search
// regions are kept resident.
const DefaultCacheSize = 512

type cachedRegion struct {
	region string
	ok     bool
}

// Cache memoizes parameter search regions keyed by docstring content. The
// audit passes look up many parameter names in the same docstring (every
// formal argument, every recovered keyword, every registered attribute), so
// the section slicing is computed once per docstring instead of once per
// name.
type Cache struct {
	regions *lru.LRU[string, cachedRegion]
}

// NewCache creates a region cache holding up to size docstrings. A size of 0
// or less uses DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		regions: lru.NewLRU[string, cachedRegion](size, nil, time.Duration(0)),
	}
}

// ParamSearchRegion is the cached equivalent of the package-level
// ParamSearchRegion.
func (c *Cache) ParamSearchRegion(doc string) (string, bool) {
	if entry, ok := c.regions.Get(doc); ok {
		return entry.region, entry.ok
	}
	region, ok := ParamSearchRegion(doc)
	c.regions.Add(doc, cachedRegion{region: region, ok: ok})
	return region, ok
}

// CheckParam is the cached equivalent of the package-level CheckParam.
func (c *Cache) CheckParam(doc, name string) ParamCheck {
	region, ok := c.ParamSearchRegion(doc)
	if !ok {
		return ParamCheck{Result: ParamMissingSection}
	}
	return checkParamRegion(region, name)
}
