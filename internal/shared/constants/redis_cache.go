package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the CleanGrid application
// Pattern: cleangrid:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_MEDIUM = 12 * time.Hour // 12 hours - for add-on catalog
	TTL_STATIC_SHORT  = 6 * time.Hour  // 6 hours - for user profiles
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_LONG   = 4 * time.Hour // 4 hours - for service catalog entries
	TTL_SEMI_STATIC_MEDIUM = 1 * time.Hour // 1 hour - for catalog listings
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for territory assignments
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for admin stats
	TTL_DYNAMIC_QUICK  = 2 * time.Minute  // 2 minutes - for franchisee earnings
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "cleangrid"
)

// ================== CATALOG MODULE ==================

const (
	CACHE_KEY_CATALOG_LIST   = CACHE_PREFIX + ":catalog:list"         // + :class:X
	CACHE_KEY_CATALOG_DETAIL = CACHE_PREFIX + ":catalog:detail:uuid:" // + entry-id
	CACHE_KEY_ADDONS_LIST    = CACHE_PREFIX + ":catalog:addons"
)

// ================== TERRITORY MODULE ==================

const (
	CACHE_KEY_TERRITORY_AREA = CACHE_PREFIX + ":territory:area:" // + area-code
	CACHE_KEY_TERRITORY_LIST = CACHE_PREFIX + ":territory:list"
)

// ================== ADMIN / STATS MODULE ==================

const (
	CACHE_KEY_ADMIN_STATS        = CACHE_PREFIX + ":admin:stats"
	CACHE_KEY_FRANCHISEE_EARNING = CACHE_PREFIX + ":franchisee:earnings:uuid:" // + franchisee-id
)

// ================== KEY BUILDERS ==================

// CatalogDetailKey builds the cache key for one catalog entry
func CatalogDetailKey(entryID string) string {
	return CACHE_KEY_CATALOG_DETAIL + entryID
}

// CatalogListKey builds the cache key for a catalog listing filtered by property class
func CatalogListKey(propertyClass string) string {
	if propertyClass == "" {
		return CACHE_KEY_CATALOG_LIST
	}
	return fmt.Sprintf("%s:class:%s", CACHE_KEY_CATALOG_LIST, propertyClass)
}

// TerritoryAreaKey builds the cache key for one area code assignment
func TerritoryAreaKey(areaCode string) string {
	return CACHE_KEY_TERRITORY_AREA + areaCode
}

// FranchiseeEarningsKey builds the cache key for a franchisee's earnings summary
func FranchiseeEarningsKey(franchiseeID string) string {
	return CACHE_KEY_FRANCHISEE_EARNING + franchiseeID
}

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	INVALIDATE_CATALOG_ALL   = CACHE_PREFIX + ":catalog:*"
	INVALIDATE_TERRITORY_ALL = CACHE_PREFIX + ":territory:*"
	INVALIDATE_ADMIN_ALL     = CACHE_PREFIX + ":admin:*"
)
