package constants

import (
	"fmt"
	"time"
)

// Redis keys follow bookingdesk:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_SHORT   = 6 * time.Hour
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute
	TTL_DYNAMIC_QUICK  = 2 * time.Minute
)

const (
	CACHE_PREFIX = "bookingdesk"
)

// ================== DASHBOARD ==================

const (
	CACHE_KEY_DASHBOARD_ADMIN     = CACHE_PREFIX + ":dashboard:admin"
	CACHE_KEY_DASHBOARD_ORGANIZER = CACHE_PREFIX + ":dashboard:organizer:" // + organizer id
)

const (
	TTL_DASHBOARD = TTL_DYNAMIC_QUICK
)

// ================== AUTH ==================

const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":auth:user:profile:" // + user id
)

const (
	TTL_USER_PROFILE = TTL_STATIC_SHORT
)

// ================== SCHEDULER LOCKS ==================

const (
	LOCK_KEY_PENDING_SWEEP = CACHE_PREFIX + ":locks:pending_sweep"
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_DASHBOARD = CACHE_PREFIX + ":dashboard:*"
)

// BuildOrganizerDashboardKey returns the dashboard key for one organizer
func BuildOrganizerDashboardKey(organizerID uint) string {
	return CACHE_KEY_DASHBOARD_ORGANIZER + fmt.Sprintf("%d", organizerID)
}

func BuildUserProfileKey(userID uint) string {
	return CACHE_KEY_USER_PROFILE + fmt.Sprintf("%d", userID)
}
