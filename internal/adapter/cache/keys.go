package cache

import (
	"fmt"
	"time"
)

// Cache key builders. Every key the application writes is declared
// here so TTLs and shapes stay in one place.

const (
	// CatalogKey holds the serialized available-menu snapshot.
	CatalogKey = "comanda:menu:catalog"

	// CatalogTTL bounds staleness after an availability toggle races
	// the explicit invalidation.
	CatalogTTL = 5 * time.Minute

	// RevokedTokenTTL must outlive the longest-lived access token.
	RevokedTokenTTL = 24 * time.Hour

	// WebhookSeenTTL covers the window in which providers redeliver
	// an event.
	WebhookSeenTTL = 24 * time.Hour
)

// MenuItemKey caches a single catalog entry by id.
func MenuItemKey(id string) string {
	return fmt.Sprintf("comanda:menu:item:%s", id)
}

// RevokedTokenKey marks a JWT id as logged out.
func RevokedTokenKey(jti string) string {
	return fmt.Sprintf("comanda:auth:revoked:%s", jti)
}

// WebhookSeenKey deduplicates payment provider webhook deliveries.
func WebhookSeenKey(provider, eventID string) string {
	return fmt.Sprintf("comanda:webhook:%s:%s", provider, eventID)
}
