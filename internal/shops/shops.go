// Package shops holds the installed-shop records the admin app serves.
package shops

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ShopNotFoundError represents an error when a shop is not found
type ShopNotFoundError struct {
	Domain string
}

func (e *ShopNotFoundError) Error() string {
	return fmt.Sprintf("shop not found for domain: %s", e.Domain)
}

// NewShopNotFoundError creates a new ShopNotFoundError
func NewShopNotFoundError(domain string) *ShopNotFoundError {
	return &ShopNotFoundError{Domain: domain}
}

// Shop is one storefront installation with its API credential.
type Shop struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Domain      string    `gorm:"unique;not null" json:"domain"` // myshop.example.com
	AccessToken string    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetFirstShop retrieves the first installed shop. Single-shop deployments
// run against this record by default.
func GetFirstShop(db *gorm.DB) (*Shop, error) {
	var shop Shop
	if err := db.Order("id ASC").First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// GetShopByDomain retrieves a shop by exact domain match.
func GetShopByDomain(db *gorm.DB, domain string) (*Shop, error) {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	if normalized == "" {
		return nil, NewShopNotFoundError(domain)
	}

	var shop Shop
	if err := db.Where("domain = ?", normalized).First(&shop).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewShopNotFoundError(domain)
		}
		return nil, fmt.Errorf("unexpected error querying shop: %w", err)
	}
	return &shop, nil
}

// CreateShop stores a new shop record with a normalized domain.
func CreateShop(db *gorm.DB, domain, accessToken string) (*Shop, error) {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	if normalized == "" {
		return nil, fmt.Errorf("shop domain is required")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("shop access token is required")
	}

	shop := &Shop{Domain: normalized, AccessToken: accessToken, CreatedAt: time.Now().UTC()}
	if err := db.Create(shop).Error; err != nil {
		return nil, fmt.Errorf("shops: create failed: %w", err)
	}
	return shop, nil
}
