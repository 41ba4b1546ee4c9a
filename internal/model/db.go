package model

import "time"

// All monetary amounts are integers in the minor currency unit.

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:128;not null"`
	Email        string `gorm:"size:128;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128"`
	Balance      int64  `gorm:"not null;default:0"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:128;not null"`
	Description string `gorm:"size:512"`
	Category    string `gorm:"size:64;index"`
	ImageURL    string `gorm:"size:256"`
	Price       int64  `gorm:"not null"`
	// DeliveryContent is revealed to the buyer after a confirmed purchase:
	// a download link or plain text.
	DeliveryContent string `gorm:"size:2048"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const (
	IntentStatusPending   = "PENDING"
	IntentStatusConfirmed = "CONFIRMED"
	IntentStatusCanceled  = "CANCELED"
)

// PaymentIntent is one payment attempt handed to the gateway. The gateway
// transaction id is the idempotency key for everything the gateway tells us
// afterwards.
type PaymentIntent struct {
	ID                   uint   `gorm:"primaryKey"`
	UserID               uint   `gorm:"index;not null"`
	Amount               int64  `gorm:"not null"`
	GatewayTransactionID string `gorm:"size:64;uniqueIndex;not null"`
	// ProductID nil means wallet top-up.
	ProductID *uint  `gorm:"index"`
	Status    string `gorm:"size:16;index;not null"` // PENDING, CONFIRMED, CANCELED
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Purchase struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"index;not null"`
	ProductID uint   `gorm:"index;not null"`
	Price     int64  `gorm:"not null"` // price paid at confirmation time
	CreatedAt time.Time
}

// DeliveryCredential is a bearer token granting read access to a product's
// delivery content. Name and content are snapshotted at issuance; the token
// never expires.
type DeliveryCredential struct {
	Token           string `gorm:"primaryKey;size:64"`
	ProductID       uint   `gorm:"index;not null"`
	ProductName     string `gorm:"size:128;not null"`
	DeliveryContent string `gorm:"size:2048"`
	UserID          *uint  `gorm:"index"`
	CreatedAt       time.Time
}

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Title     string `gorm:"size:128;not null"`
	Body      string `gorm:"size:512"`
	Read      bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// Setting is a key/value override for process configuration. Values here win
// over environment variables, so credentials can rotate without a restart.
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:512"`
	UpdatedAt time.Time
}
