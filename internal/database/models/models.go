package models

import (
	"time"

	"roaddog-system/internal/database"

	"gorm.io/gorm"
)

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"uniqueIndex;not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	IsActive  bool   `gorm:"default:true"`
	LastLogin *time.Time
	CreatedAt *time.Time `gorm:"autoCreateTime"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime"`
}

type Organization struct {
	ID          string  `gorm:"primaryKey;type:varchar(64)"`
	Name        string  `gorm:"type:varchar(128);not null"`
	Description *string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Members []OrganizationMember `gorm:"foreignKey:OrganizationID"`
}

type OrganizationMember struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	OrganizationID string `gorm:"index:idx_org_user,unique;type:varchar(64);not null"`
	UserID         int64  `gorm:"index:idx_org_user,unique;not null"`
	Role           string `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time

	Organization *Organization `gorm:"foreignKey:OrganizationID"`
	User         *User         `gorm:"foreignKey:UserID"`
}

type Product struct {
	ID             string  `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string  `gorm:"index;type:varchar(64);not null"`
	Name           string  `gorm:"type:varchar(128);not null"`
	Price          string  `gorm:"type:varchar(32);not null"`
	Category       string  `gorm:"type:varchar(64);not null;default:'Other'"`
	Description    *string `gorm:"type:text"`
	ImageURL       *string `gorm:"type:text"`

	Sizes            database.StringArray `gorm:"type:text"`
	Inventory        database.IntMap      `gorm:"type:text"`
	CurrencyPrices   database.StringMap   `gorm:"type:text"`
	ShowTextOnButton bool                 `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Sale struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string    `gorm:"index;type:varchar(64);not null"`
	SaleDate       time.Time `gorm:"index;not null"`

	Total         string `gorm:"type:varchar(32);not null"`
	ActualAmount  string `gorm:"type:varchar(32);not null"`
	Discount      string `gorm:"type:varchar(32);not null;default:'0.00'"`
	TipAmount     string `gorm:"type:varchar(32);not null;default:'0.00'"`
	PaymentMethod string `gorm:"type:varchar(64);not null"`
	IsHookup      bool   `gorm:"not null;default:false"`
	Synced        bool   `gorm:"not null;default:false"`

	CreatedAt time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

type SaleItem struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	SaleID      string `gorm:"index;type:varchar(64);not null"`
	ProductID   string `gorm:"type:varchar(64);not null"`
	ProductName string `gorm:"type:varchar(128);not null"`
	Quantity    int32  `gorm:"not null"`
	UnitPrice   string `gorm:"type:varchar(32);not null"`
	Size        *string `gorm:"type:varchar(32)"`
	CreatedAt   time.Time
}

type EmailSignup struct {
	ID             string  `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string  `gorm:"index;type:varchar(64);not null"`
	Email          string  `gorm:"type:varchar(256);not null"`
	Name           *string `gorm:"type:varchar(128)"`
	Phone          *string `gorm:"type:varchar(32)"`
	Source         string  `gorm:"type:varchar(32);not null"`
	SaleID         *string `gorm:"type:varchar(64)"`
	Synced         bool    `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

type CloseOut struct {
	ID             string `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string `gorm:"index;type:varchar(64);not null"`

	SaleIDs       database.StringArray `gorm:"type:text"`
	SaleCount     int32                `gorm:"not null"`
	Revenue       string               `gorm:"type:varchar(32);not null"`
	DiscountTotal string               `gorm:"type:varchar(32);not null"`
	TipTotal      string               `gorm:"type:varchar(32);not null"`

	// JSON-encoded breakdown blocks, write-once with the snapshot.
	PaymentBreakdown string `gorm:"type:text;not null"`
	ProductBreakdown string `gorm:"type:text;not null"`

	ExpectedCash   *string `gorm:"type:varchar(32)"`
	ActualCash     *string `gorm:"type:varchar(32)"`
	CashDifference *string `gorm:"type:varchar(32)"`

	Notes     *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrgSettings struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	OrganizationID string `gorm:"uniqueIndex;type:varchar(64);not null"`

	// JSON-encoded payment method list and signup capture config;
	// upserted wholesale, never patched field by field.
	PaymentMethods string               `gorm:"type:text;not null;default:'[]'"`
	Categories     database.StringArray `gorm:"type:text"`
	Theme          string               `gorm:"type:varchar(32);not null;default:'default'"`
	Currency       string               `gorm:"type:varchar(8);not null;default:'USD'"`
	ExchangeRate   string               `gorm:"type:varchar(32);not null;default:'1.00'"`
	SignupCapture  string               `gorm:"type:text;not null;default:'{}'"`

	UpdatedAt time.Time
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Organization{},
		&OrganizationMember{},
		&Product{},
		&Sale{},
		&SaleItem{},
		&EmailSignup{},
		&CloseOut{},
		&OrgSettings{},
	)
}
