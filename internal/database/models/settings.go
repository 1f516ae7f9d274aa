package models

// PaymentMethodSetting is one configurable payment option on the register.
type PaymentMethodSetting struct {
	Name       string  `json:"name"`
	Enabled    bool    `json:"enabled"`
	FeePercent string  `json:"feePercent"`
	QRCodeURL  *string `json:"qrCodeUrl,omitempty"`
}

// SignupCaptureSettings controls the post-checkout email capture prompt.
type SignupCaptureSettings struct {
	Enabled          bool     `json:"enabled"`
	PromptText       string   `json:"promptText"`
	CollectFields    []string `json:"collectFields"`
	AutoDismissAfter int      `json:"autoDismissAfter"` // seconds, 0 = never
}

// POSSettings is the full register configuration, saved wholesale — there is
// no partial patch path on either backend.
type POSSettings struct {
	PaymentMethods []PaymentMethodSetting `json:"paymentMethods"`
	Categories     []string               `json:"categories"`
	Theme          string                 `json:"theme"`
	Currency       string                 `json:"currency"`
	ExchangeRate   string                 `json:"exchangeRate"`
	SignupCapture  SignupCaptureSettings  `json:"signupCapture"`
	IsDefault      bool                   `json:"isDefault,omitempty"`
}

// DefaultPOSSettings is what a register runs with before anything is saved.
func DefaultPOSSettings() POSSettings {
	return POSSettings{
		PaymentMethods: []PaymentMethodSetting{
			{Name: "Cash", Enabled: true, FeePercent: "0"},
			{Name: "Venmo", Enabled: true, FeePercent: "0"},
			{Name: "Card", Enabled: true, FeePercent: "2.9"},
			{Name: "Other", Enabled: true, FeePercent: "0"},
		},
		Categories:   []string{"Apparel", "Music", "Other"},
		Theme:        "default",
		Currency:     "USD",
		ExchangeRate: "1.00",
		SignupCapture: SignupCaptureSettings{
			Enabled:          false,
			PromptText:       "Join the mailing list?",
			CollectFields:    []string{"email"},
			AutoDismissAfter: 15,
		},
		IsDefault: true,
	}
}
