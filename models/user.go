package models

import "time"

type UserAccount struct {
	JsonModel
	Name   string `json:"name"`
	Email  string `json:"email" gorm:"unique"`
	Banned bool   `gorm:"default:false" json:"-"`
	LastIp string `json:"-"`
	//"STARTED_AUTH", "FINISHED_AUTH"
	Status    string   `json:"-"`
	GoogleID  string   `json:"-"`
	UTMSource string   `json:"utm_source"`
	Platform  Platform `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`

	Subscription        Subscription `json:"subscription"`
	ExpirationDate      *time.Time   `json:"-"`
	ConfirmedDeleteDate *time.Time   `json:"-"`

	// Notifications settings
	ReceiveNotifications bool `json:"receive_notifications"`
	// opted in to the scheduled morning outfit push
	DailyOutfitAlerts bool `gorm:"default:false" json:"daily_outfit_alerts"`
	IsSuperadmin      bool `json:"is_superadmin"`

	AvatarUrl string `json:"avatar_url"`

	// preferred default style when a request doesn't name one
	PreferredStyle *string `json:"preferred_style"`
	// where weather snapshots are fetched for
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// per-user override limits, managed by support
	EnforcedDailyGarmentLimit    *int32 `json:"enforced_daily_garment_limit"`
	EnforcedDailyGenerationLimit *int32 `json:"enforced_daily_generation_limit"`
	EnforcedLLMModel             *int32 `json:"enforced_llm_model"`
}

type UserPushToken struct {
	JsonModel
	UserAccountID uint
	UserAccount   UserAccount `json:"user_account"`
	Platform      Platform    `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	Token         string      `json:"token"`
	Active        bool        `gorm:"default:false" json:"-"`
}

type GoogleSignInRequest struct {
	IdToken  string `json:"id_token" validate:"required"`
	Platform string `json:"platform" validate:"required,platform"`
}

type RefreshTokenIn struct {
	RefreshToken string `json:"refresh_token"`
}

type SignInOut struct {
	Id           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	New          bool   `json:"new"`
	Subscription string `json:"subscription"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserPushIn struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type UserSettingsIn struct {
	ReceiveNotifications bool `json:"receive_notifications"`
	DailyOutfitAlerts    bool `json:"daily_outfit_alerts"`
}
