package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

// Platform is where a push token lives. Delivery goes through FCM for
// android/web and APNs for ios.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

func (l *Platform) Scan(value interface{}) error {
	*l = Platform(value.(string))
	return nil
}

func (l Platform) Value() string {
	return string(l)
}

func ValidatePlatform(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	matched, _ := regexp.MatchString("^(ios|android|web)$", value)
	return matched
}
