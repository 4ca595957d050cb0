package entitlement

import (
	"errors"
	"fmt"
)

// Denial reason codes. Clients branch on these, so they never change.
const (
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeNoActiveSubscription = "NO_ACTIVE_SUBSCRIPTION"
	CodeSubscriptionExpired  = "SUBSCRIPTION_EXPIRED"
	CodePhotoRequired        = "PHOTO_REQUIRED"
	CodeInvalidPlan          = "INVALID_PLAN"
	CodeMonthlyLimitReached  = "MONTHLY_LIMIT_REACHED"
)

const (
	msgUnauthorized      = "Oturum açmanız gerekiyor."
	msgNoSubscription    = "Aktif bir aboneliğiniz veya hediye krediniz bulunmuyor. Lütfen bir plan seçin."
	msgInactiveStatus    = "Aboneliğiniz aktif değil (durum: %s). Lütfen aboneliğinizi yenileyin."
	msgExpired           = "Abonelik süreniz dolmuş. Devam etmek için aboneliğinizi yenileyin."
	msgPhotoRequired     = "Video oluşturmak için en az 1 fotoğraf yüklemelisiniz."
	msgInvalidPlan       = "Geçersiz abonelik planı."
	msgLimitReached      = "Bu dönemlik video hakkın bitti (%d video). Dönem yenilenince devam edebilirsin veya planını yükseltebilirsin."
	msgLimitReachedRace  = "Bu dönemlik video hakkın bitti. Dönem yenilenince devam edebilirsin."
	reasonNoSubscription = "Aktif abonelik bulunamadı."
	reasonInactive       = "Abonelik aktif değil."
	reasonInvalidPlan    = "Geçersiz plan."
	reasonMissingFeature = "Bu özellik %s paketinde bulunmuyor. Lütfen planınızı yükseltin."
)

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidCount        = errors.New("count must be positive")
	ErrInsufficientCredits = errors.New("insufficient gift credits")
	ErrCreditConflict      = errors.New("gift credit balance changed concurrently")
)

// DenialError is a refused video creation. Remaining and Limit are only
// meaningful for CodeMonthlyLimitReached.
type DenialError struct {
	Code      string
	Message   string
	Remaining int
	Limit     int
}

func (e *DenialError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HasQuota reports whether Remaining and Limit should be shown to the caller.
func (e *DenialError) HasQuota() bool {
	return e.Code == CodeMonthlyLimitReached
}

func deny(code, message string) *DenialError {
	return &DenialError{Code: code, Message: message}
}

// AsDenial unwraps a *DenialError from err.
func AsDenial(err error) (*DenialError, bool) {
	var d *DenialError
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// Unauthorized is the denial for requests without a verified identity.
func Unauthorized() *DenialError {
	return deny(CodeUnauthorized, msgUnauthorized)
}
