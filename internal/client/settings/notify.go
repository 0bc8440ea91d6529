package settings

import "github.com/dmitrijs2005/gophsettings/internal/client/i18n"

// Notifier surfaces transient messages to the user. Calls are fire-and-forget.
type Notifier interface {
	NotifySuccess(msg string)
	NotifyError(msg string)
}

// ConsentPropagator receives the analytics consent after a confirmed save.
type ConsentPropagator interface {
	SetAnalyticsConsent(enabled bool)
}

// Localizer renders a user-facing message.
type Localizer interface {
	T(k i18n.Key) string
}

type NotifierFuncs struct {
	Success func(msg string)
	Error   func(msg string)
}

func (n NotifierFuncs) NotifySuccess(msg string) {
	if n.Success != nil {
		n.Success(msg)
	}
}

func (n NotifierFuncs) NotifyError(msg string) {
	if n.Error != nil {
		n.Error(msg)
	}
}
