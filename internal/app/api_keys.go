package app

import (
	"crypto/subtle"
	"net/http"
)

// APIKeysRequired is false when no keys are configured; the service is then public.
func (app *Application) APIKeysRequired() bool {
	return len(app.Config.ApiKeys) > 0
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	if !app.APIKeysRequired() {
		return false
	}
	return app.IsInvalidAPIKey(r.URL.Query().Get("key"))
}

func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}

	for _, validKey := range app.Config.ApiKeys {
		if key == validKey {
			return false
		}
	}

	return true
}

// IsValidUpdateSecret reports whether secret matches the configured update
// secret. An unset secret disables updates.
func (app *Application) IsValidUpdateSecret(secret string) bool {
	expected := app.Config.UpdateSecret
	if expected == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(expected)) == 1
}
