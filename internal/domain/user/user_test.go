package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	assert.Equal(t, LocaleAR, prefs.Language)
	assert.True(t, prefs.Notifications)
}

func TestLocaleValid(t *testing.T) {
	assert.True(t, LocaleAR.Valid())
	assert.True(t, LocaleEN.Valid())
	assert.False(t, Locale("fr").Valid())
	assert.False(t, Locale("").Valid())
}

func TestProfilePreferences(t *testing.T) {
	p := Profile{Language: LocaleEN, Notifications: false}
	assert.Equal(t, Preferences{Language: LocaleEN, Notifications: false}, p.Preferences())
}
