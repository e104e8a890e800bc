package locales

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	t.Run("английский по умолчанию", func(t *testing.T) {
		require.NoError(t, Init("en"))
		text := Message("DecisionAcceptedBody", map[string]interface{}{
			"Theme": "Paperless onboarding",
			"Role":  "L1Admin",
		})
		require.Equal(t, `Your idea "Paperless onboarding" is accepted by L1Admin.`, text)
	})
	t.Run("русский", func(t *testing.T) {
		require.NoError(t, Init("ru"))
		require.Equal(t, "Код подтверждения", Message("OtpSubject", nil))
		require.NoError(t, Init("en"))
	})
	t.Run("неизвестный идентификатор", func(t *testing.T) {
		require.Equal(t, "NoSuchMessage", Message("NoSuchMessage", nil))
	})
	t.Run("неизвестный язык", func(t *testing.T) {
		require.NoError(t, Init("not a language"))
		require.Equal(t, "Your OTP Code", Message("OtpSubject", nil))
	})
}
