//go:build unit

package payment_test

import (
	"strings"
	"testing"
	"time"

	"salon-booking/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]payment.Method{
		"CASH":       payment.MethodCash,
		"card":       payment.MethodCard,
		" Transfer ": payment.MethodTransfer,
	} {
		got, err := payment.ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := payment.ParseMethod("BITCOIN")
	require.ErrorIs(t, err, payment.ErrInvalidMethod)
}

func TestNewPayment(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	apptID := uuid.New()

	t.Run("基本成功ケース", func(t *testing.T) {
		p, err := payment.NewPayment(apptID, 2800, payment.MethodCash, " paid at desk ", "k1", now)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPending, p.Status())
		assert.Equal(t, int64(2800), p.AmountCents())
		assert.Equal(t, "paid at desk", p.Notes())
		assert.Equal(t, apptID, p.AppointmentID())
	})

	t.Run("負の金額NG", func(t *testing.T) {
		_, err := payment.NewPayment(apptID, -1, payment.MethodCash, "", "k1", now)
		require.ErrorIs(t, err, payment.ErrInvalidAmount)
	})

	t.Run("長すぎるメモNG", func(t *testing.T) {
		_, err := payment.NewPayment(apptID, 1, payment.MethodCash, strings.Repeat("x", 1001), "k1", now)
		require.ErrorIs(t, err, payment.ErrNotesTooLong)
	})
}
