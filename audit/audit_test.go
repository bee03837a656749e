package audit_test

import (
	"testing"
	"time"

	"github.com/marcelsud/webhook-vault/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Validate(t *testing.T) {
	t.Run("clamps paging", func(t *testing.T) {
		f := audit.Filter{Limit: 5000, Offset: -3}
		require.NoError(t, f.Validate())
		assert.Equal(t, audit.MaxLimit, f.Limit)
		assert.Equal(t, 0, f.Offset)

		f = audit.Filter{Limit: 0}
		require.NoError(t, f.Validate())
		assert.Equal(t, 1, f.Limit)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		f := audit.Filter{From: "2026/10/01"}
		assert.ErrorIs(t, f.Validate(), audit.ErrInvalidDate)

		f = audit.Filter{To: "2026-13-01"}
		assert.ErrorIs(t, f.Validate(), audit.ErrInvalidDate)
	})
}

func TestFilter_Bounds(t *testing.T) {
	now := time.Date(2026, 10, 15, 13, 45, 0, 0, time.UTC)

	t.Run("defaults to retention window", func(t *testing.T) {
		from, to := audit.Filter{}.Bounds(now)
		assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("explicit dates are inclusive", func(t *testing.T) {
		from, to := audit.Filter{From: "2026-10-01", To: "2026-10-02"}.Bounds(now)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), to)
	})
}

func TestFilter_Matches(t *testing.T) {
	e := audit.Entry{CustomerID: "acme", StatusCode: 401}
	assert.True(t, audit.Filter{}.Matches(e))
	assert.True(t, audit.Filter{CustomerID: "acme", StatusCode: 401}.Matches(e))
	assert.False(t, audit.Filter{CustomerID: "zeta"}.Matches(e))
	assert.False(t, audit.Filter{StatusCode: 200}.Matches(e))
}
