package handler

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/token"
	authUC "github.com/fastygo/taskboard/usecase/auth"
)

func TestTTLFromRequest(t *testing.T) {
	uc := authUC.New(nil, token.NewManager("secret", ""), nil, authUC.WithMaxTTL(24*time.Hour))
	h := NewAuthHandler(uc, nil, nil, false)

	tests := []struct {
		name    string
		seconds int64
		want    time.Duration
		wantErr bool
	}{
		{name: "omitted", seconds: 0, want: 24 * time.Hour},
		{name: "one minute", seconds: 60, want: time.Minute},
		{name: "at the limit", seconds: 86400, want: 24 * time.Hour},
		{name: "over the limit", seconds: 86401, wantErr: true},
		{name: "decades", seconds: 60 * 60 * 24 * 365 * 30, wantErr: true},
		{name: "would overflow a duration", seconds: 10_000_000_000, wantErr: true},
		{name: "max int64", seconds: math.MaxInt64, wantErr: true},
		{name: "negative", seconds: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.ttlFromRequest(tt.seconds)
			if tt.wantErr {
				assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
