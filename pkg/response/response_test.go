package response

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "TapTrack/pkg/errors"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown tag", apperrors.TagNotFound, http.StatusNotFound},
		{"missing tag uid", apperrors.TagRequired, http.StatusBadRequest},
		{"cooldown", apperrors.ScanCooldownActive, http.StatusTooManyRequests},
		{"rate limited", apperrors.ScanRateLimited, http.StatusTooManyRequests},
		{"store failure", apperrors.AttendanceStoreFailed, http.StatusInternalServerError},
		{"mirror failure", apperrors.MirrorUnavailable, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestHTTPStatusKeepsMappingForDetailedMessages(t *testing.T) {
	err := apperrors.TagNotFound.WithMessage("No employee linked to tag UID 04:A1:B2")
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}
