package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscribeParams_RequiresID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/single/sub", nil)
	_, err := parseSubscribeParams(req)
	assert.Error(t, err)
}

func TestParseSubscribeParams_Valid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/single/sub?id=room-a", nil)
	p, err := parseSubscribeParams(req)
	require.NoError(t, err)
	assert.Equal(t, "room-a", p.ID)
}

func TestParsePublishParams_DefaultsModeToShot(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/single/pub?id=room-a", nil)
	p, err := parsePublishParams(req)
	require.NoError(t, err)
	assert.Equal(t, "shot", p.Mode)
}

func TestParsePublishParams_RejectsUnknownMode(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/single/pub?id=room-a&mode=bogus", nil)
	_, err := parsePublishParams(req)
	assert.Error(t, err)
}

func TestParsePublishParams_AcceptsPingPong(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/single/pub?id=room-a&mode=ping_pong", nil)
	p, err := parsePublishParams(req)
	require.NoError(t, err)
	assert.Equal(t, "ping_pong", p.Mode)
}
