package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSteam(t *testing.T, body string, status int) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/IPlayerService/GetOwnedGames/v0001/", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return NewClientWithBaseURL("test-key", server.URL)
}

func TestHours(t *testing.T) {
	ctx := context.Background()

	t.Run("rounds minutes to hours", func(t *testing.T) {
		// 3,121 minutes is 52.02 hours.
		client := stubSteam(t, `{"response":{"games":[
			{"appid":730,"playtime_forever":90000},
			{"appid":381210,"playtime_forever":3121}
		]}}`, http.StatusOK)

		hours, err := client.Hours(ctx, "76561198000000000")
		require.NoError(t, err)
		assert.Equal(t, 52, hours)
	})

	t.Run("zero hours when the game is not owned", func(t *testing.T) {
		client := stubSteam(t, `{"response":{"games":[{"appid":730,"playtime_forever":500}]}}`, http.StatusOK)

		hours, err := client.Hours(ctx, "76561198000000000")
		require.NoError(t, err)
		assert.Equal(t, 0, hours)
	})

	t.Run("zero hours for a private game list", func(t *testing.T) {
		client := stubSteam(t, `{"response":{}}`, http.StatusOK)

		hours, err := client.Hours(ctx, "76561198000000000")
		require.NoError(t, err)
		assert.Equal(t, 0, hours)
	})

	t.Run("missing steam id is a validation error", func(t *testing.T) {
		client := stubSteam(t, `{}`, http.StatusOK)

		_, err := client.Hours(ctx, "")
		assert.ErrorIs(t, err, ErrNoSteamID)
	})

	t.Run("non-200 surfaces as an error", func(t *testing.T) {
		client := stubSteam(t, `{}`, http.StatusForbidden)

		_, err := client.Hours(ctx, "76561198000000000")
		assert.Error(t, err)
	})
}
