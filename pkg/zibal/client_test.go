package zibal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aminzare2005/vlonefarsi/pkg/config"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := NewClient(context.Background(), config.ZibalConfig{
		Merchant:       "zibal",
		BaseURL:        srv.URL,
		RequestTimeout: 2 * time.Second,
	}, logg)
	require.NoError(t, err)
	return client
}

func TestRequestConvertsTomanToRials(t *testing.T) {
	var got requestBody
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, requestPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(requestResponse{TrackID: 998877, Result: 100, Message: "success"})
	}))

	result, err := client.Request(context.Background(), RequestParams{
		AmountToman: 250000,
		CallbackURL: "https://shop.example/api/v1/payments/callback",
		OrderID:     "order-1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2500000), got.Amount)
	assert.Equal(t, "zibal", got.Merchant)
	assert.Equal(t, "order-1", got.OrderID)
	assert.Equal(t, int64(998877), result.TrackID)
}

func TestRequestRejectedResult(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(requestResponse{Result: 105})
	}))

	result, err := client.Request(context.Background(), RequestParams{AmountToman: 50})
	require.Error(t, err)

	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeDependency, domainErr.Code())
	assert.Equal(t, 105, result.Result)
	assert.Contains(t, result.Message, "1,000 rials")
}

func TestRequestGatewayDown(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Request(context.Background(), RequestParams{AmountToman: 1000})
	require.Error(t, err)

	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeDependency, domainErr.Code())
}

func TestVerifyOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		result    int
		confirmed bool
	}{
		{name: "settled", result: 100, confirmed: true},
		{name: "already verified replay", result: 201, confirmed: true},
		{name: "not paid", result: 202, confirmed: false},
		{name: "invalid track id", result: 203, confirmed: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, verifyPath, r.URL.Path)
				json.NewEncoder(w).Encode(verifyResponse{Result: tc.result, Amount: 2500000})
			}))

			result, err := client.Verify(context.Background(), 998877)
			require.NoError(t, err)
			assert.Equal(t, tc.confirmed, result.Confirmed())
		})
	}
}

func TestStartURL(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := NewClient(context.Background(), config.ZibalConfig{
		Merchant: "zibal",
		BaseURL:  "https://gateway.zibal.ir/",
	}, logg)
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.zibal.ir/start/12345", client.StartURL(12345))
}
