package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/ShareFrame/telemetry-writer/processor"
	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	records []map[string]any
	err     error
}

func (f *fakeStore) Put(ctx context.Context, record map[string]any) error {
	f.records = append(f.records, record)
	return f.err
}

func TestAPIHandle(t *testing.T) {
	tests := []struct {
		name       string
		req        events.APIGatewayProxyRequest
		storeErr   error
		wantStatus int
		wantBody   string
		wantWrites int
	}{
		{
			name: "stores data",
			req: events.APIGatewayProxyRequest{
				PathParameters: map[string]string{"siteId": "testSite"},
				Body:           `{"temperature":25,"humidity":60}`,
			},
			wantStatus: 200,
			wantBody:   `{"message":"Data stored successfully"}`,
			wantWrites: 1,
		},
		{
			name: "missing siteId",
			req: events.APIGatewayProxyRequest{
				PathParameters: map[string]string{},
				Body:           `{"temperature":25,"humidity":60}`,
			},
			wantStatus: 400,
			wantBody:   `{"message":"siteId is required"}`,
		},
		{
			name: "empty siteId",
			req: events.APIGatewayProxyRequest{
				PathParameters: map[string]string{"siteId": ""},
				Body:           `{}`,
			},
			wantStatus: 400,
			wantBody:   `{"message":"siteId is required"}`,
		},
		{
			name: "invalid JSON",
			req: events.APIGatewayProxyRequest{
				PathParameters: map[string]string{"siteId": "testSite"},
				Body:           "invalid JSON",
			},
			wantStatus: 400,
			wantBody:   `{"message":"Invalid JSON in request body"}`,
		},
		{
			name: "scalar body",
			req: events.APIGatewayProxyRequest{
				PathParameters: map[string]string{"siteId": "testSite"},
				Body:           "5",
			},
			wantStatus: 200,
			wantBody:   `{"message":"Data stored successfully"}`,
			wantWrites: 1,
		},
		{
			name: "null body",
			req: events.APIGatewayProxyRequest{
				PathParameters: map[string]string{"siteId": "testSite"},
				Body:           "null",
			},
			wantStatus: 200,
			wantBody:   `{"message":"Data stored successfully"}`,
			wantWrites: 1,
		},
		{
			name: "whitespace body",
			req: events.APIGatewayProxyRequest{
				PathParameters: map[string]string{"siteId": "testSite"},
				Body:           "   ",
			},
			wantStatus: 400,
			wantBody:   `{"message":"Invalid JSON in request body"}`,
		},
		{
			name: "base64 body",
			req: events.APIGatewayProxyRequest{
				PathParameters:  map[string]string{"siteId": "testSite"},
				Body:            base64.StdEncoding.EncodeToString([]byte(`{"temperature":25}`)),
				IsBase64Encoded: true,
			},
			wantStatus: 200,
			wantBody:   `{"message":"Data stored successfully"}`,
			wantWrites: 1,
		},
		{
			name: "bad base64 body",
			req: events.APIGatewayProxyRequest{
				PathParameters:  map[string]string{"siteId": "testSite"},
				Body:            "%%%",
				IsBase64Encoded: true,
			},
			wantStatus: 400,
			wantBody:   `{"message":"Invalid JSON in request body"}`,
		},
		{
			name: "store failure",
			req: events.APIGatewayProxyRequest{
				PathParameters: map[string]string{"siteId": "testSite"},
				Body:           `{"temperature":25}`,
			},
			storeErr:   errors.New("boom"),
			wantStatus: 500,
			wantBody:   `{"message":"Error storing data"}`,
			wantWrites: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{err: tt.storeErr}
			api := NewAPI(processor.New(store, zap.NewNop().Sugar()))

			resp, err := api.Handle(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, resp.Body)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
			assert.Len(t, store.records, tt.wantWrites)
		})
	}
}

func TestAPIHandleStoredItem(t *testing.T) {
	store := &fakeStore{}
	api := NewAPI(processor.New(store, zap.NewNop().Sugar()))

	_, err := api.Handle(context.Background(), events.APIGatewayProxyRequest{
		PathParameters: map[string]string{"siteId": "testSite"},
		Body:           `{"temperature":25,"humidity":60}`,
	})
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	assert.Equal(t, map[string]any{
		"siteId":      "testSite",
		"temperature": float64(25),
		"humidity":    float64(60),
	}, store.records[0])
}
