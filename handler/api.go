package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ShareFrame/telemetry-writer/models"
	"github.com/ShareFrame/telemetry-writer/processor"
	"github.com/aws/aws-lambda-go/events"
)

const (
	msgStored      = "Data stored successfully"
	msgMissingSite = "siteId is required"
	msgInvalidJSON = "Invalid JSON in request body"
	msgStoreFailed = "Error storing data"
)

type Writer interface {
	Write(ctx context.Context, siteID, body string) error
}

// API adapts API Gateway proxy requests to a Writer. It never returns an
// invocation error; every outcome is a JSON response.
type API struct {
	writer Writer
}

func NewAPI(writer Writer) *API {
	return &API{writer: writer}
}

func (a *API) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	siteID := req.PathParameters["siteId"]
	if siteID == "" {
		return respond(http.StatusBadRequest, msgMissingSite), nil
	}

	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return respond(http.StatusBadRequest, msgInvalidJSON), nil
		}
		body = string(decoded)
	}

	err := a.writer.Write(ctx, siteID, body)
	switch {
	case err == nil:
		return respond(http.StatusOK, msgStored), nil
	case errors.Is(err, processor.ErrMissingSiteID):
		return respond(http.StatusBadRequest, msgMissingSite), nil
	case errors.Is(err, processor.ErrInvalidJSON):
		return respond(http.StatusBadRequest, msgInvalidJSON), nil
	default:
		return respond(http.StatusInternalServerError, msgStoreFailed), nil
	}
}

func respond(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(models.MessageResponse{Message: message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
