package ngsi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokerURL = "http://orion.test:1026"

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = brokerURL
	cfg.HTTPClient = &http.Client{}
	gock.InterceptClient(cfg.HTTPClient)
	t.Cleanup(func() {
		gock.RestoreClient(cfg.HTTPClient)
		gock.Off()
	})
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "orion:1026"})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://localhost:1026/v2/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1026/v2/entities", c.endpoint("entities").String())
}

func TestClient_CreateEntity(t *testing.T) {
	c := newTestClient(t, Config{Service: "smartcity", ServicePath: "/parking"})

	gock.New(brokerURL).
		Post("/v2/entities").
		MatchParam("options", "keyValues").
		MatchHeader("Fiware-Service", "smartcity").
		MatchHeader("Fiware-ServicePath", "/parking").
		MatchType("json").
		JSON(map[string]any{"id": "urn:ngsi-ld:Parking:1", "type": "OffStreetParking"}).
		Reply(http.StatusCreated).
		SetHeader("Location", "/v2/entities/urn:ngsi-ld:Parking:1?type=OffStreetParking")

	id, err := c.CreateEntity(context.Background(), map[string]any{
		"id":   "urn:ngsi-ld:Parking:1",
		"type": "OffStreetParking",
	})
	require.NoError(t, err)
	assert.Equal(t, "urn:ngsi-ld:Parking:1", id)
	assert.True(t, gock.IsDone())
}

func TestClient_CreateEntityRejected(t *testing.T) {
	c := newTestClient(t, Config{})

	gock.New(brokerURL).
		Post("/v2/entities").
		Reply(http.StatusBadRequest).
		JSON(map[string]string{"error": "BadRequest", "description": "Invalid characters in attribute value"})

	_, err := c.CreateEntity(context.Background(), map[string]any{"id": "x", "type": "T"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "Invalid characters")
}

func TestClient_DeleteEntity(t *testing.T) {
	c := newTestClient(t, Config{})

	gock.New(brokerURL).
		Delete("/v2/entities/urn:ngsi-ld:Parking:1").
		Reply(http.StatusNoContent)

	require.NoError(t, c.DeleteEntity(context.Background(), "urn:ngsi-ld:Parking:1"))
	assert.True(t, gock.IsDone())
}

func TestClient_DeleteEntityNotFound(t *testing.T) {
	c := newTestClient(t, Config{})

	gock.New(brokerURL).
		Delete("/v2/entities/missing").
		Reply(http.StatusNotFound).
		BodyString(`{"error":"NotFound"}`)

	err := c.DeleteEntity(context.Background(), "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	assert.Error(t, c.DeleteEntity(context.Background(), ""))
}
