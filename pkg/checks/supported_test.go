package checks

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/fiware-datamodels/dmv/pkg/ngsi"
	"github.com/fiware-datamodels/dmv/pkg/report"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokerURL = "http://orion.test:1026"

func newBrokerClient(t *testing.T) *ngsi.Client {
	t.Helper()
	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)
	t.Cleanup(func() {
		gock.RestoreClient(httpClient)
		gock.Off()
	})

	client, err := ngsi.NewClient(ngsi.Config{BaseURL: brokerURL, HTTPClient: httpClient})
	require.NoError(t, err)
	return client
}

func TestExampleSupported_CreatesAndRemoves(t *testing.T) {
	client := newBrokerClient(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Parking/example.json":   `{"id": "urn:p:1", "type": "Parking"}`,
		"Parking/example-2.json": `{"id": "urn:p:2", "type": "Parking"}`,
	})

	for _, id := range []string{"urn:p:1", "urn:p:2"} {
		gock.New(brokerURL).
			Post("/v2/entities").
			MatchParam("options", "keyValues").
			Reply(http.StatusCreated).
			SetHeader("Location", "/v2/entities/"+id+"?type=Parking")
		gock.New(brokerURL).
			Delete("/v2/entities/" + id).
			Reply(http.StatusNoContent)
	}

	ctx, r := newTestContext(t, root, report.Policy{})
	ok, err := ExampleSupported(context.Background(), ctx, client, filepath.Join(root, "Parking"))
	require.NoError(t, err)
	assert.True(t, ok)

	base := filepath.Base(root)
	assert.Equal(t, []string{
		filepath.Join(base, "Parking") + ": example-2.json is supported",
		filepath.Join(base, "Parking") + ": example.json is supported",
	}, r.SupportedExamples["Parking"])
	assert.Empty(t, r.Errors)
	assert.True(t, gock.IsDone())
}

func TestExampleSupported_Rejected(t *testing.T) {
	client := newBrokerClient(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Parking/example.json": `{"id": "urn:p:1", "type": "Parking"}`,
	})

	gock.New(brokerURL).
		Post("/v2/entities").
		Reply(http.StatusUnprocessableEntity).
		BodyString(`{"error":"Unprocessable","description":"Already Exists"}`)

	ctx, r := newTestContext(t, root, report.Policy{})
	ok, err := ExampleSupported(context.Background(), ctx, client, filepath.Join(root, "Parking"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.Len(t, r.Errors["Parking"], 1)
	assert.Contains(t, r.Errors["Parking"][0], "JSON Example is not supported by contextBroker")
	assert.Contains(t, r.Errors["Parking"][0], "Already Exists")
	assert.Empty(t, r.SupportedExamples)
}

func TestExampleSupported_FailErrors(t *testing.T) {
	client := newBrokerClient(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Parking/example.json": `{"id": "urn:p:1", "type": "Parking"}`,
	})

	gock.New(brokerURL).
		Post("/v2/entities").
		Reply(http.StatusCreated).
		SetHeader("Location", "/v2/entities/urn:p:1")
	gock.New(brokerURL).
		Delete("/v2/entities/urn:p:1").
		Reply(http.StatusInternalServerError)

	ctx, r := newTestContext(t, root, report.Policy{FailErrors: true})
	_, err := ExampleSupported(context.Background(), ctx, client, filepath.Join(root, "Parking"))

	var abort *report.AbortError
	require.ErrorAs(t, err, &abort)
	assert.Equal(t, report.KindError, abort.Kind)
	assert.Len(t, r.Errors["Parking"], 1)
}

func TestExampleSupported_RemoveFailsAfterCreate(t *testing.T) {
	client := newBrokerClient(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Parking/example.json":   `{"id": "urn:p:1", "type": "Parking"}`,
		"Parking/example-2.json": `{"id": "urn:p:2", "type": "Parking"}`,
	})

	gock.New(brokerURL).
		Post("/v2/entities").
		Reply(http.StatusCreated).
		SetHeader("Location", "/v2/entities/urn:p:2")
	gock.New(brokerURL).
		Delete("/v2/entities/urn:p:2").
		Reply(http.StatusInternalServerError)

	ctx, r := newTestContext(t, root, report.Policy{})
	ok, err := ExampleSupported(context.Background(), ctx, client, filepath.Join(root, "Parking"))
	require.NoError(t, err)
	assert.False(t, ok)

	base := filepath.Base(root)
	assert.Equal(t, []string{
		filepath.Join(base, "Parking") + ": example-2.json is supported",
	}, r.SupportedExamples["Parking"])

	require.Len(t, r.Errors["Parking"], 1)
	assert.Contains(t, r.Errors["Parking"][0], "could not remove entity urn:p:2")
	assert.NotContains(t, r.Errors["Parking"][0], "not supported")
	assert.True(t, gock.IsDone(), "second example is not tried after the failure")
}
