package checks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fiware-datamodels/dmv/pkg/schema"
)

// EntityClient creates and removes entities on a context broker.
// *ngsi.Client satisfies it.
type EntityClient interface {
	CreateEntity(ctx context.Context, body map[string]any) (string, error)
	DeleteEntity(ctx context.Context, id string) error
}

// ExampleSupported posts every example*.json of dir to the context broker
// and removes the entity again. An accepted example is recorded as supported
// before it is removed. Calls block until the broker answers. The first
// failure, on create or on remove, records a single error for the directory
// and stops.
func ExampleSupported(ctx context.Context, c *Context, client EntityClient, dir string) (bool, error) {
	files, err := schema.Examples(dir)
	if err != nil {
		return false, err
	}

	for _, file := range files {
		doc, err := schema.LoadFile(file)
		if err != nil {
			return false, err
		}
		name := filepath.Base(file)

		id, err := createEntity(ctx, client, doc)
		if err != nil {
			c.Logger.Debug("example rejected by context broker", slog.String("file", file), slog.Any("error", err))
			return false, c.Recorder.Error(dir, "JSON Example is not supported by contextBroker: "+err.Error())
		}
		c.Logger.Debug("example supported", slog.String("file", file), slog.String("id", id))
		c.Recorder.SupportedExample(dir, name+" is supported")

		if err := client.DeleteEntity(ctx, id); err != nil {
			c.Logger.Debug("entity not removed", slog.String("file", file), slog.String("id", id), slog.Any("error", err))
			return false, c.Recorder.Error(dir, fmt.Sprintf("JSON Example %s could not remove entity %s from contextBroker: %v", name, id, err))
		}
	}
	return true, nil
}

func createEntity(ctx context.Context, client EntityClient, doc any) (string, error) {
	body, ok := doc.(map[string]any)
	if !ok {
		return "", errors.New("example is not a JSON object")
	}
	id, err := client.CreateEntity(ctx, body)
	if err != nil {
		return "", fmt.Errorf("create entity: %w", err)
	}
	return id, nil
}
