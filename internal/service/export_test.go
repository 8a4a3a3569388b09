package service

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	objects     map[string][]byte
	contentType string
}

func (m *memoryStorage) Save(_ context.Context, path string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[path] = data
	m.contentType = contentType
	return nil
}

func (m *memoryStorage) PresignedURL(_ context.Context, path string, expiry time.Duration) (string, error) {
	return "https://exports.example.com/" + path + "?expires=" + expiry.String(), nil
}

func TestExportService_Export(t *testing.T) {
	f := newFixture(t)
	f.create(t, userA, time.Date(2025, 3, 2, 12, 0, 0, 0, f.loc), 500)

	svc := NewExportService(f.dashboard, nil, time.Hour)
	assert.False(t, svc.HasStorage())

	export, err := svc.Export(context.Background(), userA, "2025-03-01", "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, userA, export.UserID)
	assert.Len(t, export.Days, 3)
	assert.Len(t, export.Meals, 1)

	_, err = svc.Publish(context.Background(), export)
	assert.Error(t, err)
}

func TestExportService_Publish(t *testing.T) {
	f := newFixture(t)
	f.create(t, userA, time.Date(2025, 3, 2, 12, 0, 0, 0, f.loc), 500)

	storage := &memoryStorage{objects: map[string][]byte{}}
	svc := NewExportService(f.dashboard, storage, 15*time.Minute)
	require.True(t, svc.HasStorage())

	export, err := svc.Export(context.Background(), userA, "2025-03-01", "2025-03-03")
	require.NoError(t, err)

	published, err := svc.Publish(context.Background(), export)
	require.NoError(t, err)
	assert.Equal(t, "exports/"+userA+"/2025-03-01_2025-03-03.json", published.Path)
	assert.Contains(t, published.URL, published.Path)
	assert.Equal(t, "application/json", storage.contentType)

	var stored Export
	require.NoError(t, json.Unmarshal(storage.objects[published.Path], &stored))
	assert.Equal(t, "2025-03-01", stored.From)
	assert.Len(t, stored.Meals, 1)
}
