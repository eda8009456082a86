package cmd_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dronedelivery/cmd"
	"dronedelivery/internal/adapters/in/scenario"
	"dronedelivery/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bootstrap = `
depot: {x: 0, y: 0}
vehicles:
  - {id: D1, weightCapacity: 10, distanceCapacity: 50}
orders:
  - {id: P1, destination: {x: 3, y: 4}, weight: 2, priority: high}
`

func TestCompositionRoot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(bootstrap), 0o600))

	root, err := cmd.NewCompositionRoot(ctx, cmd.Config{
		HTTPPort:       "0",
		JournalDriver:  "sqlite",
		JournalDSN:     filepath.Join(dir, "journal.db"),
		ScenarioFile:   scenarioPath,
		CombinationCap: 50,
	}, logging.Discard())
	require.NoError(t, err)
	defer func() { require.NoError(t, root.Close()) }()

	e := root.Router()
	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("scenario is registered", func(t *testing.T) {
		assert.Len(t, root.Controller().Vehicles(ctx), 1)
		assert.Len(t, root.Controller().Orders(ctx), 1)
	})

	t.Run("passes reach the journal and metrics", func(t *testing.T) {
		_, err := root.Controller().ProcessDeliveries(ctx, true)
		require.NoError(t, err)

		rec := get("/api/v1/journal/passes")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"strategy":"optimizer"`)

		metrics := get("/metrics")
		require.Equal(t, http.StatusOK, metrics.Code)
		assert.Contains(t, metrics.Body.String(), `dronedelivery_allocation_passes_total{strategy="optimizer"} 1`)
	})

	t.Run("notifications are counted", func(t *testing.T) {
		_, err := root.Controller().Advance(ctx, 1)
		require.NoError(t, err)

		assert.Contains(t, get("/metrics").Body.String(), `dronedelivery_notifications_total{channel="state-changed"} 1`)
	})
}

func TestCompositionRoot_RandomScenario(t *testing.T) {
	ctx := context.Background()
	root, err := cmd.NewCompositionRoot(ctx, cmd.Config{
		HTTPPort:       "0",
		RandomVehicles: 3,
		RandomOrders:   10,
		RandomZones:    2,
		RandomSeed:     5,
	}, logging.Discard())
	require.NoError(t, err)
	defer func() { require.NoError(t, root.Close()) }()

	assert.Len(t, root.Controller().Vehicles(ctx), 3)
	assert.Len(t, root.Controller().Orders(ctx), 10)
	assert.Len(t, root.Controller().Zones(ctx), 2)
}

func TestCompositionRoot_InvalidScenario(t *testing.T) {
	_, err := cmd.NewCompositionRoot(context.Background(), cmd.Config{
		HTTPPort:     "0",
		ScenarioFile: filepath.Join(t.TempDir(), "missing.yaml"),
	}, logging.Discard())

	require.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	var out bytes.Buffer
	root := cmd.NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"generate", "--vehicles", "2", "--orders", "3", "--zones", "1", "--seed", "9"})

	require.NoError(t, root.Execute())

	s, err := scenario.Parse(strings.NewReader(out.String()))
	require.NoError(t, err)
	assert.Len(t, s.Vehicles, 2)
	assert.Len(t, s.Orders, 3)
	assert.Len(t, s.Zones, 1)
}
