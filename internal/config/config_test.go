package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dtesn/internal/membrane"
)

func TestDefaultConfigIsCompliant(t *testing.T) {
	assert.Empty(t, DefaultConfig().Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtesn.yaml")

	cfg := DefaultConfig()
	cfg.Name = "roundtrip"
	cfg.ESNParameters.SpectralRadius = 0.85
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: partial\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "partial", cfg.Name)
	assert.Equal(t, DefaultLeakRate, cfg.ESNParameters.LeakRate)
	assert.Equal(t, DefaultMembraneEvolutionMaxUS, cfg.TimingConstraints.MembraneEvolutionMaxUS)
	assert.Len(t, cfg.MembraneHierarchy, 5)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateViolations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MembraneHierarchy[3].Count = 3 // level 3 expects 2

	violations := cfg.Validate()
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "level 3 has count 3, expected 2")

	cfg = DefaultConfig()
	cfg.MembraneHierarchy = cfg.MembraneHierarchy[:4] // drop level 4
	violations = cfg.Validate()
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "missing membrane level 4")

	cfg = DefaultConfig()
	cfg.MaxDepth = 3 // level 4 becomes extra
	violations = cfg.Validate()
	require.NotEmpty(t, violations)
	assert.Contains(t, violations[len(violations)-1], "extra membrane level 4 beyond max depth 3")
}

func TestBuildHierarchy(t *testing.T) {
	cfg := DefaultConfig()
	h, err := BuildHierarchy(cfg)
	require.NoError(t, err)

	assert.Equal(t, "dtesn_default", h.Name())
	assert.Equal(t, 9, h.Len())
	assert.Empty(t, h.ValidateTopology(cfg.MaxDepth))

	root, err := h.Get(h.Root())
	require.NoError(t, err)
	assert.Equal(t, "root_level_0_0", root.Label)
	assert.Equal(t, membrane.Root, root.Type)
	assert.Equal(t, 100, root.NeuronCount)
	assert.Equal(t, DefaultSpectralRadius, root.SpectralRadius)
	assert.Equal(t, DefaultConnectivity, root.Connectivity)

	// Every level-4 membrane hangs off the first level-3 membrane.
	firstLeaf := h.AtDepth(3)[0]
	for _, id := range h.AtDepth(4) {
		m, err := h.Get(id)
		require.NoError(t, err)
		assert.Equal(t, firstLeaf, m.Parent)
		assert.Equal(t, membrane.Terminal, m.Type)
	}
}

func TestBuildHierarchyGapFails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MembraneHierarchy = []LevelConfig{
		{Level: 0, Count: 1, Neurons: 10, Type: "root"},
		{Level: 2, Count: 1, Neurons: 10, Type: "leaf"},
	}
	_, err := BuildHierarchy(cfg)
	assert.ErrorIs(t, err, membrane.ErrStructureViolation)
}

func TestPresetsAreCompliant(t *testing.T) {
	for name, cfg := range Presets {
		assert.Empty(t, cfg.Validate(), "preset %q", name)

		h, err := BuildHierarchy(cfg)
		require.NoError(t, err, "preset %q", name)
		assert.Empty(t, h.ValidateTopology(cfg.MaxDepth), "preset %q", name)
	}
}

func TestSeedDemoRules(t *testing.T) {
	h, err := BuildHierarchy(Presets["minimal"])
	require.NoError(t, err)
	require.NoError(t, SeedDemoRules(h, 3))

	root, err := h.Get(h.Root())
	require.NoError(t, err)
	assert.Equal(t, 3, root.Objects["signal"])
	require.Len(t, root.Rules, 1)
	assert.Equal(t, membrane.TargetMembrane, root.Rules[0].Target)

	// Childless membranes absorb instead of relaying.
	terminal := h.AtDepth(2)[0]
	tm, err := h.Get(terminal)
	require.NoError(t, err)
	require.Len(t, tm.Rules, 1)
	assert.Equal(t, membrane.TargetSelf, tm.Rules[0].Target)
	assert.Equal(t, membrane.Multiset{"spike": 1}, tm.Rules[0].RHS)

	assert.Error(t, SeedDemoRules(membrane.New("empty"), 1))
}
