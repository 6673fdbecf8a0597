package config

var Presets = map[string]*Config{
	"minimal": {
		Name: "dtesn_minimal", Version: "1.0", MaxDepth: 2,
		MembraneHierarchy: []LevelConfig{
			{Level: 0, Count: 1, Neurons: 50, Type: "root"},
			{Level: 1, Count: 1, Neurons: 30, Type: "branch"},
			{Level: 2, Count: 1, Neurons: 10, Type: "terminal"},
		},
		ESNParameters: ESNConfig{
			SpectralRadius: DefaultSpectralRadius, InputScaling: DefaultInputScaling,
			LeakRate: DefaultLeakRate, Connectivity: DefaultConnectivity,
		},
		TimingConstraints: TimingConfig{
			MembraneEvolutionMaxUS:  DefaultMembraneEvolutionMaxUS,
			BSeriesComputationMaxUS: DefaultBSeriesComputationMaxUS,
			ESNStateUpdateMaxMS:     DefaultESNStateUpdateMaxMS,
			ContextSwitchMaxUS:      DefaultContextSwitchMaxUS,
		},
	},
	"standard": {
		Name: "dtesn_standard", Version: "1.0", MaxDepth: 4,
		MembraneHierarchy: []LevelConfig{
			{Level: 0, Count: 1, Neurons: 100, Type: "root"},
			{Level: 1, Count: 1, Neurons: 80, Type: "trunk"},
			{Level: 2, Count: 1, Neurons: 60, Type: "branch"},
			{Level: 3, Count: 2, Neurons: 40, Type: "leaf"},
			{Level: 4, Count: 4, Neurons: 20, Type: "terminal"},
		},
		ESNParameters: ESNConfig{
			SpectralRadius: DefaultSpectralRadius, InputScaling: DefaultInputScaling,
			LeakRate: DefaultLeakRate, Connectivity: DefaultConnectivity,
		},
		TimingConstraints: TimingConfig{
			MembraneEvolutionMaxUS:  DefaultMembraneEvolutionMaxUS,
			BSeriesComputationMaxUS: DefaultBSeriesComputationMaxUS,
			ESNStateUpdateMaxMS:     DefaultESNStateUpdateMaxMS,
			ContextSwitchMaxUS:      DefaultContextSwitchMaxUS,
		},
	},
	"deep": {
		Name: "dtesn_deep", Version: "1.0", MaxDepth: 6,
		MembraneHierarchy: []LevelConfig{
			{Level: 0, Count: 1, Neurons: 200, Type: "root"},
			{Level: 1, Count: 1, Neurons: 160, Type: "trunk"},
			{Level: 2, Count: 1, Neurons: 120, Type: "trunk"},
			{Level: 3, Count: 2, Neurons: 80, Type: "branch"},
			{Level: 4, Count: 4, Neurons: 40, Type: "leaf"},
			{Level: 5, Count: 9, Neurons: 20, Type: "leaf"},
			{Level: 6, Count: 20, Neurons: 10, Type: "terminal"},
		},
		ESNParameters: ESNConfig{
			SpectralRadius: 0.95, InputScaling: DefaultInputScaling,
			LeakRate: 0.2, Connectivity: 0.05,
		},
		TimingConstraints: TimingConfig{
			MembraneEvolutionMaxUS:  DefaultMembraneEvolutionMaxUS,
			BSeriesComputationMaxUS: DefaultBSeriesComputationMaxUS,
			ESNStateUpdateMaxMS:     DefaultESNStateUpdateMaxMS,
			ContextSwitchMaxUS:      DefaultContextSwitchMaxUS,
		},
	},
	"realtime": {
		Name: "dtesn_realtime", Version: "1.0", MaxDepth: 2,
		MembraneHierarchy: []LevelConfig{
			{Level: 0, Count: 1, Neurons: 32, Type: "root"},
			{Level: 1, Count: 1, Neurons: 16, Type: "branch"},
			{Level: 2, Count: 1, Neurons: 8, Type: "terminal"},
		},
		ESNParameters: ESNConfig{
			SpectralRadius: 0.8, InputScaling: DefaultInputScaling,
			LeakRate: 0.5, Connectivity: DefaultConnectivity,
		},
		TimingConstraints: TimingConfig{
			MembraneEvolutionMaxUS:  5,
			BSeriesComputationMaxUS: 50,
			ESNStateUpdateMaxMS:     1,
			ContextSwitchMaxUS:      2,
		},
	},
}
