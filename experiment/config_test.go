package experiment

import "testing"

func TestConfigValidate(t *testing.T) {
	valid := func() Config { return NewConfig("data.csv") }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing data path", func(c *Config) { c.DataPath = "" }, true},
		{"fraction zero", func(c *Config) { c.TrainFraction = 0 }, true},
		{"fraction one", func(c *Config) { c.TrainFraction = 1 }, true},
		{"one fold", func(c *Config) { c.Folds = 1 }, true},
		{"zero repeats", func(c *Config) { c.Repeats = 0 }, true},
		{"unknown metric", func(c *Config) { c.Metric = "accuracy" }, true},
		{"no models", func(c *Config) { c.EnabledModels = nil }, true},
		{"unknown model", func(c *Config) { c.EnabledModels = []string{"forest"} }, true},
		{"duplicate model", func(c *Config) { c.EnabledModels = []string{"knn", "knn"} }, true},
		{"all three families", func(c *Config) { c.EnabledModels = []string{"knn", "svm", "nb"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig("table.csv")
	if cfg.TrainFraction != 0.80 {
		t.Errorf("TrainFraction = %v, want 0.80", cfg.TrainFraction)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.Folds != 5 || cfg.Repeats != 10 {
		t.Errorf("Folds, Repeats = %d, %d, want 5, 10", cfg.Folds, cfg.Repeats)
	}
	if len(cfg.EnabledModels) != 2 || cfg.EnabledModels[0] != "knn" || cfg.EnabledModels[1] != "svm" {
		t.Errorf("EnabledModels = %v, want [knn svm]", cfg.EnabledModels)
	}
}
