package modelselection

import (
	"strings"
	"testing"
)

func TestKNNSpec(t *testing.T) {
	spec := KNNSpec()
	if spec.Name != "knn" {
		t.Errorf("Name = %q, want knn", spec.Name)
	}
	if len(spec.Grid) != 20 {
		t.Fatalf("grid has %d points, want 20", len(spec.Grid))
	}
	if spec.Grid[0]["k"] != 1 || spec.Grid[19]["k"] != 20 {
		t.Errorf("grid endpoints = %v, %v, want k=1 and k=20",
			spec.Grid[0]["k"], spec.Grid[19]["k"])
	}

	clf, err := spec.Build(spec.Grid[4])
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if clf == nil {
		t.Fatal("Build() returned nil classifier")
	}
}

func TestSVMSpec(t *testing.T) {
	spec := SVMSpec()
	if len(spec.Grid) != 11 {
		t.Fatalf("grid has %d points, want 11", len(spec.Grid))
	}
	if spec.Grid[0]["cost"] != 1.0 {
		t.Errorf("first cost = %v, want 1.0", spec.Grid[0]["cost"])
	}
	if spec.Grid[10]["cost"] != 10.0 {
		t.Errorf("last cost = %v, want 10.0", spec.Grid[10]["cost"])
	}
}

func TestNBSpec(t *testing.T) {
	spec := NBSpec()
	if len(spec.Grid) != 11 {
		t.Fatalf("grid has %d points, want 11", len(spec.Grid))
	}
	if spec.Grid[0]["laplace"] != 0.0 || spec.Grid[10]["laplace"] != 100.0 {
		t.Errorf("laplace endpoints = %v, %v, want 0 and 100",
			spec.Grid[0]["laplace"], spec.Grid[10]["laplace"])
	}
	for i, p := range spec.Grid {
		if p["usekernel"] != true {
			t.Errorf("point %d usekernel = %v, want true", i, p["usekernel"])
		}
	}
}

func TestGridsHaveNoDuplicatePoints(t *testing.T) {
	for _, spec := range []ModelSpec{KNNSpec(), SVMSpec(), NBSpec()} {
		seen := map[string]bool{}
		for _, p := range spec.Grid {
			key := p.String()
			if seen[key] {
				t.Errorf("%s: duplicate grid point %s", spec.Name, key)
			}
			seen[key] = true
		}
	}
}

func TestSpecBuildRejectsBadTypes(t *testing.T) {
	for _, spec := range []ModelSpec{KNNSpec(), SVMSpec(), NBSpec()} {
		if _, err := spec.Build(ParamPoint{"bogus": "nope"}); err == nil {
			t.Errorf("%s: Build() expected error for malformed point", spec.Name)
		}
	}
}

func TestSpecByName(t *testing.T) {
	for _, name := range []string{"knn", "svm", "nb"} {
		spec, err := SpecByName(name)
		if err != nil {
			t.Errorf("SpecByName(%q) error = %v", name, err)
		}
		if spec.Name != name {
			t.Errorf("SpecByName(%q).Name = %q", name, spec.Name)
		}
	}
	if _, err := SpecByName("forest"); err == nil {
		t.Error("SpecByName() expected error for unknown family")
	}
}

func TestParamPointString(t *testing.T) {
	p := ParamPoint{"usekernel": true, "laplace": 10.0}
	s := p.String()
	// Keys render sorted for stable log lines.
	if !strings.HasPrefix(s, "laplace=") || !strings.Contains(s, "usekernel=true") {
		t.Errorf("String() = %q, want sorted keys", s)
	}
}
