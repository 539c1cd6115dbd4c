package workflow

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RANForge/ranforge/internal/domain"
)

func validDefinition() Definition {
	return Definition{
		Name:        "rollout",
		Description: "test rollout",
		Stages: []Stage{
			{Name: "prepare", Agent: "planner", Task: "plan the rollout", TimeoutSeconds: 60},
			{Name: "apply", Agent: "applier", Task: "apply the rollout", Critical: true},
		},
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	d := validDefinition()
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"empty name", func(d *Definition) { d.Name = "" }},
		{"no stages", func(d *Definition) { d.Stages = nil }},
		{"stage without name", func(d *Definition) { d.Stages[0].Name = "" }},
		{"stage without agent", func(d *Definition) { d.Stages[1].Agent = "" }},
		{"stage without task", func(d *Definition) { d.Stages[0].Task = "" }},
		{"negative timeout", func(d *Definition) { d.Stages[0].TimeoutSeconds = -5 }},
		{"duplicate stage name", func(d *Definition) { d.Stages[1].Name = d.Stages[0].Name }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDefinition()
			tc.mutate(&d)
			if err := d.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestStageTimeoutDefaults(t *testing.T) {
	s := Stage{Name: "x", Agent: "a", Task: "t"}
	if got := s.Timeout(); got != DefaultStageTimeout {
		t.Fatalf("default timeout = %v, want %v", got, DefaultStageTimeout)
	}
	s.TimeoutSeconds = 45
	if got := s.Timeout(); got != 45*time.Second {
		t.Fatalf("timeout = %v, want 45s", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := validDefinition()
	c := d.Clone()
	c.Stages[0].Agent = "other"
	if d.Stages[0].Agent == "other" {
		t.Fatal("Clone shares stage backing array with original")
	}
}

func TestBuiltinDefinitionsAreValid(t *testing.T) {
	defs := BuiltinDefinitions()
	if len(defs) != 4 {
		t.Fatalf("builtin count = %d, want 4", len(defs))
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			t.Errorf("builtin %q invalid: %v", d.Name, err)
		}
	}
}

func TestDeployWorkflowShape(t *testing.T) {
	var deploy *Definition
	for _, d := range BuiltinDefinitions() {
		if d.Name == "deploy" {
			dd := d
			deploy = &dd
			break
		}
	}
	if deploy == nil {
		t.Fatal("deploy workflow missing from catalog")
	}
	if len(deploy.Stages) != 6 {
		t.Fatalf("deploy stages = %d, want 6", len(deploy.Stages))
	}
	if deploy.Stages[0].Name != "infrastructure" {
		t.Errorf("first stage = %q, want infrastructure", deploy.Stages[0].Name)
	}
	if !deploy.Stages[0].Critical {
		t.Error("infrastructure stage should be critical")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollout.yaml")
	yaml := `
name: rollout
description: test rollout
stages:
  - name: prepare
    agent: planner
    task: plan the rollout
    timeout: 60
  - name: apply
    agent: applier
    task: apply the rollout
    critical: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	d, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if d.Name != "rollout" || len(d.Stages) != 2 {
		t.Fatalf("unexpected definition: %+v", d)
	}
	if d.Stages[0].TimeoutSeconds != 60 {
		t.Errorf("timeout = %d, want 60", d.Stages[0].TimeoutSeconds)
	}
	if !d.Stages[1].Critical {
		t.Error("apply stage should be critical")
	}
}

func TestLoadFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("stages: {not: a list}"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFile(path)
	if !errors.Is(err, domain.ErrMalformedDefinition) {
		t.Fatalf("expected ErrMalformedDefinition, got %v", err)
	}
}

func TestLoadFromDirectoryMissingIsEmpty(t *testing.T) {
	defs, err := LoadFromDirectory(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("LoadFromDirectory: %v", err)
	}
	if len(defs) != 0 {
		t.Fatalf("expected no definitions, got %d", len(defs))
	}
}

func TestLoadFromDirectorySkipsNonYAML(t *testing.T) {
	dir := t.TempDir()
	good := `
name: rollout
stages:
  - name: only
    agent: planner
    task: do the thing
`
	if err := os.WriteFile(filepath.Join(dir, "rollout.yml"), []byte(good), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o600); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadFromDirectory(dir)
	if err != nil {
		t.Fatalf("LoadFromDirectory: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "rollout" {
		t.Fatalf("unexpected definitions: %+v", defs)
	}
}
