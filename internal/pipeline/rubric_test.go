package pipeline_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/conclave/internal/config"
	"github.com/JaimeStill/conclave/internal/pipeline"
)

func TestRubricDefault(t *testing.T) {
	rubric := pipeline.Rubric(config.ReviewConfig{})

	if rubric == "" {
		t.Fatal("default rubric should not be empty")
	}
	if !strings.Contains(rubric, "FINAL DECISION") {
		t.Error("default rubric should instruct a final decision marker")
	}
	if !strings.Contains(rubric, "third person") {
		t.Error("default rubric should instruct third-person voice")
	}
}

func TestRubricOverride(t *testing.T) {
	cfg := config.ReviewConfig{Rubric: "custom review instructions"}

	if got := pipeline.Rubric(cfg); got != "custom review instructions" {
		t.Errorf("Rubric() = %q, want configured override", got)
	}
}
