package certificates

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

func TestBuildForm(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	issued := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	f := buildForm(id, "Quantum Entanglement in Distributed Systems", issued)

	if f.Paper != "A4" {
		t.Errorf("paper = %q, want A4", f.Paper)
	}

	p, ok := f.Pages["1"]
	if !ok {
		t.Fatal("form should declare page 1")
	}

	boxes := p.Content.Text
	if len(boxes) != 5 {
		t.Fatalf("text boxes = %d, want 5", len(boxes))
	}

	wantValues := []string{
		"Certificate of Acceptance",
		"Quantum Entanglement in Distributed Systems",
		"has successfully passed Conclave's AI-powered peer review process",
		"Date: March 15, 2026",
		"Certificate ID: 550e8400-e29b-41d4-a716-446655440000",
	}
	for i, want := range wantValues {
		if boxes[i].Value != want {
			t.Errorf("boxes[%d].Value = %q, want %q", i, boxes[i].Value, want)
		}
	}

	for i, box := range boxes {
		if box.Anchor != "center" {
			t.Errorf("boxes[%d].Anchor = %q, want center", i, box.Anchor)
		}
		if box.Font.Name != "Helvetica" {
			t.Errorf("boxes[%d].Font.Name = %q, want Helvetica", i, box.Font.Name)
		}
	}

	if boxes[0].Font.Size != 24 {
		t.Errorf("heading size = %d, want 24", boxes[0].Font.Size)
	}
	if boxes[4].Font.Size != 10 {
		t.Errorf("certificate id size = %d, want 10", boxes[4].Font.Size)
	}

	if boxes[0].Dy != 220 {
		t.Errorf("heading dy = %d, want 220", boxes[0].Dy)
	}
	if boxes[4].Dy != -60 {
		t.Errorf("certificate id dy = %d, want -60", boxes[4].Dy)
	}
}

func TestBuildFormTruncatesTitle(t *testing.T) {
	id := uuid.New()
	title := strings.Repeat("x", 100)

	f := buildForm(id, title, time.Now())

	got := f.Pages["1"].Content.Text[1].Value
	if n := utf8.RuneCountInString(got); n != 83 {
		t.Errorf("title length = %d runes, want 83", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated title should end with ellipsis")
	}
	if !strings.HasPrefix(got, strings.Repeat("x", 80)) {
		t.Error("truncated title should keep the first 80 runes")
	}
}

func TestBuildFormMarshals(t *testing.T) {
	declaration, err := json.Marshal(buildForm(uuid.New(), "A Paper", time.Now()))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if !strings.Contains(string(declaration), `"paper":"A4"`) {
		t.Error("declaration should carry paper size")
	}
	if !strings.Contains(string(declaration), `"anchor":"center"`) {
		t.Error("declaration should carry anchors")
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"short unchanged", "A Brief Title", "A Brief Title"},
		{"exactly at limit", strings.Repeat("a", 80), strings.Repeat("a", 80)},
		{"over limit", strings.Repeat("a", 81), strings.Repeat("a", 80) + "..."},
		{"multi-byte over limit", strings.Repeat("é", 81), strings.Repeat("é", 80) + "..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateTitle(tt.title); got != tt.want {
				t.Errorf("truncateTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStorageKey(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	want := "certificates/550e8400-e29b-41d4-a716-446655440000.pdf"
	if got := storageKey(id); got != want {
		t.Errorf("storageKey() = %q, want %q", got, want)
	}
}
