// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	if PipelineNotFoundId != 1 {
		t.Errorf("PipelineNotFoundId = %d, want 1", PipelineNotFoundId)
	}

	seen := make(map[Id]bool)
	for _, i := range Values() {
		if seen[i.Id()] {
			t.Errorf("duplicate ID: %d", i.Id())
		}
		seen[i.Id()] = true
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{PipelineNotFoundId, false, "Pipeline script not found"},
		{PipelineFailedId, false, "Pipeline failed"},
		{RecipeIncompleteId, false, "Recipe is incomplete"},
		{RecipeFileInvalidId, false, "Invalid recipe file"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{InvalidRuntimeModeId, false, "Invalid runtime mode"},
		{PermissionDeniedId, false, "Permission denied"},
		{TokenizeFailedId, false, "Tokenization failed"},
		{G2PFailedId, false, "Grapheme-to-phoneme"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues_SortedById(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not sorted at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_ExtLinksClone(t *testing.T) {
	issue := Get(PipelineNotFoundId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}
	original := links[0]
	links[0] = "modified"
	if issue.ExtLinks()[0] != original {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	rendered, err := Get(PipelineNotFoundId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "asr.sh") {
		t.Error("Render() output should mention asr.sh")
	}
	if !strings.Contains(rendered, "See also") {
		t.Error("Render() output should list links")
	}

	rendered, err = Get(PipelineFailedId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("issue without links should not render a See also section")
	}
}

func TestIssue_RenderWithGlamour(t *testing.T) {
	rendered, err := Get(PermissionDeniedId).Render("notty")
	if err != nil {
		t.Fatalf("Render(notty) returned error: %v", err)
	}
	if !strings.Contains(rendered, "chmod +x asr.sh") {
		t.Errorf("rendered output missing code block:\n%s", rendered)
	}
}
