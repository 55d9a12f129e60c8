// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/report"
)

const mainTSX = "import React from 'react'\nimport App from './App'\n\nrender(<App />)\n"

func TestInsert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		rule        catalog.Injection
		mode        Mode
		want        string
		wantOutcome report.Outcome
	}{
		{
			name:        "after first matching line",
			content:     mainTSX,
			rule:        catalog.Injection{After: "import", Insert: "import './theme'"},
			mode:        ModeAppend,
			want:        "import React from 'react'\nimport './theme'\nimport App from './App'\n\nrender(<App />)\n",
			wantOutcome: report.OutcomeApplied,
		},
		{
			name:        "anchor is a substring",
			content:     mainTSX,
			rule:        catalog.Injection{After: "from './App'", Insert: "import './index.css'"},
			mode:        ModeAppend,
			want:        "import React from 'react'\nimport App from './App'\nimport './index.css'\n\nrender(<App />)\n",
			wantOutcome: report.OutcomeApplied,
		},
		{
			name:        "anchor on last line without newline",
			content:     "a\nb",
			rule:        catalog.Injection{After: "b", Insert: "c"},
			mode:        ModeAppend,
			want:        "a\nb\nc",
			wantOutcome: report.OutcomeApplied,
		},
		{
			name:        "missing anchor leaves content unchanged",
			content:     mainTSX,
			rule:        catalog.Injection{After: "ReactDOM", Insert: "x"},
			mode:        ModeAppend,
			want:        mainTSX,
			wantOutcome: report.OutcomeSkippedMissingAnchor,
		},
		{
			name:        "append mode inserts again",
			content:     "a\nx\nb",
			rule:        catalog.Injection{After: "a", Insert: "x"},
			mode:        ModeAppend,
			want:        "a\nx\nx\nb",
			wantOutcome: report.OutcomeApplied,
		},
		{
			name:        "skip-present mode detects earlier insert",
			content:     "a\nx\ny\nb",
			rule:        catalog.Injection{After: "a", Insert: "x\ny"},
			mode:        ModeSkipPresent,
			want:        "a\nx\ny\nb",
			wantOutcome: report.OutcomeSkippedAlreadyPresent,
		},
		{
			name:        "skip-present mode still inserts when absent",
			content:     "a\nb",
			rule:        catalog.Injection{After: "a", Insert: "x"},
			mode:        ModeSkipPresent,
			want:        "a\nx\nb",
			wantOutcome: report.OutcomeApplied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, outcome := Insert(tt.content, tt.rule, tt.mode)
			if outcome != tt.wantOutcome {
				t.Errorf("outcome = %s, want %s", outcome, tt.wantOutcome)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("content mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_MissingAnchorDoesNotTouchFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "app/src/main.tsx", []byte(mainTSX), 0o644); err != nil {
		t.Fatal(err)
	}

	item := New(fsys).Apply("app", "src/main.tsx", catalog.Injection{After: "nope", Insert: "x"})
	if item.Outcome != report.OutcomeSkippedMissingAnchor {
		t.Errorf("Outcome = %s, want %s", item.Outcome, report.OutcomeSkippedMissingAnchor)
	}
	if !item.Outcome.IsWarning() || item.Path != "src/main.tsx" {
		t.Errorf("item = %+v", item)
	}

	got, err := afero.ReadFile(fsys, "app/src/main.tsx")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != mainTSX {
		t.Errorf("file was modified:\n%s", got)
	}
}

func TestApply_Targets(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "app/src/main.tsx", []byte(mainTSX), 0o644); err != nil {
		t.Fatal(err)
	}
	inj := New(fsys)

	if item := inj.Apply("app", "src/missing.tsx", catalog.Injection{After: "a", Insert: "b"}); item.Outcome != report.OutcomeSkippedMissingTarget {
		t.Errorf("missing target Outcome = %s", item.Outcome)
	}
	if item := inj.Apply("app", "../etc/passwd", catalog.Injection{After: "a", Insert: "b"}); item.Outcome != report.OutcomeFailed {
		t.Errorf("escaping target Outcome = %s", item.Outcome)
	}
}

func TestApplyAll(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	for name, content := range map[string]string{
		"app/src/main.tsx": mainTSX,
		"app/src/App.tsx":  "export default function App() {}\n",
	} {
		if err := afero.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	desc := catalog.DefaultDescriptor("styled-ui", "modules/styled-ui")
	desc.Injections = map[string]catalog.Injection{
		"src/main.tsx": {After: "import App", Insert: "import { GlobalStyle } from './styles'"},
		"src/App.tsx":  {After: "missing anchor", Insert: "x"},
		"src/gone.tsx": {After: "a", Insert: "b"},
	}

	rep := New(fsys).ApplyAll("app", desc)

	var got []report.Item
	for _, it := range rep.Items() {
		it.Detail = ""
		got = append(got, it)
	}
	want := []report.Item{
		{Component: report.ComponentInject, Module: "styled-ui", Path: "src/App.tsx", Outcome: report.OutcomeSkippedMissingAnchor},
		{Component: report.ComponentInject, Module: "styled-ui", Path: "src/gone.tsx", Outcome: report.OutcomeSkippedMissingTarget},
		{Component: report.ComponentInject, Module: "styled-ui", Path: "src/main.tsx", Outcome: report.OutcomeApplied},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	main, _ := afero.ReadFile(fsys, "app/src/main.tsx")
	wantMain := "import React from 'react'\nimport App from './App'\nimport { GlobalStyle } from './styles'\n\nrender(<App />)\n"
	if diff := cmp.Diff(wantMain, string(main)); diff != "" {
		t.Errorf("main.tsx mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_SkipPresentIsIdempotent(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "app/src/main.tsx", []byte(mainTSX), 0o644); err != nil {
		t.Fatal(err)
	}
	inj := New(fsys, WithMode(ModeSkipPresent))
	rule := catalog.Injection{After: "import App", Insert: "import './theme'"}

	first := inj.Apply("app", "src/main.tsx", rule)
	once, _ := afero.ReadFile(fsys, "app/src/main.tsx")
	second := inj.Apply("app", "src/main.tsx", rule)
	twice, _ := afero.ReadFile(fsys, "app/src/main.tsx")

	if first.Outcome != report.OutcomeApplied || second.Outcome != report.OutcomeSkippedAlreadyPresent {
		t.Errorf("outcomes = %s, %s", first.Outcome, second.Outcome)
	}
	if string(once) != string(twice) {
		t.Errorf("second run changed the file:\n%s", twice)
	}
}

func TestMode_IsValid(t *testing.T) {
	t.Parallel()

	for _, m := range []Mode{ModeAppend, ModeSkipPresent} {
		if ok, _ := m.IsValid(); !ok {
			t.Errorf("%s should be valid", m)
		}
	}
	ok, errs := Mode("dedupe").IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidMode) {
		t.Errorf("IsValid(dedupe) = %v, %v", ok, errs)
	}
}
