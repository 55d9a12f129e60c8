// SPDX-License-Identifier: MPL-2.0

package overlay

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/fsutil"
	"github.com/adrianoanschau/create-phobos/internal/report"
	"github.com/adrianoanschau/create-phobos/internal/testutil"
)

const reservedProvider = "src/phobos/provider.tsx"

func templateFS() afero.Fs {
	return afero.FromIOFS{FS: fstest.MapFS{
		"base/package.json":                 {Data: []byte(`{"name":"app"}`)},
		"base/src/App.tsx":                  {Data: []byte("base app")},
		"base/src/phobos/index.tsx":         {Data: []byte("base index")},
		"modules/a/phobos.meta.json":        {Data: []byte(`{}`)},
		"modules/a/index.txt":               {Data: []byte("from a")},
		"modules/a/src/App.tsx":             {Data: []byte("a app")},
		"modules/a/src/phobos/provider.tsx": {Data: []byte("stale provider")},
		"modules/b/index.txt":               {Data: []byte("from b")},
		"modules/c/files/theme.ts":          {Data: []byte("theme")},
		"modules/c/files/pages/Home.tsx":    {Data: []byte("home")},
		"modules/c/files/pages/About.tsx":   {Data: []byte("about")},
		"modules/c/unused.txt":              {Data: []byte("unused")},
	}}
}

func applyAll(t *testing.T, keys ...string) (afero.Fs, *report.Report) {
	t.Helper()
	dst := afero.NewMemMapFs()
	e := New(templateFS(), dst, WithReserved(reservedProvider))

	rep, err := e.ApplyBase("base", "out")
	if err != nil {
		t.Fatalf("ApplyBase() error = %v", err)
	}
	for _, k := range keys {
		r, err := e.ApplyModule(catalog.DefaultDescriptor(k, "modules/"+k), "out")
		if err != nil {
			t.Fatalf("ApplyModule(%s) error = %v", k, err)
		}
		rep.Merge(r)
	}
	return dst, rep
}

func TestApplyBase(t *testing.T) {
	t.Parallel()

	dst, rep := applyAll(t)

	want := map[string]string{
		"package.json":         `{"name":"app"}`,
		"src/App.tsx":          "base app",
		"src/phobos/index.tsx": "base index",
	}
	if diff := cmp.Diff(want, testutil.Snapshot(t, dst, "out")); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if got := len(rep.ByOutcome(report.OutcomeCopied)); got != 3 {
		t.Errorf("copied items = %d, want 3", got)
	}
}

func TestApplyModule_CopyAllSkipsMetadataAndReserved(t *testing.T) {
	t.Parallel()

	dst, rep := applyAll(t, "a")
	got := testutil.Snapshot(t, dst, "out")

	if _, ok := got[catalog.MetadataFile]; ok {
		t.Error("metadata file must not be copied")
	}
	if _, ok := got[reservedProvider]; ok {
		t.Error("reserved path must not be copied")
	}
	if got["src/App.tsx"] != "a app" {
		t.Errorf("src/App.tsx = %q, module should override base", got["src/App.tsx"])
	}
	if got["src/phobos/index.tsx"] != "base index" {
		t.Error("base files not targeted by the module must survive")
	}

	reserved := rep.ByOutcome(report.OutcomeSkippedReserved)
	if len(reserved) != 1 || reserved[0].Module != "a" || reserved[0].Path != reservedProvider {
		t.Errorf("reserved items = %v", reserved)
	}
}

func TestApplyModule_LastSelectedWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		order []string
		want  string
	}{
		{[]string{"a", "b"}, "from b"},
		{[]string{"b", "a"}, "from a"},
	}

	for _, tt := range tests {
		dst, _ := applyAll(t, tt.order...)
		if got := testutil.Snapshot(t, dst, "out")["index.txt"]; got != tt.want {
			t.Errorf("order %v: index.txt = %q, want %q", tt.order, got, tt.want)
		}
	}
}

func TestApplyModule_Deterministic(t *testing.T) {
	t.Parallel()

	first, _ := applyAll(t, "b", "a")
	second, _ := applyAll(t, "b", "a")

	if diff := cmp.Diff(testutil.Snapshot(t, first, "out"), testutil.Snapshot(t, second, "out")); diff != "" {
		t.Errorf("two runs differ (-first +second):\n%s", diff)
	}
}

func TestApplyModule_CopyRules(t *testing.T) {
	t.Parallel()

	dst := afero.NewMemMapFs()
	e := New(templateFS(), dst, WithReserved(reservedProvider))

	desc := catalog.DefaultDescriptor("c", "modules/c")
	desc.CopyRules = map[string]string{
		"files/theme.ts":             "src/styles/theme.ts",
		"files/pages":                "src/pages",
		"files/missing":              "src/missing.ts",
		"files/../../a":              "src/escape",
		"files/theme.ts/../theme.ts": "../outside.ts",
	}

	rep, err := e.ApplyModule(desc, "out")
	if err != nil {
		t.Fatalf("ApplyModule() error = %v", err)
	}

	want := map[string]string{
		"src/styles/theme.ts": "theme",
		"src/pages/About.tsx": "about",
		"src/pages/Home.tsx":  "home",
	}
	if diff := cmp.Diff(want, testutil.Snapshot(t, dst, "out")); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	missing := rep.ByOutcome(report.OutcomeSkippedMissingSource)
	if len(missing) != 1 || missing[0].Path != "files/missing" || missing[0].Module != "c" {
		t.Errorf("missing-source items = %v", missing)
	}
	if failed := rep.ByOutcome(report.OutcomeFailed); len(failed) != 2 {
		t.Errorf("escaping rules should be rejected, got %v", failed)
	}
}

func TestApplyModule_DirectoryDestinationIsRecoverable(t *testing.T) {
	t.Parallel()

	dst := afero.NewMemMapFs()
	e := New(templateFS(), dst, WithReserved(reservedProvider))
	if _, err := e.ApplyBase("base", "out"); err != nil {
		t.Fatalf("ApplyBase() error = %v", err)
	}
	before := testutil.Snapshot(t, dst, "out")

	desc := catalog.DefaultDescriptor("c", "modules/c")
	desc.CopyRules = map[string]string{
		"files/theme.ts": ".",
		"files/pages":    "src/pages",
		"unused.txt":     "src",
	}

	rep, err := e.ApplyModule(desc, "out")
	if err != nil {
		t.Fatalf("ApplyModule() error = %v, want the rules reported instead", err)
	}

	failed := rep.ByOutcome(report.OutcomeFailed)
	gotPaths := make([]string, 0, len(failed))
	for _, it := range failed {
		gotPaths = append(gotPaths, it.Path)
	}
	if diff := cmp.Diff([]string{".", "src"}, gotPaths); diff != "" {
		t.Errorf("failed paths mismatch (-want +got):\n%s", diff)
	}

	want := before
	want["src/pages/About.tsx"] = "about"
	want["src/pages/Home.tsx"] = "home"
	if diff := cmp.Diff(want, testutil.Snapshot(t, dst, "out")); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyModule_CopyRuleTargetsReserved(t *testing.T) {
	t.Parallel()

	dst := afero.NewMemMapFs()
	e := New(templateFS(), dst, WithReserved(reservedProvider))

	desc := catalog.DefaultDescriptor("c", "modules/c")
	desc.CopyRules = map[string]string{"files/theme.ts": reservedProvider}

	rep, err := e.ApplyModule(desc, "out")
	if err != nil {
		t.Fatalf("ApplyModule() error = %v", err)
	}
	if ok, _ := fsutil.Exists(dst, "out/"+reservedProvider); ok {
		t.Error("reserved destination must not be written")
	}
	if len(rep.ByOutcome(report.OutcomeSkippedReserved)) != 1 {
		t.Errorf("report = %v", rep.Items())
	}
}

func TestApplyBase_MissingDirIsFatal(t *testing.T) {
	t.Parallel()

	e := New(afero.NewMemMapFs(), afero.NewMemMapFs())
	if _, err := e.ApplyBase("base", "out"); err == nil {
		t.Fatal("ApplyBase() on a missing skeleton should fail")
	}
}
