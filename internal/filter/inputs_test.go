package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpandInputs(t *testing.T) {
	dir := writeInputs(t, map[string]string{
		"src/b.c":        "",
		"src/a.c":        "",
		"src/x.h":        "",
		"src/sub/c.c":    "",
		"src/vendor/v.c": "",
	})
	t.Chdir(dir)

	got, err := ExpandInputs([]string{"src/x.h", "src/**/*.c", "-", "src/a.c", "src/vendor/v.c"}, []string{"src/vendor/**"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"src/x.h", "src/a.c", "src/b.c", "src/sub/c.c", "-"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExpandInputs (-want +got):\n%s", diff)
	}
}

func TestExpandInputs_Errors(t *testing.T) {
	dir := writeInputs(t, map[string]string{"a.c": ""})
	t.Chdir(dir)

	if _, err := ExpandInputs([]string{"*.cpp"}, nil); err == nil {
		t.Fatal("expected error for a glob with no matches")
	}
	if _, err := ExpandInputs([]string{"a.c"}, []string{"[oops"}); err == nil {
		t.Fatal("expected error for a bad exclude pattern")
	}
	// Plain paths are not checked here; a missing file fails when it is opened.
	got, err := ExpandInputs([]string{"missing.c"}, nil)
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v %v", got, err)
	}
}
