package crud

import (
	"reflect"
	"testing"
)

type person struct {
	Name   string
	Status string
}

func personFields(p person) []string { return []string{p.Name, p.Status} }

func TestFoldStripsAccentsAndCase(t *testing.T) {
	cases := map[string]string{
		"María":    "maria",
		"Ñandú":    "nandu",
		"ADMIN":    "admin",
		"café":     "cafe",
		"no-marks": "no-marks",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterIsAccentAndCaseInsensitive(t *testing.T) {
	people := []person{
		{Name: "Ana", Status: "Activo"},
		{Name: "ana maría", Status: "Inactivo"},
		{Name: "Pedro", Status: "Activo"},
	}

	got := Filter(people, "ana", personFields)
	if len(got) != 2 {
		t.Fatalf("Filter(ana) matched %d, want 2", len(got))
	}

	got = Filter(people, "MARÍA", personFields)
	if len(got) != 1 || got[0].Name != "ana maría" {
		t.Fatalf("Filter(MARÍA) = %+v, want the accented row", got)
	}

	// status labels are searchable like any other field
	got = Filter(people, "inactivo", personFields)
	if len(got) != 1 || got[0].Name != "ana maría" {
		t.Fatalf("Filter(inactivo) = %+v, want the inactive row", got)
	}
}

func TestFilterEmptyQueryReturnsInputUnchanged(t *testing.T) {
	people := []person{{Name: "Ana"}, {Name: "Pedro"}}
	got := Filter(people, "   ", personFields)
	if !reflect.DeepEqual(got, people) {
		t.Fatalf("Filter(blank) = %+v, want input unchanged", got)
	}
}

func TestFilterNoMatches(t *testing.T) {
	people := []person{{Name: "Ana"}}
	if got := Filter(people, "zzz", personFields); len(got) != 0 {
		t.Fatalf("Filter(zzz) = %+v, want empty", got)
	}
}
