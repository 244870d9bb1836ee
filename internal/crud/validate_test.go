package crud

import "testing"

func TestIsCSSColor(t *testing.T) {
	valid := []string{
		"#fff", "#FFAA00", "#ffaa0080",
		"rgb(255, 0, 0)", "rgba(0,0,0,0.5)", "hsl(120, 50%, 50%)", "hsla(0,0%,0%,1)",
		"red", "NAVY", "  teal  ",
	}
	for _, s := range valid {
		if !IsCSSColor(s) {
			t.Errorf("IsCSSColor(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "#ffff", "#gggggg", "rgb 255 0 0", "notacolor", "12345"}
	for _, s := range invalid {
		if IsCSSColor(s) {
			t.Errorf("IsCSSColor(%q) = true, want false", s)
		}
	}
}

type contactForm struct {
	Name     string `validate:"required,max=64"`
	Email    string `validate:"omitempty,email"`
	Document string `validate:"doc10"`
	Swatch   string `validate:"omitempty,csscolor"`
}

func TestCheckStructMessages(t *testing.T) {
	got := CheckStruct(&contactForm{
		Email:    "not-an-email",
		Document: "123",
		Swatch:   "#zzz",
	})

	want := map[string]string{
		"name":     "required",
		"email":    "invalid email",
		"document": "must be exactly 10 digits",
		"swatch":   "must be a valid CSS color",
	}
	for f, msg := range want {
		if got[f] != msg {
			t.Errorf("field %q = %q, want %q", f, got[f], msg)
		}
	}
}

func TestCheckStructDocumentOptional(t *testing.T) {
	got := CheckStruct(&contactForm{Name: "Ana"})
	if len(got) != 0 {
		t.Fatalf("errors = %v, want none: empty document is allowed", got)
	}

	got = CheckStruct(&contactForm{Name: "Ana", Document: "0123456789"})
	if len(got) != 0 {
		t.Fatalf("errors = %v, want none for a 10-digit document", got)
	}
}
