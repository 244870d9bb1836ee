package guard

import (
	"testing"
	"time"

	"petlove-admin/internal/permission"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want Outcome
	}{
		{
			name: "unauthenticated always goes to login",
			in:   Input{Authenticated: false, RequiredCaps: []string{"products"}},
			want: RedirectLogin,
		},
		{
			name: "administrator bypasses roles and capabilities",
			in: Input{
				Authenticated: true,
				Role:          permission.RoleAdministrator,
				RequiredRoles: []string{"Manager"},
				RequiredCaps:  []string{"anything"},
			},
			want: Allow,
		},
		{
			name: "capabilities still loading commits to nothing",
			in: Input{
				Authenticated: true,
				Role:          "Seller",
				CapsLoading:   true,
				RequiredCaps:  []string{"sales"},
			},
			want: Pending,
		},
		{
			name: "role mismatch falls back",
			in: Input{
				Authenticated: true,
				Role:          "Seller",
				RequiredRoles: []string{"Manager"},
			},
			want: RedirectFallback,
		},
		{
			name: "role match allows",
			in: Input{
				Authenticated: true,
				Role:          "Manager",
				RequiredRoles: []string{"Manager", "Supervisor"},
			},
			want: Allow,
		},
		{
			name: "missing capability falls back",
			in: Input{
				Authenticated: true,
				Role:          "Seller",
				Capabilities:  permission.NewSet("sales"),
				RequiredCaps:  []string{"sales", "purchases"},
			},
			want: RedirectFallback,
		},
		{
			name: "all capabilities present allows",
			in: Input{
				Authenticated: true,
				Role:          "Seller",
				Capabilities:  permission.NewSet("sales", "purchases"),
				RequiredCaps:  []string{"sales", "purchases"},
			},
			want: Allow,
		},
		{
			name: "no requirements only needs a session",
			in:   Input{Authenticated: true, Role: "Seller"},
			want: Allow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.in); got != tc.want {
				t.Fatalf("Decide = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNoticesFireOncePerKey(t *testing.T) {
	n := NewNotices(time.Hour)

	if !n.FirstTime("sid1|/products") {
		t.Fatal("first hit should alert")
	}
	if n.FirstTime("sid1|/products") {
		t.Fatal("second hit should stay silent")
	}
	if !n.FirstTime("sid1|/sales") {
		t.Fatal("a different route is a fresh mount")
	}
	if !n.FirstTime("sid2|/products") {
		t.Fatal("a different session is a fresh mount")
	}
}

func TestNoticesExpire(t *testing.T) {
	n := NewNotices(10 * time.Millisecond)
	if !n.FirstTime("k") {
		t.Fatal("first hit should alert")
	}
	time.Sleep(20 * time.Millisecond)
	if !n.FirstTime("k") {
		t.Fatal("expired entry should alert again")
	}
}

func TestNoticesResetSession(t *testing.T) {
	n := NewNotices(time.Hour)
	n.FirstTime("sid1|/products")
	n.FirstTime("sid1|/sales")
	n.FirstTime("sid2|/products")

	n.ResetSession("sid1")

	if !n.FirstTime("sid1|/products") {
		t.Fatal("sid1 keys should be cleared")
	}
	if n.FirstTime("sid2|/products") {
		t.Fatal("sid2 keys should be untouched")
	}
}
