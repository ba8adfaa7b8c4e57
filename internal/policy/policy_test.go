package policy

import "testing"

func TestCanManage(t *testing.T) {
	cases := []struct {
		role, userDept, targetDept string
		want                       bool
	}{
		{"admin", "IT", "IT", true},
		{"admin", "IT", "CSE", true},
		{"admin", "", "Physics", true},
		{"hod", "IT", "IT", true},
		{"hod", "IT", "CSE", false},
		{"hod", "", "", false},
		{"staff", "IT", "IT", false},
		{"staff", "CSE", "CSE", false},
		{"", "IT", "IT", false},
		{"superuser", "IT", "IT", false},
	}
	for _, tc := range cases {
		if got := CanManage(tc.role, tc.userDept, tc.targetDept); got != tc.want {
			t.Errorf("CanManage(%q, %q, %q) = %v, want %v",
				tc.role, tc.userDept, tc.targetDept, got, tc.want)
		}
	}
}

func TestCanLogin(t *testing.T) {
	cases := []struct {
		role     string
		approved bool
		want     bool
	}{
		{"admin", false, true},
		{"admin", true, true},
		{"hod", true, true},
		{"hod", false, false},
		{"staff", true, true},
		{"staff", false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		if got := CanLogin(tc.role, tc.approved); got != tc.want {
			t.Errorf("CanLogin(%q, %v) = %v, want %v", tc.role, tc.approved, got, tc.want)
		}
	}
}

func TestCanResolveAlerts(t *testing.T) {
	if !CanResolveAlerts("admin") {
		t.Error("admin should resolve alerts")
	}
	if CanResolveAlerts("hod") || CanResolveAlerts("staff") {
		t.Error("only admin resolves alerts")
	}
}
