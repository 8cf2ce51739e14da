package models

import "testing"

func TestPermissionList(t *testing.T) {
	cases := []struct {
		stored string
		want   int
	}{
		{"", 0},
		{"   ", 0},
		{"SUBMISSION", 1},
		{"SUBMISSION,REVIEWING", 2},
		{" SUBMISSION , REVIEWING , ADMIN ", 3},
		{"SUBMISSION,,REVIEWING", 2},
	}
	for _, c := range cases {
		u := User{Permissions: c.stored}
		if got := len(u.PermissionList()); got != c.want {
			t.Errorf("PermissionList(%q) returned %d entries, want %d", c.stored, got, c.want)
		}
	}
}

func TestHasPermission(t *testing.T) {
	u := User{Permissions: "SUBMISSION,REVIEWING"}
	if !u.HasPermission(PermissionSubmission) {
		t.Error("expected SUBMISSION to be granted")
	}
	if !u.HasPermission(PermissionReviewing) {
		t.Error("expected REVIEWING to be granted")
	}
	if u.HasPermission(PermissionAdmin) {
		t.Error("ADMIN must not be granted")
	}
}

func TestDisplayName(t *testing.T) {
	prefix := "Dr."
	u := User{Prefix: &prefix, FirstName: "Alice", LastName: "Amundsen"}
	if got := u.DisplayName(); got != "Dr. Alice Amundsen" {
		t.Errorf("DisplayName() = %q", got)
	}

	plain := User{FirstName: "Alice", LastName: "Amundsen"}
	if got := plain.DisplayName(); got != "Alice Amundsen" {
		t.Errorf("DisplayName() = %q", got)
	}
}

func TestReviewsTopic(t *testing.T) {
	u := User{ReviewTopics: []ReviewerTopic{{MainAreaID: 2}, {MainAreaID: 5}}}
	if !u.ReviewsTopic(5) {
		t.Error("expected topic 5 to match")
	}
	if u.ReviewsTopic(3) {
		t.Error("topic 3 must not match")
	}
}
