package role

import "testing"

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  string
	}{
		{name: "nil", roles: nil, want: PathLogin},
		{name: "empty", roles: []string{}, want: PathLogin},
		{name: "unknown only", roles: []string{"ROLE_UNKNOWN"}, want: PathLogin},
		{name: "unknown first", roles: []string{"ROLE_UNKNOWN", Student}, want: PathStudent},
		{name: "lowercase is not a role", roles: []string{"role_admin"}, want: PathLogin},
		{name: "super admin", roles: []string{SuperAdmin}, want: PathAdmin},
		{name: "admin", roles: []string{Admin}, want: PathAdmin},
		{name: "support", roles: []string{Support}, want: PathSupport},
		{name: "teacher", roles: []string{Teacher}, want: PathTeacher},
		{name: "student", roles: []string{Student}, want: PathStudent},
		{name: "student + super admin", roles: []string{Student, SuperAdmin}, want: PathAdmin},
		{name: "teacher + support", roles: []string{Teacher, Support}, want: PathSupport},
		{name: "student + teacher", roles: []string{Student, Teacher}, want: PathTeacher},
		{name: "all", roles: []string{Student, Teacher, Support, Admin, SuperAdmin}, want: PathAdmin},
		{name: "duplicates", roles: []string{Student, Student}, want: PathStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePath(tt.roles); got != tt.want {
				t.Errorf("ResolvePath(%v) = %v, want %v", tt.roles, got, tt.want)
			}
		})
	}
}

func TestResolvePathIsTotal(t *testing.T) {
	pool := []string{SuperAdmin, Admin, Support, Teacher, Student, "ROLE_UNKNOWN", ""}

	valid := make(map[string]bool, len(LandingPaths))
	for _, p := range LandingPaths {
		valid[p] = true
	}

	// every subset of the pool, in pool order and reversed
	for mask := 0; mask < 1<<len(pool); mask++ {
		var roles []string
		for i, r := range pool {
			if mask&(1<<i) != 0 {
				roles = append(roles, r)
			}
		}
		reversed := make([]string, len(roles))
		for i, r := range roles {
			reversed[len(roles)-1-i] = r
		}
		for _, set := range [][]string{roles, reversed} {
			got := ResolvePath(set)
			if !valid[got] {
				t.Fatalf("ResolvePath(%v) = %q, not a landing path", set, got)
			}
			if Has(set, SuperAdmin, Admin) && got != PathAdmin {
				t.Errorf("ResolvePath(%v) = %v, want %v", set, got, PathAdmin)
			}
		}
	}
}

func TestPickHint(t *testing.T) {
	tests := []struct {
		roles []string
		want  string
	}{
		{roles: nil, want: ""},
		{roles: []string{Student, Admin}, want: Admin},
		{roles: []string{Admin, SuperAdmin}, want: SuperAdmin},
		{roles: []string{Teacher, Support}, want: Teacher},
		{roles: []string{"ROLE_UNKNOWN"}, want: "ROLE_UNKNOWN"},
	}
	for _, tt := range tests {
		if got := PickHint(tt.roles); got != tt.want {
			t.Errorf("PickHint(%v) = %v, want %v", tt.roles, got, tt.want)
		}
	}
}
