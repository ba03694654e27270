package scenario

import "inferguard/internal/domain"

// Default returns the compiled-in scenario for the demo dataset: the four
// classic attack targets, the polyinstantiated Engineering outlier, and
// the four store roles with their probe set.
func Default() *Scenario {
	return &Scenario{
		Name: "demo",
		Suite: SuiteSpec{
			Differencing: domain.DifferencingTarget{Name: "Alice Johnson", Group: "Engineering"},
			Tracker:      domain.TrackerTarget{Name: "Bob Smith", Threshold: 90000},
			Sum: domain.SumTarget{
				Group: "Operations",
				Known: map[string]float64{
					"Evan Hale":   70000,
					"Fiona Price": 69000,
					"Grant Lee":   71000,
					"Hana Kim":    68000,
				},
			},
			Linear: domain.LinearSystemTarget{Group: "Finance"},
		},
		Poly: PolySpec{
			Target: "Alice Johnson",
			Group:  "Engineering",
			Levels: []int{1, 2, 3},
		},
		Roles: []RoleSpec{
			{
				Name:        "basic_employee",
				Description: "Basic employee with minimal access",
				User:        "alice_user",
				Password:    "alice123",
				Probes:      withSharedProbes("SELECT * FROM employees_basic LIMIT 5"),
			},
			{
				Name:        "dept_manager",
				Description: "Department manager with moderate access",
				User:        "bob_manager",
				Password:    "bob123",
				Probes:      withSharedProbes("SELECT * FROM employees_manager LIMIT 5"),
			},
			{
				Name:        "hr_admin",
				Description: "HR administrator with full access",
				User:        "charlie_hr",
				Password:    "charlie123",
				Probes:      withSharedProbes("SELECT * FROM employees_hr LIMIT 5"),
			},
			{
				Name:        "analyst",
				Description: "Data analyst with aggregate-only access",
				User:        "dana_analyst",
				Password:    "dana123",
				Probes:      withSharedProbes("SELECT AVG(amount) as avg_sale FROM sales"),
			},
		},
	}
}

// withSharedProbes builds a role's probe list: the probes every role runs
// plus the role-appropriate query in the third slot.
func withSharedProbes(roleQuery string) []ProbeSpec {
	return []ProbeSpec{
		{Name: "View all employee records", Query: "SELECT * FROM employees LIMIT 5"},
		{Name: "View individual salaries", Query: "SELECT name, salary FROM employees WHERE name = 'Alice Johnson'"},
		{Name: "View role-appropriate data", Query: roleQuery},
		{Name: "Perform aggregate queries", Query: "SELECT department, AVG(salary) as avg_sal FROM employees GROUP BY department"},
	}
}
