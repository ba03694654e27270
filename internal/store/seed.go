package store

import (
	"context"
	"database/sql"
	"fmt"

	"inferguard/internal/sqlshape"
)

// employee is one seed row; employees_secure rows derive from it plus the
// cover stories below.
type employee struct {
	id         int
	name       string
	department string
	salary     float64
	clearance  int
	hireDate   string
	email      string
}

// coverRow is a lower-clearance cover story for one employee. Readers below
// the row's clearance see the cover salary instead of the protected truth.
type coverRow struct {
	employeeID int
	salary     float64
	clearance  int
}

var seedEmployees = []employee{
	// Engineering: ten members, average salary 70000.
	{1, "Alice Johnson", "Engineering", 100000, 3, "2015-03-09", "alice.johnson@corp.test"},
	{2, "Frank Miller", "Engineering", 62000, 1, "2019-06-17", "frank.miller@corp.test"},
	{3, "Grace Chen", "Engineering", 64000, 1, "2020-01-27", "grace.chen@corp.test"},
	{4, "Henry Patel", "Engineering", 65000, 1, "2018-11-05", "henry.patel@corp.test"},
	{5, "Iris Novak", "Engineering", 66000, 1, "2021-04-12", "iris.novak@corp.test"},
	{6, "Jack Turner", "Engineering", 67000, 1, "2017-08-23", "jack.turner@corp.test"},
	{7, "Kara Osei", "Engineering", 68000, 1, "2019-02-14", "kara.osei@corp.test"},
	{8, "Liam Brooks", "Engineering", 69000, 1, "2016-10-03", "liam.brooks@corp.test"},
	{9, "Maya Singh", "Engineering", 70000, 1, "2022-07-19", "maya.singh@corp.test"},
	{10, "Noah Reed", "Engineering", 69000, 1, "2020-09-30", "noah.reed@corp.test"},

	// Sales: Bob Smith is the only member above 90000.
	{11, "Bob Smith", "Sales", 95000, 2, "2014-05-21", "bob.smith@corp.test"},
	{12, "Carol White", "Sales", 85000, 1, "2018-03-11", "carol.white@corp.test"},
	{13, "Ivan Cruz", "Sales", 88000, 1, "2019-12-02", "ivan.cruz@corp.test"},

	// Operations: five members totalling 350000.
	{14, "Dana Cox", "Operations", 72000, 1, "2017-01-16", "dana.cox@corp.test"},
	{15, "Evan Hale", "Operations", 70000, 1, "2018-06-25", "evan.hale@corp.test"},
	{16, "Fiona Price", "Operations", 69000, 1, "2019-09-09", "fiona.price@corp.test"},
	{17, "Grant Lee", "Operations", 71000, 1, "2020-02-28", "grant.lee@corp.test"},
	{18, "Hana Kim", "Operations", 68000, 1, "2021-11-15", "hana.kim@corp.test"},

	// Finance: four members with pairwise-distinct salaries.
	{19, "Olga Verde", "Finance", 58000, 1, "2016-04-07", "olga.verde@corp.test"},
	{20, "Peter Quinn", "Finance", 61000, 1, "2017-10-20", "peter.quinn@corp.test"},
	{21, "Quentin Ash", "Finance", 63500, 1, "2019-05-13", "quentin.ash@corp.test"},
	{22, "Rita Moss", "Finance", 66500, 1, "2022-01-24", "rita.moss@corp.test"},
}

// Cover stories for the polyinstantiated table. Alice's true salary is
// classified at level 3; level 1 and 2 readers see progressively closer
// covers. Bob's truth sits at level 2 behind a level 1 cover.
var seedCovers = []coverRow{
	{1, 65000, 1},
	{1, 85000, 2},
	{11, 78000, 1},
}

var seedDepartments = []struct {
	id       int
	name     string
	location string
}{
	{1, "Engineering", "Building A"},
	{2, "Sales", "Building B"},
	{3, "Operations", "Building B"},
	{4, "Finance", "Building C"},
}

var seedSales = []struct {
	id         int
	employeeID int
	amount     float64
	soldAt     string
}{
	{1, 11, 12000.50, "2026-01-15"},
	{2, 11, 9500.00, "2026-02-03"},
	{3, 12, 7800.25, "2026-01-22"},
	{4, 13, 15200.75, "2026-02-18"},
	{5, 12, 8100.00, "2026-03-05"},
	{6, 13, 4950.00, "2026-03-27"},
}

// SeedDemo creates and populates the demo dataset. Idempotent: inserts are
// skipped when employees already holds rows. The driver selects placeholder
// and view dialect.
func SeedDemo(ctx context.Context, db *sql.DB, driver string) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS departments (
			department_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			employee_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			department TEXT NOT NULL,
			salary DOUBLE PRECISION NOT NULL,
			clearance_level INTEGER NOT NULL DEFAULT 1,
			hire_date TEXT NOT NULL,
			email TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS employees_secure (
			row_id INTEGER PRIMARY KEY,
			employee_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			department TEXT NOT NULL,
			salary DOUBLE PRECISION NOT NULL,
			clearance_level INTEGER NOT NULL,
			hire_date TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			sale_id INTEGER PRIMARY KEY,
			employee_id INTEGER NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			sold_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	if err := createRoleViews(ctx, db, driver); err != nil {
		return err
	}

	// Check if already seeded
	var count int
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM employees").Scan(&count); err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	exec := func(stmt string, args ...interface{}) error {
		if driver == "postgres" {
			rewritten, err := sqlshape.RewritePositional(stmt)
			if err != nil {
				return err
			}
			stmt = rewritten
		}
		_, err := db.ExecContext(ctx, stmt, args...)
		return err
	}

	// --- Departments ---
	for _, d := range seedDepartments {
		if err := exec(
			"INSERT INTO departments (department_id, name, location) VALUES (?, ?, ?)",
			d.id, d.name, d.location,
		); err != nil {
			return fmt.Errorf("insert department %s: %w", d.name, err)
		}
	}

	// --- Employees (ground truth) ---
	for _, e := range seedEmployees {
		if err := exec(
			"INSERT INTO employees (employee_id, name, department, salary, clearance_level, hire_date, email) VALUES (?, ?, ?, ?, ?, ?, ?)",
			e.id, e.name, e.department, e.salary, e.clearance, e.hireDate, e.email,
		); err != nil {
			return fmt.Errorf("insert employee %s: %w", e.name, err)
		}
	}

	// --- Polyinstantiated table: truth rows at each employee's clearance,
	// cover rows below ---
	rowID := 0
	insertSecure := func(employeeID int, salary float64, clearance int) error {
		var src employee
		for _, e := range seedEmployees {
			if e.id == employeeID {
				src = e
				break
			}
		}
		rowID++
		return exec(
			"INSERT INTO employees_secure (row_id, employee_id, name, department, salary, clearance_level, hire_date) VALUES (?, ?, ?, ?, ?, ?, ?)",
			rowID, src.id, src.name, src.department, salary, clearance, src.hireDate,
		)
	}
	for _, e := range seedEmployees {
		if err := insertSecure(e.id, e.salary, e.clearance); err != nil {
			return fmt.Errorf("insert secure row for %s: %w", e.name, err)
		}
	}
	for _, c := range seedCovers {
		if err := insertSecure(c.employeeID, c.salary, c.clearance); err != nil {
			return fmt.Errorf("insert cover row for employee %d: %w", c.employeeID, err)
		}
	}

	// --- Sales ---
	for _, s := range seedSales {
		if err := exec(
			"INSERT INTO sales (sale_id, employee_id, amount, sold_at) VALUES (?, ?, ?, ?)",
			s.id, s.employeeID, s.amount, s.soldAt,
		); err != nil {
			return fmt.Errorf("insert sale %d: %w", s.id, err)
		}
	}

	return nil
}

// createRoleViews creates the per-role projections used by the privilege
// probes. Postgres lacks CREATE VIEW IF NOT EXISTS, hence the dialect split.
func createRoleViews(ctx context.Context, db *sql.DB, driver string) error {
	prefix := "CREATE VIEW IF NOT EXISTS"
	if driver == "postgres" {
		prefix = "CREATE OR REPLACE VIEW"
	}

	views := []string{
		prefix + " employees_basic AS SELECT employee_id, name, department, hire_date FROM employees",
		prefix + " employees_manager AS SELECT employee_id, name, department, hire_date, email FROM employees",
		prefix + " employees_hr AS SELECT * FROM employees",
	}
	for _, stmt := range views {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create view: %w", err)
		}
	}
	return nil
}
