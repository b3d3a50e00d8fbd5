package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jmlhub/jml-api/internal/models"
)

const employeeColumns = "id, full_name, email, phone, job_title, department_id, manager_id, status, start_date, end_date, created_at, updated_at"

// EmployeeRepository manages persistence for employee records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees matching the provided equality filters, newest first.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	baseQuery := `FROM employees WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC", employeeColumns, baseQuery)

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// likeEscaper neutralises LIKE metacharacters so a term such as "100%"
// matches the literal substring instead of everything.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches a case-insensitive substring against name, email and job title.
func (r *EmployeeRepository) Search(ctx context.Context, term string) ([]models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE LOWER(full_name) LIKE $1 OR LOWER(email) LIKE $1 OR LOWER(job_title) LIKE $1 ORDER BY created_at DESC`, employeeColumns)
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, pattern); err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	return employees, nil
}

// FindByID fetches an employee by ID.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1 LIMIT 1`, employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find employee by id: %w", err)
	}
	return &employee, nil
}

// Create inserts a new employee record.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now
	const query = `INSERT INTO employees (id, full_name, email, phone, job_title, department_id, manager_id, status, start_date, end_date, created_at, updated_at)
        VALUES (:id, :full_name, :email, :phone, :job_title, :department_id, :manager_id, :status, :start_date, :end_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update writes mutable fields of an employee.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET full_name = :full_name, email = :email, phone = :phone, job_title = :job_title, department_id = :department_id, manager_id = :manager_id, status = :status, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// Delete removes the row.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM employees WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}
