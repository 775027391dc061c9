package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	SetArchived(ctx context.Context, id string, archived bool) error
}

// StudentService manages the roster: CRUD plus CSV import.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the roster service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// CreateStudentRequest is the add-student payload.
type CreateStudentRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastInitial string `json:"last_initial" validate:"omitempty,max=3"`
}

// List returns a page of the roster.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 50
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	pagination := models.NewPagination(filter.Page, filter.PageSize, total)
	return students, pagination, nil
}

// Get returns one student or appErrors.ErrNotFound.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create adds one student to the roster.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student := &models.Student{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastInitial: strings.TrimSpace(req.LastInitial),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("name", student.DisplayName()))
	return student, nil
}

// Archive hides a student from the default roster without deleting them.
func (s *StudentService) Archive(ctx context.Context, id string, archived bool) error {
	if err := s.repo.SetArchived(ctx, id, archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive student")
	}
	return nil
}

// ImportResult summarises a roster import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportCSV ingests a roster file. Each row yields a first name plus last
// initial; both "First Last" in one column and "Last, First" split across
// columns are accepted, and a leading header row is skipped.
func (s *StudentService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ImportResult{}
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed CSV")
		}
		line++

		first, initial, ok := parseRosterRow(row)
		if !ok {
			result.Skipped++
			continue
		}
		if line == 1 && looksLikeHeader(first) {
			result.Skipped++
			continue
		}

		student := &models.Student{FirstName: first, LastInitial: initial}
		if err := s.repo.Create(ctx, student); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info("roster imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// parseRosterRow extracts (first name, last initial) from a CSV row.
func parseRosterRow(row []string) (string, string, bool) {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		c = strings.TrimSpace(c)
		if c != "" {
			cells = append(cells, c)
		}
	}
	if len(cells) == 0 {
		return "", "", false
	}

	switch {
	case len(cells) >= 2:
		// Two columns: first name, last name.
		return cells[0], initialOf(cells[1]), true
	default:
		// Single column, "First Last" or "Last, First".
		cell := cells[0]
		if strings.Contains(cell, ",") {
			parts := strings.SplitN(cell, ",", 2)
			first := strings.TrimSpace(parts[1])
			return first, initialOf(strings.TrimSpace(parts[0])), first != ""
		}
		fields := strings.Fields(cell)
		if len(fields) == 0 {
			return "", "", false
		}
		if len(fields) == 1 {
			return fields[0], "", true
		}
		return strings.Join(fields[:len(fields)-1], " "), initialOf(fields[len(fields)-1]), true
	}
}

func initialOf(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1])
}

func looksLikeHeader(first string) bool {
	switch strings.ToLower(first) {
	case "first", "first name", "firstname", "name", "student", "student name":
		return true
	}
	return false
}
