package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
)

type mockStudentRepo struct {
	students []*models.Student
	nextID   int
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var out []models.Student
	for _, s := range m.students {
		if !filter.IncludeArchived && s.Archived {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	for _, s := range m.students {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.nextID++
	student.ID = fmt.Sprintf("stu-%d", m.nextID)
	copied := *student
	m.students = append(m.students, &copied)
	return nil
}

func (m *mockStudentRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	for _, s := range m.students {
		if s.ID == id {
			s.Archived = archived
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestStudentCreateTrimsInput(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, zap.NewNop())

	student, err := svc.Create(context.Background(), CreateStudentRequest{FirstName: "  Avery ", LastInitial: " L "})
	require.NoError(t, err)
	assert.Equal(t, "Avery", student.FirstName)
	assert.Equal(t, "L", student.LastInitial)
	assert.Equal(t, "Avery L", student.DisplayName())
}

func TestStudentCreateValidation(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{})
	require.Error(t, err)
}

func TestImportCSVFormats(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, zap.NewNop())

	csvData := strings.Join([]string{
		"First Name,Last Name",
		"Avery,Lee",
		"\"Nguyen, Minh\"",
		"Jordan Baker",
		"Sam",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 4, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	names := make([]string, 0, len(repo.students))
	for _, s := range repo.students {
		names = append(names, s.DisplayName())
	}
	assert.Equal(t, []string{"Avery L", "Minh N", "Jordan B", "Sam"}, names)
}

func TestImportCSVLastCommaFirst(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, zap.NewNop())

	result, err := svc.ImportCSV(context.Background(), strings.NewReader("\"Baker, Jordan\"\n"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)
	assert.Equal(t, "Jordan", repo.students[0].FirstName)
	assert.Equal(t, "B", repo.students[0].LastInitial)
}

func TestStudentArchive(t *testing.T) {
	repo := &mockStudentRepo{students: []*models.Student{{ID: "stu-1", FirstName: "Avery"}}}
	svc := NewStudentService(repo, nil, zap.NewNop())

	require.NoError(t, svc.Archive(context.Background(), "stu-1", true))

	visible, _, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, _, err := svc.List(context.Background(), models.StudentFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
