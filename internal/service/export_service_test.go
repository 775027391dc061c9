package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
)

func TestAttendanceCSVExport(t *testing.T) {
	attendance := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{
		"a": {
			StudentID:   "stu-1",
			Date:        "2025-03-03",
			Period:      1,
			CheckInTime: time.Date(2025, time.March, 3, 8, 44, 30, 0, time.UTC),
			IsLate:      true,
			MinutesLate: 4,
			SecondsLate: 30,
		},
	}}
	students := &mockStudentRepo{students: []*models.Student{
		{ID: "stu-1", FirstName: "Avery", LastInitial: "L"},
	}}
	svc := NewExportService(attendance, students, zap.NewNop())

	out, err := svc.AttendanceCSV(context.Background(), models.AttendanceFilter{Date: "2025-03-03"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Student Name,Date,Period,Status,Check-in Time,Minutes Late", lines[0])
	assert.Equal(t, "Avery L,2025-03-03,1,Late,08:44:30,4", lines[1])
}

func TestAttendanceCSVUnknownStudent(t *testing.T) {
	attendance := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{
		"a": {
			StudentID:   "ghost",
			Date:        "2025-03-03",
			Period:      2,
			CheckInTime: time.Date(2025, time.March, 3, 10, 11, 0, 0, time.UTC),
		},
	}}
	svc := NewExportService(attendance, &mockStudentRepo{}, zap.NewNop())

	out, err := svc.AttendanceCSV(context.Background(), models.AttendanceFilter{Date: "2025-03-03"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Unknown (ghost)")
	assert.Contains(t, string(out), "On Time")
}

func TestAttendancePDFExport(t *testing.T) {
	attendance := &mockAttendanceRepo{}
	svc := NewExportService(attendance, &mockStudentRepo{}, zap.NewNop())

	out, err := svc.AttendancePDF(context.Background(), models.AttendanceFilter{Date: "2025-03-03"}, time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
