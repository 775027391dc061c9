package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
	"github.com/noah-isme/hallpass-api/pkg/export"
)

type exportAttendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
}

type exportStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

var attendanceExportHeaders = []string{"Student Name", "Date", "Period", "Status", "Check-in Time", "Minutes Late"}

// ExportService renders attendance records as CSV or PDF downloads.
type ExportService struct {
	attendance exportAttendanceRepository
	students   exportStudentRepository
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(attendance exportAttendanceRepository, students exportStudentRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		attendance: attendance,
		students:   students,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// AttendanceCSV exports matching records as CSV bytes.
func (s *ExportService) AttendanceCSV(ctx context.Context, filter models.AttendanceFilter) ([]byte, error) {
	table, err := s.attendanceTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	out, err := s.csv.Render(*table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV")
	}
	return out, nil
}

// AttendancePDF exports matching records as a PDF report.
func (s *ExportService) AttendancePDF(ctx context.Context, filter models.AttendanceFilter, now time.Time) ([]byte, error) {
	table, err := s.attendanceTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	title := "Attendance Report"
	if filter.Date != "" {
		title = "Attendance Report " + filter.Date
	}
	out, err := s.pdf.Render(*table, title, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF")
	}
	return out, nil
}

func (s *ExportService) attendanceTable(ctx context.Context, filter models.AttendanceFilter) (*export.Table, error) {
	records, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records for export")
	}

	names := make(map[string]string)
	table := &export.Table{Headers: attendanceExportHeaders, Rows: make([][]string, 0, len(records))}
	for _, rec := range records {
		name, ok := names[rec.StudentID]
		if !ok {
			name = s.studentName(ctx, rec.StudentID)
			names[rec.StudentID] = name
		}

		status := "On Time"
		minutesLate := ""
		if rec.IsLate {
			status = "Late"
			minutesLate = strconv.Itoa(rec.MinutesLate)
		}
		table.Rows = append(table.Rows, []string{
			name,
			rec.Date,
			strconv.Itoa(rec.Period),
			status,
			rec.CheckInTime.Format("15:04:05"),
			minutesLate,
		})
	}
	return table, nil
}

// studentName falls back to the raw ID so one missing roster entry doesn't
// sink the whole export.
func (s *ExportService) studentName(ctx context.Context, studentID string) string {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to resolve student for export", zap.String("student_id", studentID), zap.Error(err))
		}
		return fmt.Sprintf("Unknown (%s)", studentID)
	}
	return student.DisplayName()
}
