package controllers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/THURZIN2905/toperdido/logger"
	"github.com/THURZIN2905/toperdido/metrics"
	"github.com/THURZIN2905/toperdido/models"
	"github.com/THURZIN2905/toperdido/repository"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var exportHeader = []string{"session_id", "user_id", "question_id", "selected_option_id", "response_time_ms", "created_at"}

type ExportStore interface {
	CreateExportJob(ctx context.Context, job *models.ExportJob) error
	FindExportJob(ctx context.Context, jobID string) (*models.ExportJob, error)
	UpdateExportJob(ctx context.Context, jobID string, fields map[string]interface{}) error
	ResponsesBetween(ctx context.Context, from, to *time.Time) ([]models.QuestionnaireResponse, error)
}

// Uploader publishes a finished export and returns its URL.
type Uploader interface {
	Upload(objectPath string, data io.Reader, contentType string) (string, error)
}

type ExportController struct {
	store    ExportStore
	dir      string
	uploader Uploader
	log      logrus.FieldLogger
	spawn    func(func())
}

// NewExportController writes export files under dir. uploader may be nil,
// in which case files are served from disk.
func NewExportController(store ExportStore, dir string, uploader Uploader, log logrus.FieldLogger) *ExportController {
	if log == nil {
		log = logger.Logger
	}
	return &ExportController{
		store:    store,
		dir:      dir,
		uploader: uploader,
		log:      log,
		spawn:    func(f func()) { go f() },
	}
}

type ExportRequest struct {
	Format    string  `json:"format"`
	RangeFrom *string `json:"range_from,omitempty"`
	RangeTo   *string `json:"range_to,omitempty"`
}

func parseBound(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// POST /api/v1/admin/export
func (ec *ExportController) CreateExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if req.Format == "" {
		req.Format = FormatCSV
	}
	if req.Format != FormatCSV && req.Format != FormatXLSX {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unsupported format, use csv or xlsx"})
		return
	}

	from, err := parseBound(req.RangeFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "range_from must be RFC3339"})
		return
	}
	to, err := parseBound(req.RangeTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "range_to must be RFC3339"})
		return
	}
	if from != nil && to != nil && to.Before(*from) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "range_to is before range_from"})
		return
	}

	job := models.ExportJob{
		JobID:     uuid.New().String(),
		Format:    req.Format,
		RangeFrom: from,
		RangeTo:   to,
		Status:    models.ExportQueued,
	}
	if err := ec.store.CreateExportJob(c.Request.Context(), &job); err != nil {
		ec.log.WithError(err).Error("failed to create export job")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create export job"})
		return
	}

	jobID := job.JobID
	ec.spawn(func() { ec.processExportJob(context.Background(), jobID) })

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": models.ExportQueued,
	})
}

// GET /api/v1/admin/exports/:job_id
func (ec *ExportController) GetExport(c *gin.Context) {
	job, err := ec.store.FindExportJob(c.Request.Context(), c.Param("job_id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load job"})
		return
	}

	if job.Status == models.ExportDone && job.FileURL == nil && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"format": job.Format,
		"status": job.Status,
		"url":    job.FileURL,
		"error":  job.ErrorMsg,
	})
}

func (ec *ExportController) failJob(ctx context.Context, job *models.ExportJob, err error) {
	metrics.ExportJobs.WithLabelValues(job.Format, models.ExportFailed).Inc()
	ec.log.WithError(err).WithField("job_id", job.JobID).Error("export job failed")
	em := err.Error()
	if uerr := ec.store.UpdateExportJob(ctx, job.JobID, map[string]interface{}{"status": models.ExportFailed, "error_msg": em}); uerr != nil {
		ec.log.WithError(uerr).WithField("job_id", job.JobID).Error("failed to mark export job failed")
	}
}

func (ec *ExportController) processExportJob(ctx context.Context, jobID string) {
	job, err := ec.store.FindExportJob(ctx, jobID)
	if err != nil {
		ec.log.WithError(err).WithField("job_id", jobID).Error("export job vanished")
		return
	}
	if err := ec.store.UpdateExportJob(ctx, jobID, map[string]interface{}{"status": models.ExportProcessing}); err != nil {
		ec.failJob(ctx, job, err)
		return
	}

	rows, err := ec.store.ResponsesBetween(ctx, job.RangeFrom, job.RangeTo)
	if err != nil {
		ec.failJob(ctx, job, err)
		return
	}

	if err := os.MkdirAll(ec.dir, 0o755); err != nil {
		ec.failJob(ctx, job, err)
		return
	}
	filename := fmt.Sprintf("export_%s.%s", job.JobID, job.Format)
	outPath := filepath.Join(ec.dir, filename)

	switch job.Format {
	case FormatXLSX:
		err = writeXLSX(outPath, rows)
	default:
		err = writeCSVFile(outPath, rows)
	}
	if err != nil {
		ec.failJob(ctx, job, err)
		return
	}

	fields := map[string]interface{}{"status": models.ExportDone, "file_path": outPath}
	if ec.uploader != nil {
		url, err := ec.upload(outPath, filename, job.Format)
		if err != nil {
			ec.failJob(ctx, job, err)
			return
		}
		fields["file_url"] = url
	}

	if err := ec.store.UpdateExportJob(ctx, jobID, fields); err != nil {
		ec.log.WithError(err).WithField("job_id", jobID).Error("failed to mark export job done")
		return
	}
	metrics.ExportJobs.WithLabelValues(job.Format, models.ExportDone).Inc()
	ec.log.WithFields(logrus.Fields{"job_id": jobID, "rows": len(rows), "format": job.Format}).Info("export job done")
}

func (ec *ExportController) upload(localPath, objectName, format string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := "text/csv"
	if format == FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return ec.uploader.Upload("exports/"+objectName, f, contentType)
}

func exportRecord(r models.QuestionnaireResponse) []string {
	uid := ""
	if r.UserID != nil {
		uid = strconv.FormatUint(uint64(*r.UserID), 10)
	}
	return []string{
		r.SessionID,
		uid,
		strconv.FormatUint(uint64(r.QuestionID), 10),
		strconv.FormatUint(uint64(r.SelectedOptionID), 10),
		strconv.FormatInt(r.ResponseTimeMS, 10),
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeCSV(w io.Writer, rows []models.QuestionnaireResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(exportRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeCSVFile(outPath string, rows []models.QuestionnaireResponse) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := writeCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(outPath string, rows []models.QuestionnaireResponse) error {
	const sheet = "responses"
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var uid interface{} = ""
		if r.UserID != nil {
			uid = *r.UserID
		}
		row := []interface{}{
			r.SessionID,
			uid,
			r.QuestionID,
			r.SelectedOptionID,
			r.ResponseTimeMS,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(outPath)
}
