package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/rs/zerolog"
)

// Report lines.
const (
	lineDirCreated  = "創建目錄: "
	lineNoFiles     = "沒有找到CSV文件"
	lineFilesFound  = "找到 %d 個CSV文件"
	lineFileOK      = "✓ 處理文件完成: "
	lineFileFailed  = "✗ 處理文件失敗: %s - 錯誤: %s"
	lineNextFile    = "--- 準備處理下一個文件 ---"
	lineDone        = "處理完成!"
	lineTotalOK     = "成功處理: %d 條記錄"
	lineTotalFailed = "處理失敗: %d 條記錄"
)

// Importer clears the class log store and reloads it from the CSV files in
// one directory. Runs are sequential; callers serialize concurrent runs.
type Importer struct {
	dir string
	ids *IDGenerator
	now func() time.Time
	log zerolog.Logger
}

// New creates an Importer for dir. IDs and update dates use loc.
func New(dir string, loc *time.Location, log zerolog.Logger) *Importer {
	return &Importer{
		dir: dir,
		ids: NewIDGenerator(loc),
		now: time.Now,
		log: log.With().Str("component", "importer").Logger(),
	}
}

// Dir returns the directory the importer scans.
func (im *Importer) Dir() string {
	return im.dir
}

// Run performs one full import. The report is always returned; a non-nil
// error means the run stopped early and the report says why.
func (im *Importer) Run(ctx context.Context, store Store, trigger model.ImportTrigger) (*model.ImportReport, error) {
	report := &model.ImportReport{
		Trigger:   trigger,
		Directory: im.dir,
		StartedAt: im.now(),
	}
	log := im.log.With().Str("trigger", string(trigger)).Logger()

	fail := func(err error) (*model.ImportReport, error) {
		report.Abort(err)
		report.FinishedAt = im.now()
		log.Error().Err(err).Msg("Import aborted")
		return report, err
	}

	deleted, err := store.DeleteAll(ctx)
	if err != nil {
		return fail(fmt.Errorf("clear class logs: %w", err))
	}
	report.Deleted = deleted
	log.Info().Int64("deleted", deleted).Msg("Cleared existing class logs")

	files, created, err := ScanDirectory(im.dir)
	if created {
		report.DirectoryCreated = true
		report.Add(lineDirCreated + im.dir)
		log.Info().Str("dir", im.dir).Msg("Created upload directory")
	}
	if err != nil {
		return fail(err)
	}

	report.FilesFound = len(files)
	if len(files) == 0 {
		report.Add(lineNoFiles)
		report.FinishedAt = im.now()
		log.Info().Str("dir", im.dir).Msg("No CSV files found")
		return report, nil
	}
	report.Add(fmt.Sprintf(lineFilesFound, len(files)))

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		name := filepath.Base(path)
		res, err := im.ImportFile(ctx, store, path)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			report.TotalSuccess += res.Success
			report.TotalErrors += res.Errors
			return fail(err)
		}

		outcome := model.FileOutcome{
			Name:         name,
			StudentClass: res.StudentClass,
			Success:      res.Success,
			Errors:       res.Errors,
		}
		report.TotalSuccess += res.Success
		report.TotalErrors += res.Errors

		if err != nil {
			outcome.Error = err.Error()
			report.TotalErrors++
			report.Add(fmt.Sprintf(lineFileFailed, name, err.Error()))
			log.Error().Err(err).Str("file", name).Msg("File failed")
		} else {
			report.Add(lineFileOK + name)
		}
		report.Files = append(report.Files, outcome)

		if i < len(files)-1 {
			report.Add(lineNextFile)
		}
	}

	report.Add("")
	report.Add(lineDone)
	report.Add(fmt.Sprintf(lineTotalOK, report.TotalSuccess))
	report.Add(fmt.Sprintf(lineTotalFailed, report.TotalErrors))
	report.FinishedAt = im.now()

	log.Info().
		Int("files", len(files)).
		Int("success", report.TotalSuccess).
		Int("errors", report.TotalErrors).
		Msg("Import finished")

	return report, nil
}
