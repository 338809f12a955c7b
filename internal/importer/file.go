package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Store is the persistence the importer writes to.
type Store interface {
	DeleteAll(ctx context.Context) (int64, error)
	Insert(ctx context.Context, log *model.ClassLog) error
}

// FileResult counts the rows of one file.
type FileResult struct {
	StudentClass string
	Success      int
	Errors       int
}

// ExtractStudentClass returns the part of a file name before the first
// underscore. A name without one, or starting with one, has no class.
func ExtractStudentClass(fileName string) (string, error) {
	idx := strings.Index(fileName, "_")
	if idx <= 0 {
		return "", fmt.Errorf("%w: %s", ErrNaming, fileName)
	}
	return fileName[:idx], nil
}

// ImportFile stores every data row of the CSV at path. The first record is
// a header and is skipped. Row failures are counted, not returned; the
// returned error means the file was aborted, and the counts up to that
// point remain valid.
func (im *Importer) ImportFile(ctx context.Context, store Store, path string) (FileResult, error) {
	var res FileResult
	name := filepath.Base(path)

	class, err := ExtractStudentClass(name)
	if err != nil {
		return res, err
	}
	res.StudentClass = class

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	log := im.log.With().Str("file", name).Str("student_class", class).Logger()
	log.Info().Msg("Processing file")

	r := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.FieldsPerRecord = -1
	// Lesson content is free text; a stray quote inside an unquoted field is
	// part of the value.
	r.LazyQuotes = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		return res, fmt.Errorf("read header of %s: %w", name, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("parse %s: %w", name, err)
		}
		line, _ := r.FieldPos(0)

		rec, err := im.MapRow(row, class)
		if err != nil {
			res.Errors++
			log.Warn().Err(err).Int("row", line).Msg("Skipping unmappable row")
			continue
		}

		if err := store.Insert(ctx, rec); err != nil {
			res.Errors++
			log.Error().Err(fmt.Errorf("%w: %w", ErrStorage, err)).
				Int("row", line).
				Str("id", rec.ID).
				Msg("Failed to store row")
			continue
		}
		res.Success++
	}

	log.Info().
		Int("success", res.Success).
		Int("errors", res.Errors).
		Msg("File processed")

	return res, nil
}
