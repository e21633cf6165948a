package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
	apperrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
)

// FileValidator checks spreadsheets before they reach the pipeline, both for
// HTTP uploads and for files named on the command line
type FileValidator struct {
	logger     *slog.Logger
	maxBytes   int64
	extensions []string
}

// NewFileValidator creates a validator accepting the supported spreadsheet
// extensions up to maxBytes. A non-positive maxBytes means no size limit.
func NewFileValidator(maxBytes int64, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:     logger.With(slog.String("component", "file_validator")),
		maxBytes:   maxBytes,
		extensions: config.SupportedExtensions,
	}
}

// MaxBytes returns the upload size limit
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// IsSpreadsheet reports whether name has a supported extension and is not
// an office lock file
func (v *FileValidator) IsSpreadsheet(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") {
		return false
	}
	return slices.Contains(v.extensions, strings.ToLower(filepath.Ext(base)))
}

// ValidateUpload checks an uploaded file's name and size. The returned error
// is an *errors.APIError ready to be rendered.
func (v *FileValidator) ValidateUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return apperrors.ErrValidation("file", "a spreadsheet file is required")
	}
	if !v.IsSpreadsheet(filename) {
		v.logger.Warn("Rejected upload with unsupported type",
			slog.String("filename", filename))
		return apperrors.UnsupportedFile(filename, v.extensions)
	}
	if size == 0 {
		return apperrors.ErrValidation("file", "the uploaded file is empty")
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("Rejected oversized upload",
			slog.String("filename", filename),
			slog.Int64("size", size),
			slog.Int64("limit", v.maxBytes))
		return apperrors.PayloadTooLarge(v.maxBytes)
	}
	return nil
}

// ValidateFile checks that path is a readable spreadsheet
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return apperrors.NewNotFoundError(fmt.Sprintf("file %s", path))
	}
	if err != nil {
		return apperrors.NewStorageError("failed to stat file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}
	if !v.IsSpreadsheet(path) {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is not a supported spreadsheet (%s)",
			path, strings.Join(v.extensions, ", ")))
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError("file is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures dir exists or can be created and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).WithContext("path", dir)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return apperrors.NewStorageError("output directory is not writable", err).WithContext("path", dir)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}
