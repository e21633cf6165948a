package http

import (
	"context"
	"io"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/services"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations behind the upload endpoints
type AnalysisServiceInterface interface {
	DefaultHeaderRow() int
	Analyze(ctx context.Context, r io.Reader, filename string, headerRow int) (*domain.AnalysisReport, error)
	Preview(ctx context.Context, r io.Reader, filename string, rows int) (*domain.SheetPreview, error)
	Export(ctx context.Context, r io.Reader, filename string, headerRow int, format, view string) (*services.ExportResult, error)
}
