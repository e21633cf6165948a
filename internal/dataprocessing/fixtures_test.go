package dataprocessing

import (
	"bytes"
	"testing"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/shared/testutil"
)

var (
	salesHeader   = testutil.SalesHeader
	salesRows     = testutil.SalesRows
	dropColumn    = testutil.DropColumn
	salesWorkbook = testutil.SalesWorkbook
)

func defaultWorkbook(t *testing.T) *bytes.Reader {
	return bytes.NewReader(testutil.DefaultWorkbook(t))
}
