package lifecycle_test

import (
	"testing"

	"github.com/gnames/gnveg/internal/ioanalysis"
	"github.com/gnames/gnveg/internal/iodb"
	"github.com/gnames/gnveg/internal/ioexport"
	"github.com/gnames/gnveg/internal/ioingest"
	"github.com/gnames/gnveg/internal/ioschema"
	"github.com/gnames/gnveg/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

// The contract tests below are compile-time checks: if an internal
// implementation stops satisfying its lifecycle interface, the
// package fails to compile.

func TestSchemaManagerContract(t *testing.T) {
	var sm lifecycle.SchemaManager = ioschema.NewManager(
		iodb.NewPgxOperator())
	assert.NotNil(t, sm,
		"ioschema manager should implement lifecycle.SchemaManager")
}

func TestIngestorContract(t *testing.T) {
	var ing lifecycle.Ingestor = ioingest.NewIngestor()
	assert.NotNil(t, ing,
		"ioingest ingestor should implement lifecycle.Ingestor")
}

func TestAnalyzerContract(t *testing.T) {
	var a lifecycle.Analyzer = ioanalysis.NewQuietAnalyzer()
	assert.NotNil(t, a,
		"ioanalysis analyzer should implement lifecycle.Analyzer")
}

func TestExporterContract(t *testing.T) {
	var e lifecycle.Exporter = ioexport.NewExporter(
		iodb.NewPgxOperator())
	assert.NotNil(t, e,
		"ioexport exporter should implement lifecycle.Exporter")
}
