package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError

	// Ingest errors
	IngestDatasetsConfigError
	IngestNoDatasetsError
	IngestFileNotFoundError
	IngestCSVError
	IngestSQLiteError
	IngestBadRowError

	// Analysis errors
	AnalysisNoSeriesError
	AnalysisSeriesError
	AnalysisCancelledError

	// Export errors
	ExportCopyError
	ExportCSVError
	ExportTruncateError
)
