package models

import (
	"time"
)

// ChunkRecord is one prepared entry bound for the vector store. Records are
// built per run and written exactly once; a given ID always carries the same
// text, embedding and metadata.
type ChunkRecord struct {
	ID        string    `db:"chunk_id" json:"id"`
	Text      string    `db:"text" json:"text"`
	Embedding []float32 `db:"embedding" json:"embedding"` // pgvector column
	Source    string    `db:"source" json:"source"`       // originating file identifier
}

// FileStatus describes the terminal state of one file within a run.
type FileStatus string

const (
	FileStatusSkipped FileStatus = "skipped" // digest unchanged since last commit
	FileStatusIndexed FileStatus = "indexed" // all chunks flushed, digest committed
	FileStatusFailed  FileStatus = "failed"  // aborted; digest left untouched for retry
)

// FileResult is the per-file outcome reported in a run summary. It replaces
// swallow-all error handling with an explicit record of what happened.
type FileResult struct {
	File   string     `json:"file"`
	Status FileStatus `json:"status"`
	Chunks int        `json:"chunks_added"`
	Reason string     `json:"reason,omitempty"` // populated for failed files
}

// RunMode distinguishes an incremental load from a full rebuild.
type RunMode string

const (
	RunModeLoad   RunMode = "load"
	RunModeReload RunMode = "reload"
)

// RunSummary aggregates one ingestion run.
type RunSummary struct {
	RunID       string       `json:"run_id"`
	Collection  string       `json:"collection"`
	Mode        RunMode      `json:"mode"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Files       int          `json:"files"`
	Indexed     int          `json:"indexed"`
	Skipped     int          `json:"skipped"`
	Failed      int          `json:"failed"`
	ChunksAdded int          `json:"chunks_added"`
	Results     []FileResult `json:"results"`
}

// CollectionInfo is the listed form of a stored collection.
type CollectionInfo struct {
	Name      string    `db:"name" json:"name"`
	Count     int       `db:"count" json:"count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SourceFile is a candidate document discovered by a DocumentSource.
type SourceFile struct {
	// ID is the stable file identifier recorded in the hash index and in chunk
	// metadata: the base name for folder sources, the object key for S3.
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
}
