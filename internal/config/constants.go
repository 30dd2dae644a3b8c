package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./freewise.db"

	// DefaultSpoolDir is where uploaded import files are parked for async processing
	DefaultSpoolDir = "./imports"

	// DefaultReviewBatchSize is the daily review batch size when neither the
	// environment nor the review_batch_size setting says otherwise
	DefaultReviewBatchSize = 5
)
