package db

import "errors"

// Domain-level database error sentinels.
var (
	// Keyword errors
	ErrKeywordNotFound = errors.New("keyword not found")

	// Topic errors
	ErrTopicNotFound = errors.New("topic not found")

	// Pipeline run errors
	ErrRunNotFound     = errors.New("pipeline run not found")
	ErrRunFinished     = errors.New("pipeline run already reached a terminal status")
	ErrInvalidRunStatus = errors.New("not a valid terminal run status")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
