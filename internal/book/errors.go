package book

import "errors"

var (
	ErrBinaryNotFound  = errors.New("jupyter-book binary not found")
	ErrBuildFailed     = errors.New("jupyter-book build failed")
	ErrBookDirNotFound = errors.New("book directory not found")
)
