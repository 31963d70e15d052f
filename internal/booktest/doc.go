// Package booktest contains fixture builders and filesystem assertions used
// across tests: book trees, notebook documents and fake execution engines.
package booktest

const (
	testDirPermissions  = 0o750
	testFilePermissions = 0o600
)
