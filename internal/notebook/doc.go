// Package notebook provides a typed model of Jupyter notebook documents
// (nbformat 4) with validation on load and round-trip saving.
//
// Only the fields the tooling inspects are typed; cell and notebook metadata,
// outputs and attachments are carried as raw JSON so that a load/modify/save
// cycle does not drop information the tooling does not understand.
package notebook
