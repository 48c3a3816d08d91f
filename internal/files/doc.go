// Package files locates the input extracts in the base directory.
//
// Discovery lists the readable extract files and resolves each expected
// source to an existing file, falling back from the canonical .csv name to
// an .xlsx workbook of the same name.
package files
