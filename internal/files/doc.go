// Package files locates experiment data files on disk.
//
// The data files carry Korean display names, and macOS-written archives
// store those names in decomposed form (NFD) while the configuration and
// workbook sheets use composed form (NFC). A byte-exact name lookup can
// therefore miss a file that is canonically present. Resolve compares
// NFC-normalized names so lookups succeed regardless of the normalization
// form on disk.
//
// Discovery provides directory listings of the CSV and XLSX data files for
// status reporting.
package files
