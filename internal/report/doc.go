// Package report renders beer colour analyses for the ebc command line tool.
//
// Four formats are supported: a human-readable text report with a terminal
// colour swatch, JSON, YAML and Markdown. Every writer renders the same
// models.BatchItem slice, so a failed image is reported next to the images
// that were analysed successfully.
package report
