// Package main provides the ebc command line tool.
//
// ebc estimates the colour of a beer from local photographs using the same
// analyzer as the HTTP service.
//
// Usage:
//
//	ebc analyze photo.jpg
//	ebc analyze --format markdown --detailed *.jpg
//	ebc bands
//	ebc classify 12.5
//
// See --help for all available options.
package main

// main is the entry point for ebc.
func main() {
	Execute()
}
