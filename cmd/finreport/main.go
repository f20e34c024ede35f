// Package main provides the finreport CLI.
//
// finreport logs into the PropVivo portal, captures the monthly income
// statement and balance sheet, converts them to markdown tables, asks a
// language model for a homeowner-facing summary, and archives every
// artifact under period-keyed directories.
//
// Usage:
//
//	finreport fetch
//	finreport serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
