// Package scraper downloads calendar documents and finds the current calendar on
// the league web page.
//
// Download fetches a URL with retries. Locator scans a page's hyperlinks for
// candidate documents and validates each by reading its first page and checking
// for the configured marker phrases, so a link that happens to end in .pdf but
// holds something else (a regulations sheet, a basketball schedule) is skipped.
package scraper
