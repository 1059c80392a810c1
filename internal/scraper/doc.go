// Package scraper extracts the character and costume catalog from external
// wiki pages whose markup is not guaranteed to stay stable.
//
// Each source is fetched with a headless browser when rendering is enabled,
// falling back to a plain HTTP GET on any render failure. The page is then
// run through an ordered cascade of selector sets; the first set yielding at
// least one character wins. A source that no set can read aborts the whole
// run so a partially scraped catalog is never synchronized.
package scraper
