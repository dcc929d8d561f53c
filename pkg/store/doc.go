/*
Package store loads transition tables once and serves them by category.

A Store is constructed explicitly with a Fetcher and the categories it should
hold, and is passed to whatever generates names. Tables can be fetched as JSON
over HTTP (HTTPFetcher), from a file system (FSFetcher), or from a SQLite
database (SQLiteFetcher), which can also import tables from their JSON form.
*/
package store
