// Package deckfile reads and writes card decks. YAML and JSON files hold a
// full registry snapshot, retirement history included. Spreadsheets (.xlsx)
// and .csv files hold one card per row under a header row.
package deckfile
