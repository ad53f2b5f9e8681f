// Package config handles configuration loading, parsing, and validation
// from an optional .env file, an optional flashcard.yaml file and FLASHCARD_
// environment variables. It provides type-safe access to the settings needed
// by the scheduler, the session engine and the command line tool.
package config
