// Package db provides the embedded database schema and seed menu.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedMenu is the bilingual menu (categories, items, offers) used to seed
// fresh stores.
//
//go:embed seed/menu.json
var SeedMenu []byte
