// Package schemas embeds the JSON Schemas of the files ps-cli persists.
package schemas

import _ "embed"

// WorkbookProgress is the schema of a persisted workbook progress file.
//
//go:embed workbook_progress.schema.json
var WorkbookProgress string
