package appfs

import "embed"

// FS embeds non-Go assets needed at runtime: DB migrations and email templates.
//go:embed migrations templates
var FS embed.FS
