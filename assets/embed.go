package assets

import "embed"

// AssetsFS holds the stylesheet served under /assets/.
//
//go:embed css
var AssetsFS embed.FS
